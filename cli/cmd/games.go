package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/stellarstats/savewatch"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List game identifiers found under the save directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		config, err := LoadConfig()
		if err != nil {
			return err
		}

		monitor := savewatch.NewSavePathMonitor(config.SaveDir, config.Prefix, logger)
		files, err := monitor.Scan()
		if err != nil {
			return err
		}

		counts := map[string]int{}
		for _, f := range files {
			counts[f.Game]++
		}
		games := make([]string, 0, len(counts))
		for game := range counts {
			games = append(games, game)
		}
		sort.Strings(games)
		for _, game := range games {
			fmt.Printf("%s\t%d saves\n", game, counts[game])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gamesCmd)
}
