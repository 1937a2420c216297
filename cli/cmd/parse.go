package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/alecthomas/repr"
	"github.com/spf13/cobra"

	"github.com/stellarstats/savewatch"
	"github.com/stellarstats/savewatch/saveparser"
)

var (
	dump bool

	parseCmd = &cobra.Command{
		Use:   "parse <file.sav>",
		Short: "Parse a single save archive and print a summary of its gamestate",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				_ = cmd.Help()
				return errors.New("expected exactly one save file argument")
			}

			gamestate, err := savewatch.ReadGamestate(args[0])
			if err != nil {
				return err
			}
			start := time.Now()
			tree, err := saveparser.Parse(gamestate)
			if err != nil {
				return err
			}

			if dump {
				repr.Println(saveparser.Plain(tree))
				return nil
			}

			date, _ := tree.String("date")
			name, _ := tree.String("name")
			fmt.Printf("%s: name=%q date=%s, %d top-level keys in %s\n",
				args[0], name, date, tree.Len(), time.Since(start).Round(time.Millisecond))
			for _, key := range tree.Keys() {
				fmt.Println("  " + saveparser.KeyString(key))
			}
			return nil
		},
	}
)

func init() {
	parseCmd.Flags().BoolVar(&dump, "dump", false, "print the full parsed tree instead of a summary")
	rootCmd.AddCommand(parseCmd)
}
