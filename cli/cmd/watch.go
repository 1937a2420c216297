package cmd

import (
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stellarstats/savewatch"
)

var (
	replay bool

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Watch the save directory and parse new saves as they appear",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			config, err := LoadConfig()
			if err != nil {
				return err
			}

			monitor := savewatch.NewSavePathMonitor(config.SaveDir, config.Prefix, logger)
			if !replay {
				if err := monitor.MarkAllExistingSeen(); err != nil {
					return err
				}
			}

			dispatcher := savewatch.NewDispatcher(config.Threads, logger)
			dispatcher.SkipDuplicates = config.SkipDuplicates
			defer dispatcher.Teardown()

			scanner := savewatch.NewAutoScanner(monitor, dispatcher, config.PollInterval(), logger)
			scanner.UseWatcher = config.Watch
			scanner.OnResult(func(r savewatch.Result) {
				if r.Err != nil {
					return // already logged by the scanner
				}
				date, _ := r.Tree.String("date")
				logger.WithFields(logrus.Fields{
					"game": r.Game,
					"date": date,
					"keys": r.Tree.Len(),
				}).Info("save ready")
			})

			logger.WithFields(logrus.Fields{
				"dir":     config.SaveDir,
				"threads": config.Threads,
				"prefix":  config.Prefix,
			}).Info("watching for new saves")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			err = scanner.Run(ctx)
			if ctx.Err() != nil {
				logger.Info("shutting down")
				return nil
			}
			return err
		},
	}
)

func init() {
	watchCmd.Flags().BoolVar(&replay, "replay", false, "also process saves that already exist instead of only new ones")
	rootCmd.AddCommand(watchCmd)
}
