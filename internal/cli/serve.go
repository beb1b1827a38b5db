package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/yungbote/reviewloop-backend/internal/app"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and notification workers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			err = a.Run(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and indexes, then exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := app.NewLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			app.LoadDotEnv(log)
			cfg := app.LoadConfig(log)
			store, err := app.OpenStore(log, cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			log.Info("Migrations applied", "driver", store.Driver())
			return nil
		},
	}
}
