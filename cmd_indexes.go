package main

import (
	"context"
	"fmt"
	"time"

	"etudia/repository"

	"github.com/spf13/cobra"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the database indexes and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig

		client, err := connectMongo(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		}()

		db := client.Database(cfg.Database.DatabaseName)
		if err := repository.SetupIndexes(cmd.Context(), db, cfg.Database.NotesCollection, cfg.Database.UsersCollection); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "indexes ready on %s\n", cfg.Database.DatabaseName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexesCmd)
}
