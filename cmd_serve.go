package main

import (
	"context"
	"fmt"
	"time"

	"etudia/logger"
	"etudia/repository"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		skipIndexes, _ := cmd.Flags().GetBool("skip-indexes")
		cfg := appConfig

		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := a.Close(ctx); err != nil {
				logger.Warn().Err(err).Msg("shutdown cleanup failed")
			}
		}()

		if !skipIndexes {
			db := a.client.Database(cfg.Database.DatabaseName)
			if err := repository.SetupIndexes(cmd.Context(), db, cfg.Database.NotesCollection, cfg.Database.UsersCollection); err != nil {
				return err
			}
		}

		router := setupRouter(cfg, a.svc)
		// Ask requests run up to the RAG timeout, so reads get the same budget.
		return runServer(fmt.Sprintf(":%s", cfg.Server.Port), router, cfg.RAG.Timeout)
	},
}

func init() {
	serveCmd.Flags().Bool("skip-indexes", false, "do not create indexes at startup")
	rootCmd.AddCommand(serveCmd)
}
