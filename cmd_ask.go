package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"etudia/dto"
	"etudia/usecase"
	"etudia/utils"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the stored notes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		promotion, _ := cmd.Flags().GetString("promotion")
		course, _ := cmd.Flags().GetString("course")
		model, _ := cmd.Flags().GetString("model")
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

		svc := usecase.NewAskService(newGateway(cfg, client), nil, cfg.RAG.Timeout)
		req := &dto.AskRequest{
			Question:  strings.Join(args, " "),
			Promotion: promotion,
			Course:    course,
			Model:     model,
		}

		start := time.Now()
		answer, err := svc.Ask(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("ask failed: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Question: %s\n", req.Question)
		fmt.Fprintf(out, "Answer: %s\n", answer)
		fmt.Fprintf(out, "Took: %s\n", time.Since(start).Round(time.Millisecond))

		metrics := utils.GetMongoMetrics()
		fmt.Fprintf(out, "Connections: %d created, %d closed\n", metrics.CreatedConnections, metrics.ClosedConnections)
		return nil
	},
}

func init() {
	askCmd.Flags().StringP("promotion", "p", "", "promotion the notes belong to (required)")
	askCmd.Flags().String("course", "", "restrict to one course")
	askCmd.Flags().String("model", "", "chat model override")
	_ = askCmd.MarkFlagRequired("promotion")
	rootCmd.AddCommand(askCmd)
}
