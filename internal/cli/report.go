package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/seiya-sugimoto/trade-gate-log/internal/report"
)

// addReportCommands adds the AI review report command.
func addReportCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate an AI discipline review of recent trades",
		Long: `Send a reduced projection of recent trades (symbol, side, reasons, gate
warnings, outcome, learnings, friction notes) to the configured LLM and print
its discipline review. API credentials and full records never leave the
process. The review is about rule adherence, not investment advice.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			if app.Config.Credentials.OpenAIAPIKey == "" {
				output.Error("OPENAI_API_KEY is not set.")
				return fmt.Errorf("missing openai api key")
			}

			limit, _ := cmd.Flags().GetInt("limit")

			trades, err := app.Repo.GetAllTrades(ctx)
			if err != nil {
				output.Error("Failed to fetch trades: %v", err)
				return err
			}
			if len(trades) == 0 {
				output.Info("No trades to review.")
				return nil
			}
			if limit > 0 && len(trades) > limit {
				trades = trades[:limit]
			}

			client := report.NewOpenAIClient(app.Config.Credentials.OpenAIAPIKey, app.Config.Report.Model)

			output.Info("Reviewing %s...", FormatCount(len(trades), "trade"))
			text, err := report.Generate(ctx, client, report.Project(trades))
			if err != nil {
				output.Error("Report generation failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"report": text})
			}
			output.Println()
			output.Println(text)
			return nil
		},
	}
	cmd.Flags().Int("limit", 30, "maximum number of recent trades to review")
	rootCmd.AddCommand(cmd)
}
