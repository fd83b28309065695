package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seiya-sugimoto/trade-gate-log/internal/stats"
)

// addStatsCommand adds the discipline summary command.
func addStatsCommand(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show a discipline summary",
		Long: `Aggregate the journal into a discipline summary: outcome counts, win
rate, rule adherence, and what overriding the gate actually cost. No P&L
figures are tracked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			trades, err := app.Repo.GetAllTrades(ctx)
			if err != nil {
				output.Error("Failed to fetch trades: %v", err)
				return err
			}

			summary := stats.Compute(trades)
			if output.IsJSON() {
				return output.JSON(summary)
			}

			if summary.TotalTrades == 0 {
				output.Info("No trades recorded.")
				return nil
			}

			output.Bold("Discipline summary")
			output.Printf("  trades:         %d (%d finished, %d open)\n",
				summary.TotalTrades, summary.Finished, summary.Unfinished)
			output.Printf("  outcomes:       %d win / %d loss / %d break-even\n",
				summary.Wins, summary.Losses, summary.BreakEven)
			if summary.Wins+summary.Losses > 0 {
				output.Printf("  win rate:       %s\n", formatPercent(summary.WinRate))
			}
			if summary.Finished > 0 {
				output.Printf("  followed rules: %s (%d yes / %d no)\n",
					formatPercent(summary.FollowedRate), summary.FollowedYes, summary.FollowedNo)
			}
			if summary.WarnedTrades > 0 {
				output.Warning("  saved against warnings: %d (%d won, %d lost)",
					summary.WarnedTrades, summary.WarnedWins, summary.WarnedLosses)
			}

			if len(summary.BySymbol) > 0 {
				output.Println()
				table := NewTable(output, "Symbol", "Trades", "Wins", "Losses")
				for _, sc := range summary.BySymbol {
					table.AddRow(sc.Symbol, fmt.Sprintf("%d", sc.Trades),
						fmt.Sprintf("%d", sc.Wins), fmt.Sprintf("%d", sc.Losses))
				}
				table.Render()
			}
			return nil
		},
	})
}

// formatPercent renders a [0,1] ratio as a percentage.
func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
