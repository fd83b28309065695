package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/seiya-sugimoto/trade-gate-log/internal/errs"
	"github.com/seiya-sugimoto/trade-gate-log/internal/gate"
	"github.com/seiya-sugimoto/trade-gate-log/internal/models"
	"github.com/seiya-sugimoto/trade-gate-log/internal/notify"
	"github.com/seiya-sugimoto/trade-gate-log/internal/schema"
)

const commandTimeout = 30 * time.Second

// addTradeCommands adds the trade record commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newLogCmd(app))
	rootCmd.AddCommand(newListCmd(app))
	rootCmd.AddCommand(newShowCmd(app))
	rootCmd.AddCommand(newOutcomeCmd(app))
	rootCmd.AddCommand(newDeleteCmd(app))
}

// printIssues renders collected validation issues, one line per field.
func printIssues(output *Output, issues errs.ValidationErrors) {
	output.Error("Validation failed:")
	for _, issue := range issues {
		output.Printf("  %s: %s\n", issue.Field, issue.Message)
	}
}

func newLogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record a trade through the gate",
		Long: `Record a new trade. The draft is evaluated against the gate rules first;
when any warning fires, the save requires a non-empty --friction-note. The
gate warns, it never blocks.`,
		Example: `  tradegate log --symbol USDJPY --side BUY --month UP --week UP --day UP \
      --ema25 ABOVE --structure HH --entry-type PULLBACK --wave START \
      --ema-distance SMALL --dango NO --rr GE_2 \
      --stop-reason "below the last higher low on H4" \
      --entry-reason "pullback to 25EMA in a monthly uptrend, clean HH structure"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			draft := draftFromFlags(cmd)
			warnings := gate.Evaluate(draft)

			rec, issues := schema.Finalize(draft, warnings, time.Now())
			if len(issues) > 0 {
				if len(warnings) > 0 {
					output.Warning("Gate raised %s:", FormatCount(len(warnings), "warning"))
					printWarnings(output, warnings)
					output.Println()
				}
				printIssues(output, issues)
				return issues
			}

			id, err := app.Repo.SaveTrade(ctx, rec)
			if err != nil {
				output.Error("Failed to save trade: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(rec)
			}

			if len(warnings) > 0 {
				output.Warning("Saved against %s:", FormatCount(len(warnings), "gate warning"))
				printWarnings(output, warnings)
			} else {
				output.Success("Gate passed: no warnings.")
			}
			output.Printf("Trade %s recorded (%s %s).\n", ShortID(id), rec.Symbol, rec.Side)
			return nil
		},
	}
	addDraftFlags(cmd)
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded trades",
		Long:  "List trade records, newest first, optionally filtered by symbol or result.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			symbol, _ := cmd.Flags().GetString("symbol")
			result, _ := cmd.Flags().GetString("result")

			trades, err := app.Repo.GetAllTrades(ctx)
			if err != nil {
				output.Error("Failed to fetch trades: %v", err)
				return err
			}

			filtered := trades[:0:0]
			for _, t := range trades {
				if symbol != "" && t.Symbol != symbol {
					continue
				}
				if result != "" && string(t.Outcome.Result) != result {
					continue
				}
				filtered = append(filtered, t)
			}

			if output.IsJSON() {
				return output.JSON(filtered)
			}

			if len(filtered) == 0 {
				output.Info("No trades recorded.")
				return nil
			}

			table := NewTable(output, "ID", "Date", "Symbol", "Side", "Entry", "Warnings", "Result", "Rules")
			for _, t := range filtered {
				table.AddRow(
					ShortID(t.ID),
					FormatDate(t.CreatedAt),
					t.Symbol,
					string(t.Side),
					truncate(t.EntryReasonOneLine, 32),
					FormatCount(len(t.Gate.Warnings), "warning"),
					resultCell(output, t.Outcome.Result),
					string(t.Outcome.FollowedRules),
				)
			}
			table.Render()
			output.Println()
			output.Dim("%s total. Use 'tradegate show <id>' for details.", FormatCount(len(filtered), "trade"))

			settings, err := app.Repo.GetSettings(ctx)
			if err != nil {
				return err
			}
			for _, nudge := range notify.BuildNudges(trades, settings, time.Now()) {
				output.Warning("%s: %s", nudge.Title, nudge.Message)
			}
			return nil
		},
	}
	cmd.Flags().String("symbol", "", "filter by symbol")
	cmd.Flags().String("result", "", "filter by result (WIN, LOSS, BE, NONE)")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a trade record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			rec, err := findTrade(ctx, app, args[0])
			if err != nil {
				output.Error("Trade not found: %s", args[0])
				return err
			}

			if output.IsJSON() {
				return output.JSON(rec)
			}

			output.Bold("%s %s  (%s)", rec.Symbol, rec.Side, FormatDateTime(rec.CreatedAt))
			output.Printf("  id:             %s\n", rec.ID)
			output.Printf("  higher TF:      month=%s week=%s day=%s\n",
				rec.HigherTF.Month, rec.HigherTF.Week, rec.HigherTF.Day)
			output.Printf("  setup:          %s / %s / ema25=%s / wave=%s / ema-dist=%s / dango=%s\n",
				rec.EntryType, rec.Structure, rec.EMA25State, rec.WavePosition, rec.EMADistance, rec.Dango)
			output.Printf("  reasons:        %s\n", FormatTags(rec.Reasons))
			output.Printf("  entry reason:   %s\n", rec.EntryReasonOneLine)
			output.Printf("  stop reason:    %s\n", rec.StopReason)
			output.Printf("  risk:reward:    %s\n", rec.RRCategory)
			output.Printf("  tp candidates:  %s\n", FormatTags(rec.TPCandidates))
			if rec.ChartURL != "" {
				output.Printf("  chart:          %s\n", rec.ChartURL)
			}
			if len(rec.Gate.Warnings) > 0 {
				output.Warning("  Gate warnings:")
				printWarnings(output, rec.Gate.Warnings)
				output.Printf("  friction note:  %s\n", rec.FrictionNote)
			}
			output.Printf("  outcome:        %s (rules: %s)\n", rec.Outcome.Result, rec.Outcome.FollowedRules)
			if rec.Outcome.LearnOneLine != "" {
				output.Printf("  learned:        %s\n", rec.Outcome.LearnOneLine)
			}
			return nil
		},
	}
}

func newOutcomeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outcome <id>",
		Short: "Record the outcome of a trade",
		Long: `Fill in the post-trade block of an existing record. Only supplied flags
are changed; everything else is untouched.`,
		Example: `  tradegate outcome 8f14e45f --result WIN --followed YES --learn "held to plan"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			rec, err := findTrade(ctx, app, args[0])
			if err != nil {
				output.Error("Trade not found: %s", args[0])
				return err
			}

			var upd models.TradeUpdate
			if cmd.Flags().Changed("result") {
				v, _ := cmd.Flags().GetString("result")
				result := models.TradeResult(v)
				if !result.IsValid() {
					output.Error("Invalid result: %s", v)
					return errs.NewValidationError("result", v, "must be one of WIN, LOSS, BE, NONE")
				}
				upd.Result = &result
			}
			if cmd.Flags().Changed("followed") {
				v, _ := cmd.Flags().GetString("followed")
				followed := models.FollowedRules(v)
				if !followed.IsValid() {
					output.Error("Invalid followed-rules flag: %s", v)
					return errs.NewValidationError("followedRules", v, "must be one of YES, NO, NONE")
				}
				upd.FollowedRules = &followed
			}
			if cmd.Flags().Changed("deviation") {
				v, _ := cmd.Flags().GetStringSlice("deviation")
				upd.DeviationTags = &v
			}
			if cmd.Flags().Changed("learn") {
				v, _ := cmd.Flags().GetString("learn")
				upd.LearnOneLine = &v
			}

			if _, err := app.Repo.UpdateTrade(ctx, rec.ID, upd); err != nil {
				output.Error("Failed to update trade: %v", err)
				return err
			}
			output.Success("Outcome recorded for %s.", ShortID(rec.ID))
			return nil
		},
	}
	cmd.Flags().String("result", "", "trade result (WIN, LOSS, BE, NONE)")
	cmd.Flags().String("followed", "", "followed own rules (YES, NO, NONE)")
	cmd.Flags().StringSlice("deviation", nil, "deviation tag (repeatable)")
	cmd.Flags().String("learn", "", "one-line learning")
	return cmd
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a trade record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			rec, err := findTrade(ctx, app, args[0])
			if err != nil {
				output.Error("Trade not found: %s", args[0])
				return err
			}
			if err := app.Repo.DeleteTrade(ctx, rec.ID); err != nil {
				output.Error("Failed to delete trade: %v", err)
				return err
			}
			output.Success("Trade %s deleted.", ShortID(rec.ID))
			return nil
		},
	}
}

// resultCell renders a trade result for the list table, colored when the
// terminal allows.
func resultCell(output *Output, result models.TradeResult) string {
	switch result {
	case models.ResultWin:
		return output.ColoredString(ColorGreen, string(result))
	case models.ResultLoss:
		return output.ColoredString(ColorRed, string(result))
	}
	return string(result)
}

// findTrade resolves a full or shortened id to a trade record.
func findTrade(ctx context.Context, app *App, id string) (*models.TradeRecord, error) {
	rec, err := app.Repo.GetTrade(ctx, id)
	if err == nil {
		return rec, nil
	}
	if !errs.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	// Allow unambiguous id prefixes for convenience.
	trades, err := app.Repo.GetAllTrades(ctx)
	if err != nil {
		return nil, err
	}
	var match *models.TradeRecord
	for i := range trades {
		if len(id) >= 4 && len(trades[i].ID) >= len(id) && trades[i].ID[:len(id)] == id {
			if match != nil {
				return nil, errs.ErrNotFound
			}
			match = &trades[i]
		}
	}
	if match == nil {
		return nil, errs.ErrNotFound
	}
	return match, nil
}
