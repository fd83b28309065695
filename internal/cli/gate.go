package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/seiya-sugimoto/trade-gate-log/internal/gate"
	"github.com/seiya-sugimoto/trade-gate-log/internal/models"
)

// addGateCommands adds the gate evaluation command.
func addGateCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newCheckCmd(app))
}

// addDraftFlags registers the flags that describe a trade draft. Shared by
// `check` and `log`.
func addDraftFlags(cmd *cobra.Command) {
	cmd.Flags().String("symbol", "", "instrument symbol")
	cmd.Flags().String("side", "", "trade side (BUY, SELL)")
	cmd.Flags().String("month", "", "monthly bias (UP, DOWN, RANGE)")
	cmd.Flags().String("week", "", "weekly bias (UP, DOWN, RANGE)")
	cmd.Flags().String("day", "", "daily bias (UP, DOWN, RANGE)")
	cmd.Flags().String("exec-tf", "", "execution timeframe")
	cmd.Flags().String("ema25", "", "price vs 25 EMA (ABOVE, BELOW, ON, OFF)")
	cmd.Flags().String("structure", "", "market structure (HH, LL, RANGE, REVERSAL_CANDIDATE)")
	cmd.Flags().StringSlice("reason", nil, "entry reason tag (repeatable)")
	cmd.Flags().String("entry-type", "", "entry type (PULLBACK, RETRACE, BREAKOUT, REVERSAL_DB_DT)")
	cmd.Flags().String("wave", "", "wave position (START, MID, END)")
	cmd.Flags().String("ema-distance", "", "25 EMA distance (SMALL, MID, LARGE)")
	cmd.Flags().String("dango", "NO", "congestion state (YES, NO)")
	cmd.Flags().String("stop-reason", "", "stop-loss rationale")
	cmd.Flags().StringSlice("tp", nil, "take-profit candidate tag (repeatable)")
	cmd.Flags().String("rr", "", "risk:reward bucket (LT_1, BTW_1_2, GE_2)")
	cmd.Flags().StringSlice("forbidden", nil, "self-flagged violation tag (repeatable)")
	cmd.Flags().String("entry-reason", "", "one-line entry reason (20-60 characters)")
	cmd.Flags().String("skip-condition", "", "one-line skip condition")
	cmd.Flags().String("chart-url", "", "chart URL")
	cmd.Flags().String("friction-note", "", "justification for saving against gate warnings")
}

// draftFromFlags builds a trade draft from the registered draft flags.
func draftFromFlags(cmd *cobra.Command) models.TradeDraft {
	str := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	slice := func(name string) []string {
		v, _ := cmd.Flags().GetStringSlice(name)
		return v
	}

	return models.TradeDraft{
		Symbol: str("symbol"),
		Side:   models.Side(str("side")),
		HigherTF: models.HigherTF{
			Month: models.Direction(str("month")),
			Week:  models.Direction(str("week")),
			Day:   models.Direction(str("day")),
		},
		ExecTF:               str("exec-tf"),
		EMA25State:           models.EMA25State(str("ema25")),
		Structure:            models.Structure(str("structure")),
		Reasons:              slice("reason"),
		EntryType:            models.EntryType(str("entry-type")),
		WavePosition:         models.WavePosition(str("wave")),
		EMADistance:          models.EMADistance(str("ema-distance")),
		Dango:                models.Dango(str("dango")),
		StopReason:           str("stop-reason"),
		TPCandidates:         slice("tp"),
		RRCategory:           models.RRCategory(str("rr")),
		ForbiddenTags:        slice("forbidden"),
		EntryReasonOneLine:   str("entry-reason"),
		SkipConditionOneLine: str("skip-condition"),
		ChartURL:             str("chart-url"),
		FrictionNote:         str("friction-note"),
	}
}

// printWarnings renders gate warnings, highlighted when the terminal allows.
func printWarnings(output *Output, warnings []string) {
	warn := color.New(color.FgYellow, color.Bold)
	for i, w := range warnings {
		if output.colorEnabled {
			output.Printf("  %s %s\n", warn.Sprintf("%d.", i+1), w)
		} else {
			output.Printf("  %d. %s\n", i+1, w)
		}
	}
}

func newCheckCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the gate checks against a draft trade",
		Long: `Evaluate a draft trade against the hard-stop gate rules without saving
anything. The checks run in a fixed order and every applicable warning is
reported; zero warnings means the draft passes the gate cleanly.`,
		Example: `  tradegate check --side BUY --month DOWN --week DOWN --day UP --dango NO \
      --wave MID --stop-reason "below recent swing low" --rr GE_2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			draft := draftFromFlags(cmd)

			warnings := gate.Evaluate(draft)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"warnings": warnings,
					"passed":   len(warnings) == 0,
				})
			}

			if len(warnings) == 0 {
				output.Success("Gate passed: no warnings.")
				return nil
			}

			output.Warning("Gate raised %s:", FormatCount(len(warnings), "warning"))
			printWarnings(output, warnings)
			output.Println()
			output.Dim("Saving this trade will require a friction note (--friction-note).")
			return nil
		},
	}
	addDraftFlags(cmd)
	return cmd
}
