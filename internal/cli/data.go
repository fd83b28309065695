package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/seiya-sugimoto/trade-gate-log/internal/backup"
	"github.com/seiya-sugimoto/trade-gate-log/internal/errs"
	"github.com/seiya-sugimoto/trade-gate-log/internal/models"
)

// addDataCommands adds the backup, restore, and maintenance commands.
func addDataCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newExportCmd(app))
	rootCmd.AddCommand(newImportCmd(app))
	rootCmd.AddCommand(newClearCmd(app))
	rootCmd.AddCommand(newSeedCmd(app))
}

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export all data to a file",
		Long: `Export every trade record and the settings to a backup file. The json
format round-trips through 'tradegate import'; csv is a flattened table for
spreadsheets and cannot be imported back.`,
		Example: `  tradegate export backup.json
  tradegate export trades.csv --format csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			outFile := args[0]
			format, _ := cmd.Flags().GetString("format")

			trades, err := app.Repo.GetAllTrades(ctx)
			if err != nil {
				output.Error("Failed to fetch trades: %v", err)
				return err
			}
			settings, err := app.Repo.GetSettings(ctx)
			if err != nil {
				output.Error("Failed to fetch settings: %v", err)
				return err
			}

			switch format {
			case "json":
				data, err := backup.Marshal(trades, settings, time.Now())
				if err != nil {
					return err
				}
				if err := os.WriteFile(outFile, data, 0644); err != nil {
					output.Error("Failed to write file: %v", err)
					return err
				}
			case "csv":
				file, err := os.Create(outFile)
				if err != nil {
					output.Error("Failed to create file: %v", err)
					return err
				}
				defer file.Close()
				if err := backup.WriteCSV(file, trades); err != nil {
					output.Error("Failed to write csv: %v", err)
					return err
				}
			default:
				return fmt.Errorf("unknown format: %s (use json or csv)", format)
			}

			// Remember the export time for the reminder.
			exportedAt := time.Now().UTC().Format(time.RFC3339)
			if err := app.Repo.SaveSettings(ctx, models.SettingsUpdate{LastExportedAt: &exportedAt}); err != nil {
				app.Logger.Warn().Err(err).Msg("Failed to record export time")
			}

			output.Success("Exported %s to %s", FormatCount(len(trades), "trade"), outFile)
			return nil
		},
	}
	cmd.Flags().String("format", "json", "output format (json, csv)")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a backup, replacing all existing data",
		Long: `Restore a JSON backup. The whole payload is validated first, then every
existing trade is replaced in a single transaction: either the import applies
completely or the prior dataset is left fully intact.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			data, err := os.ReadFile(args[0])
			if err != nil {
				output.Error("Failed to read file: %v", err)
				return err
			}

			trades, settings, err := backup.Parse(data)
			if err != nil {
				output.Error("Rejected backup: %v", err)
				return err
			}

			if err := app.Repo.ImportData(ctx, trades, settings); err != nil {
				if issues, ok := errs.AsValidation(err); ok {
					printIssues(output, issues)
					return err
				}
				if errs.IsStorage(err) {
					output.Error("Import failed, no changes applied: %v", err)
					return err
				}
				output.Error("Import failed: %v", err)
				return err
			}

			output.Success("Imported %s.", FormatCount(len(trades), "trade"))
			return nil
		},
	}
}

func newClearCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all trades and settings",
		Long:  "Delete every trade record and the settings row. This is irreversible.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			confirmed, _ := cmd.Flags().GetBool("yes")
			if !confirmed {
				output.Warning("This deletes every trade and the settings. Re-run with --yes to confirm.")
				return nil
			}

			if err := app.Repo.ClearAllData(ctx); err != nil {
				output.Error("Failed to clear data: %v", err)
				return err
			}
			output.Success("All data cleared.")
			return nil
		},
	}
	cmd.Flags().Bool("yes", false, "confirm the wipe")
	return cmd
}

func newSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:    "seed",
		Short:  "Insert demo trades",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			for _, rec := range demoTrades(time.Now()) {
				if _, err := app.Repo.SaveTrade(ctx, rec); err != nil {
					output.Error("Failed to seed: %v", err)
					return err
				}
			}
			output.Success("Demo trades inserted.")
			return nil
		},
	}
}
