package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/seiya-sugimoto/trade-gate-log/internal/errs"
	"github.com/seiya-sugimoto/trade-gate-log/internal/models"
)

// addSettingsCommands adds the settings commands.
func addSettingsCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Application settings",
	}
	cmd.AddCommand(newSettingsShowCmd(app))
	cmd.AddCommand(newSettingsSetCmd(app))
	rootCmd.AddCommand(cmd)
}

func newSettingsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			settings, err := app.Repo.GetSettings(ctx)
			if err != nil {
				output.Error("Failed to load settings: %v", err)
				return err
			}

			effective := models.DefaultSettings()
			stored := settings != nil
			if stored {
				effective = *settings
			}

			if output.IsJSON() {
				return output.JSON(effective)
			}

			if !stored {
				output.Dim("No settings saved yet; showing defaults.")
			}
			output.Printf("  theme:             %s\n", effective.Theme)
			output.Printf("  pro:               %t\n", effective.IsPro)
			output.Printf("  export reminder:   %t\n", effective.ReminderEnabled)
			if effective.LastExportedAt != "" {
				output.Printf("  last exported at:  %s\n", effective.LastExportedAt)
			}
			return nil
		},
	}
}

func newSettingsSetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "set",
		Short:   "Update settings",
		Example: `  tradegate settings set --theme dark --reminder=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			var upd models.SettingsUpdate
			if cmd.Flags().Changed("theme") {
				v, _ := cmd.Flags().GetString("theme")
				theme := models.Theme(v)
				if !theme.IsValid() {
					output.Error("Invalid theme: %s", v)
					return errs.NewValidationError("theme", v, "must be one of light, dark")
				}
				upd.Theme = &theme
			}
			if cmd.Flags().Changed("reminder") {
				v, _ := cmd.Flags().GetBool("reminder")
				upd.ReminderEnabled = &v
			}
			if cmd.Flags().Changed("pro") {
				v, _ := cmd.Flags().GetBool("pro")
				upd.IsPro = &v
			}

			if err := app.Repo.SaveSettings(ctx, upd); err != nil {
				output.Error("Failed to save settings: %v", err)
				return err
			}
			output.Success("Settings saved.")
			return nil
		},
	}
	cmd.Flags().String("theme", "", "UI theme (light, dark)")
	cmd.Flags().Bool("reminder", true, "enable export reminder")
	cmd.Flags().Bool("pro", false, "mark this install as pro")
	return cmd
}
