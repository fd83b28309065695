// Package notify builds journal hygiene reminders. Reminders are computed
// from the current dataset and shown in the terminal; nothing leaves the
// process.
package notify

import (
	"fmt"
	"time"

	"github.com/seiya-sugimoto/trade-gate-log/internal/models"
)

// Nudge is a single reminder line.
type Nudge struct {
	Title   string
	Message string
}

const (
	// Outcomes left open longer than this are considered stale.
	staleOutcomeAge = 24 * time.Hour
	// Datasets not exported for this long earn a backup reminder.
	exportReminderAge = 7 * 24 * time.Hour
)

// BuildNudges computes the reminders for the current dataset. It returns nil
// when reminders are disabled in settings or there is nothing to say.
func BuildNudges(trades []models.TradeRecord, settings *models.SettingsRecord, now time.Time) []Nudge {
	enabled := true
	if settings != nil {
		enabled = settings.ReminderEnabled
	}
	if !enabled || len(trades) == 0 {
		return nil
	}

	var nudges []Nudge

	stale := 0
	for _, t := range trades {
		if !t.Finished() && now.Sub(t.CreatedAt) > staleOutcomeAge {
			stale++
		}
	}
	if stale > 0 {
		nudges = append(nudges, Nudge{
			Title:   "Outcomes pending",
			Message: fmt.Sprintf("%d trade(s) older than a day still have no recorded outcome", stale),
		})
	}

	if nudge, ok := exportNudge(settings, now); ok {
		nudges = append(nudges, nudge)
	}
	return nudges
}

// exportNudge reminds about backups when the last export is old or missing.
func exportNudge(settings *models.SettingsRecord, now time.Time) (Nudge, bool) {
	if settings == nil || settings.LastExportedAt == "" {
		return Nudge{
			Title:   "No backup yet",
			Message: "the journal has never been exported; run 'tradegate export'",
		}, true
	}

	last, err := time.Parse(time.RFC3339, settings.LastExportedAt)
	if err != nil {
		return Nudge{}, false
	}
	if age := now.Sub(last); age > exportReminderAge {
		return Nudge{
			Title:   "Backup is stale",
			Message: fmt.Sprintf("last export was %d days ago; run 'tradegate export'", int(age.Hours()/24)),
		}, true
	}
	return Nudge{}, false
}
