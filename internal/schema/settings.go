package schema

import "github.com/seiya-sugimoto/trade-gate-log/internal/models"

// SettingsCandidate mirrors the persisted settings shape with every field
// optional, so defaults can be substituted for anything absent.
type SettingsCandidate struct {
	IsPro           *bool   `json:"isPro"`
	Theme           *string `json:"theme"`
	LastExportedAt  *string `json:"lastExportedAt"`
	ReminderEnabled *bool   `json:"reminderEnabled"`
	SchemaVersion   *int    `json:"schemaVersion"`
}

// ValidateSettings checks a settings candidate loosely: absent fields take
// the documented defaults, present fields must be well-formed. ok is false
// when a present field is outside its closed set; callers treat that as a
// corrupt row.
func ValidateSettings(c SettingsCandidate) (models.SettingsRecord, bool) {
	out := models.DefaultSettings()

	if c.IsPro != nil {
		out.IsPro = *c.IsPro
	}
	if c.Theme != nil {
		theme := models.Theme(*c.Theme)
		if !theme.IsValid() {
			return models.SettingsRecord{}, false
		}
		out.Theme = theme
	}
	if c.LastExportedAt != nil {
		out.LastExportedAt = *c.LastExportedAt
	}
	if c.ReminderEnabled != nil {
		out.ReminderEnabled = *c.ReminderEnabled
	}
	if c.SchemaVersion != nil {
		out.SchemaVersion = *c.SchemaVersion
	}
	return out, true
}
