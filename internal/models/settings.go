package models

// Theme represents the UI theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// IsValid checks if the theme is a member of the closed set.
func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark
}

// SettingsKey is the fixed key of the settings singleton row.
const SettingsKey = "app-settings"

// SettingsRecord is the application settings singleton. At most one instance
// ever exists; it is created lazily with defaults on first write.
type SettingsRecord struct {
	IsPro           bool   `json:"isPro"`
	Theme           Theme  `json:"theme"`
	LastExportedAt  string `json:"lastExportedAt,omitempty"` // RFC3339, empty when never exported
	ReminderEnabled bool   `json:"reminderEnabled"`
	SchemaVersion   int    `json:"schemaVersion"`
}

// DefaultSettings returns the documented defaults for an absent settings row.
func DefaultSettings() SettingsRecord {
	return SettingsRecord{
		IsPro:           false,
		Theme:           ThemeLight,
		ReminderEnabled: true,
		SchemaVersion:   SchemaVersion,
	}
}

// SettingsUpdate carries a partial settings edit. Nil fields are left
// untouched; the merge base is the current row or the defaults.
type SettingsUpdate struct {
	IsPro           *bool
	Theme           *Theme
	LastExportedAt  *string
	ReminderEnabled *bool
}
