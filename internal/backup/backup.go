// Package backup serializes the full dataset to an interchange format and
// parses it back for import. Malformed content is rejected wholesale before
// the repository is ever touched.
package backup

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/seiya-sugimoto/trade-gate-log/internal/errs"
	"github.com/seiya-sugimoto/trade-gate-log/internal/models"
	"github.com/seiya-sugimoto/trade-gate-log/internal/schema"
)

// Envelope is the JSON backup document.
type Envelope struct {
	Version    int                       `json:"version"`
	ExportedAt string                    `json:"exportedAt"`
	Trades     []models.TradeRecord      `json:"trades"`
	Settings   *schema.SettingsCandidate `json:"settings,omitempty"`
}

// Marshal serializes the dataset into a JSON backup document.
func Marshal(trades []models.TradeRecord, settings *models.SettingsRecord, now time.Time) ([]byte, error) {
	if trades == nil {
		trades = []models.TradeRecord{}
	}
	env := struct {
		Version    int                    `json:"version"`
		ExportedAt string                 `json:"exportedAt"`
		Trades     []models.TradeRecord   `json:"trades"`
		Settings   *models.SettingsRecord `json:"settings,omitempty"`
	}{
		Version:    models.SchemaVersion,
		ExportedAt: now.UTC().Format(time.RFC3339),
		Trades:     trades,
		Settings:   settings,
	}
	return json.MarshalIndent(env, "", "  ")
}

// Parse decodes a JSON backup document into date-reconstituted records. The
// trades list must be present and well-shaped; a settings block, when
// present, must pass settings validation. Anything else fails with
// errs.ErrMalformedImport before any write can begin.
func Parse(data []byte) ([]models.TradeRecord, *models.SettingsRecord, error) {
	var probe struct {
		Trades *json.RawMessage `json:"trades"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", errs.ErrMalformedImport, err)
	}
	if probe.Trades == nil {
		return nil, nil, fmt.Errorf("%w: missing trades list", errs.ErrMalformedImport)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", errs.ErrMalformedImport, err)
	}

	var settings *models.SettingsRecord
	if env.Settings != nil {
		rec, ok := schema.ValidateSettings(*env.Settings)
		if !ok {
			return nil, nil, fmt.Errorf("%w: invalid settings block", errs.ErrMalformedImport)
		}
		settings = &rec
	}
	return env.Trades, settings, nil
}

// csvHeader is the flattened column layout for spreadsheet export.
var csvHeader = []string{
	"id", "created_at", "symbol", "side", "htf_month", "htf_week", "htf_day",
	"exec_tf", "ema25_state", "structure", "reasons", "entry_type",
	"wave_position", "ema_distance", "dango", "stop_reason", "tp_candidates",
	"rr_category", "forbidden_tags", "entry_reason", "skip_condition",
	"chart_url", "friction_note", "warnings", "gate_score", "result",
	"followed_rules", "deviation_tags", "learn_one_line", "schema_version",
}

// WriteCSV writes the trades as a flattened table. Tag sets and warnings are
// joined with "|".
func WriteCSV(w io.Writer, trades []models.TradeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, t := range trades {
		row := []string{
			t.ID,
			t.CreatedAt.UTC().Format(time.RFC3339),
			t.Symbol,
			string(t.Side),
			string(t.HigherTF.Month),
			string(t.HigherTF.Week),
			string(t.HigherTF.Day),
			t.ExecTF,
			string(t.EMA25State),
			string(t.Structure),
			strings.Join(t.Reasons, "|"),
			string(t.EntryType),
			string(t.WavePosition),
			string(t.EMADistance),
			string(t.Dango),
			t.StopReason,
			strings.Join(t.TPCandidates, "|"),
			string(t.RRCategory),
			strings.Join(t.ForbiddenTags, "|"),
			t.EntryReasonOneLine,
			t.SkipConditionOneLine,
			t.ChartURL,
			t.FrictionNote,
			strings.Join(t.Gate.Warnings, "|"),
			strconv.FormatFloat(t.Gate.GateScore, 'f', -1, 64),
			string(t.Outcome.Result),
			string(t.Outcome.FollowedRules),
			strings.Join(t.Outcome.DeviationTags, "|"),
			t.Outcome.LearnOneLine,
			strconv.Itoa(t.SchemaVersion),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
