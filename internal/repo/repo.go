// Package repo provides the repository over the persisted trade and settings
// tables. It is the sole storage access point: callers never talk to the
// store directly. Construct one Repository at process start and pass it by
// reference to every caller.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/seiya-sugimoto/trade-gate-log/internal/errs"
	"github.com/seiya-sugimoto/trade-gate-log/internal/logging"
	"github.com/seiya-sugimoto/trade-gate-log/internal/models"
	"github.com/seiya-sugimoto/trade-gate-log/internal/schema"
	"github.com/seiya-sugimoto/trade-gate-log/internal/store"
)

// Repository owns all access to the DataStore and applies storage policy:
// schema-version stamping, settings merge semantics, corrupt-settings
// recovery, and wholesale import validation.
type Repository struct {
	store store.DataStore
	log   zerolog.Logger
}

// New creates a new Repository over the given store.
func New(ds store.DataStore, log zerolog.Logger) *Repository {
	return &Repository{
		store: ds,
		log:   log.With().Str("repo", "trades").Logger(),
	}
}

// GetAllTrades returns every trade record ordered by createdAt, newest
// first. The ordering is stable across calls.
func (r *Repository) GetAllTrades(ctx context.Context) ([]models.TradeRecord, error) {
	trades, err := r.store.ListTrades(ctx)
	if err != nil {
		return nil, errs.NewStorageError("getAllTrades", err)
	}
	if trades == nil {
		trades = []models.TradeRecord{}
	}
	return trades, nil
}

// GetTrade returns a single trade by id, or errs.ErrNotFound.
func (r *Repository) GetTrade(ctx context.Context, id string) (*models.TradeRecord, error) {
	rec, err := r.store.GetTrade(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, errs.NewStorageError("getTrade", err)
	}
	return rec, nil
}

// SaveTrade persists a new trade record and returns its id. Saving is
// create-only: an existing id fails with errs.ErrConflict. The current
// schema version is always stamped at write time, regardless of the
// caller-supplied value.
func (r *Repository) SaveTrade(ctx context.Context, rec models.TradeRecord) (string, error) {
	rec.SchemaVersion = models.SchemaVersion

	err := r.store.InsertTrade(ctx, rec)
	if errors.Is(err, errs.ErrConflict) {
		return "", err
	}
	if err != nil {
		return "", errs.NewStorageError("saveTrade", err)
	}

	lg := logging.WithSymbol(r.log, rec.Symbol)
	lg.Info().
		Str("id", rec.ID).
		Str("side", string(rec.Side)).
		Int("warnings", len(rec.Gate.Warnings)).
		Msg("Trade saved")
	return rec.ID, nil
}

// UpdateTrade applies a partial outcome edit to an existing trade and
// returns the number of rows updated (always 1 on success). Out-of-set
// enum values fail with errs.ValidationErrors; a missing id fails with
// errs.ErrNotFound and never creates a row.
func (r *Repository) UpdateTrade(ctx context.Context, id string, upd models.TradeUpdate) (int64, error) {
	var issues errs.ValidationErrors
	if upd.Result != nil && !upd.Result.IsValid() {
		issues.Add("result", *upd.Result, "must be one of WIN, LOSS, BE, NONE")
	}
	if upd.FollowedRules != nil && !upd.FollowedRules.IsValid() {
		issues.Add("followedRules", *upd.FollowedRules, "must be one of YES, NO, NONE")
	}
	if len(issues) > 0 {
		return 0, issues
	}

	if upd.Empty() {
		if _, err := r.GetTrade(ctx, id); err != nil {
			return 0, err
		}
		return 0, nil
	}

	n, err := r.store.UpdateOutcome(ctx, id, upd)
	if err != nil {
		return 0, errs.NewStorageError("updateTrade", err)
	}
	if n == 0 {
		return 0, errs.ErrNotFound
	}

	r.log.Info().Str("id", id).Msg("Trade outcome updated")
	return n, nil
}

// DeleteTrade removes a trade by id, or fails with errs.ErrNotFound.
func (r *Repository) DeleteTrade(ctx context.Context, id string) error {
	n, err := r.store.DeleteTrade(ctx, id)
	if err != nil {
		return errs.NewStorageError("deleteTrade", err)
	}
	if n == 0 {
		return errs.ErrNotFound
	}

	r.log.Info().Str("id", id).Msg("Trade deleted")
	return nil
}

// GetSettings returns the settings singleton, or nil when never written. A
// stored value that fails settings validation is treated as absent rather
// than failing the caller.
func (r *Repository) GetSettings(ctx context.Context) (*models.SettingsRecord, error) {
	raw, err := r.store.GetSettingsRaw(ctx)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewStorageError("getSettings", err)
	}

	var candidate schema.SettingsCandidate
	if err := json.Unmarshal(raw, &candidate); err != nil {
		r.log.Warn().Err(err).Msg("Corrupt settings row, treating as absent")
		return nil, nil
	}
	rec, ok := schema.ValidateSettings(candidate)
	if !ok {
		r.log.Warn().Msg("Stored settings failed validation, treating as absent")
		return nil, nil
	}
	return &rec, nil
}

// SaveSettings merges a partial update onto the current settings (or the
// defaults when no row exists yet) and persists the singleton row. Safe to
// call before any settings row exists.
func (r *Repository) SaveSettings(ctx context.Context, upd models.SettingsUpdate) error {
	current, err := r.GetSettings(ctx)
	if err != nil {
		return err
	}

	base := models.DefaultSettings()
	if current != nil {
		base = *current
	}
	if upd.IsPro != nil {
		base.IsPro = *upd.IsPro
	}
	if upd.Theme != nil {
		if !upd.Theme.IsValid() {
			return errs.ValidationErrors{errs.NewValidationError("theme", *upd.Theme, "must be one of light, dark")}
		}
		base.Theme = *upd.Theme
	}
	if upd.LastExportedAt != nil {
		base.LastExportedAt = *upd.LastExportedAt
	}
	if upd.ReminderEnabled != nil {
		base.ReminderEnabled = *upd.ReminderEnabled
	}

	if err := r.store.PutSettings(ctx, base); err != nil {
		return errs.NewStorageError("saveSettings", err)
	}
	r.log.Info().Msg("Settings saved")
	return nil
}

// ClearAllData deletes every trade record and the settings row. There is no
// soft delete; this is irreversible.
func (r *Repository) ClearAllData(ctx context.Context) error {
	if err := r.store.ClearAll(ctx); err != nil {
		return errs.NewStorageError("clearAllData", err)
	}
	lg := logging.WithOperation(r.log, "clearAllData")
	lg.Warn().Msg("All data cleared")
	return nil
}

// ImportData atomically replaces every existing trade with the supplied
// list and, when provided, writes the settings row. The whole payload is
// validated before any write begins; on any failure the prior dataset is
// left fully intact.
func (r *Repository) ImportData(ctx context.Context, trades []models.TradeRecord, settings *models.SettingsRecord) error {
	var issues errs.ValidationErrors
	seen := make(map[string]bool, len(trades))
	for i, rec := range trades {
		for _, issue := range schema.ValidateTrade(rec) {
			issues.Add(fmt.Sprintf("trades[%d].%s", i, issue.Field), issue.Value, issue.Message)
		}
		if seen[rec.ID] {
			issues.Add(fmt.Sprintf("trades[%d].id", i), rec.ID, "duplicate id in import")
		}
		seen[rec.ID] = true
	}
	if len(issues) > 0 {
		return issues
	}

	if err := r.store.ReplaceAll(ctx, trades, settings); err != nil {
		return errs.NewStorageError("importData", err)
	}

	lg := logging.WithOperation(r.log, "importData")
	lg.Info().
		Int("trades", len(trades)).
		Bool("settings", settings != nil).
		Msg("Data imported")
	return nil
}
