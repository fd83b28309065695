// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/seiya-sugimoto/trade-gate-log/internal/models"
)

// DataStore defines the interface for the persisted trade and settings
// tables. It is a dumb ordered backend; policy (version stamping, settings
// merge, corrupt-row recovery, import validation) lives in the repository.
type DataStore interface {
	// Trades
	ListTrades(ctx context.Context) ([]models.TradeRecord, error)
	GetTrade(ctx context.Context, id string) (*models.TradeRecord, error)
	InsertTrade(ctx context.Context, rec models.TradeRecord) error
	UpdateOutcome(ctx context.Context, id string, upd models.TradeUpdate) (int64, error)
	DeleteTrade(ctx context.Context, id string) (int64, error)

	// Settings singleton row, stored as a raw JSON document so the caller
	// can apply its own recovery policy to corrupt content.
	GetSettingsRaw(ctx context.Context) ([]byte, error)
	PutSettings(ctx context.Context, rec models.SettingsRecord) error

	// Maintenance
	ClearAll(ctx context.Context) error
	ReplaceAll(ctx context.Context, trades []models.TradeRecord, settings *models.SettingsRecord) error

	// Lifecycle
	Close() error
}
