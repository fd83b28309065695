package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seiya-sugimoto/trade-gate-log/internal/errs"
	"github.com/seiya-sugimoto/trade-gate-log/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testTrade(createdAt time.Time) models.TradeRecord {
	return models.TradeRecord{
		ID:        uuid.NewString(),
		CreatedAt: createdAt,
		Symbol:    "USDJPY",
		Side:      models.SideBuy,
		HigherTF: models.HigherTF{
			Month: models.DirectionUp,
			Week:  models.DirectionUp,
			Day:   models.DirectionUp,
		},
		ExecTF:             "H1",
		EMA25State:         models.EMA25Above,
		Structure:          models.StructureHH,
		Reasons:            []string{"trend continuation", "clean pullback"},
		EntryType:          models.EntryPullback,
		WavePosition:       models.WaveStart,
		EMADistance:        models.EMADistanceSmall,
		Dango:              models.DangoNo,
		StopReason:         "below the last higher low on H4",
		TPCandidates:       []string{"previous high"},
		RRCategory:         models.RRTwoOrMore,
		ForbiddenTags:      []string{},
		EntryReasonOneLine: "pullback to 25EMA in a monthly uptrend, clean HH structure",
		Gate:               models.GateDiagnostics{Warnings: []string{}},
		Outcome:            models.DefaultOutcome(),
		SchemaVersion:      models.SchemaVersion,
	}
}

func TestSQLiteStore_InsertAndGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := testTrade(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))
	rec.ChartURL = "https://charts.example.com/usdjpy"
	rec.FrictionNote = "aware of the late entry"
	require.NoError(t, s.InsertTrade(ctx, rec))

	got, err := s.GetTrade(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, *got)
}

func TestSQLiteStore_GetTradeNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetTrade(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSQLiteStore_InsertDuplicateIDConflicts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := testTrade(time.Now().UTC())
	require.NoError(t, s.InsertTrade(ctx, rec))

	err := s.InsertTrade(ctx, rec)
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestSQLiteStore_ListTradesNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	oldest := testTrade(base)
	middle := testTrade(base.Add(time.Hour))
	newest := testTrade(base.Add(2 * time.Hour))

	for _, rec := range []models.TradeRecord{middle, oldest, newest} {
		require.NoError(t, s.InsertTrade(ctx, rec))
	}

	trades, err := s.ListTrades(ctx)
	require.NoError(t, err)
	require.Len(t, trades, 3)
	assert.Equal(t, newest.ID, trades[0].ID)
	assert.Equal(t, middle.ID, trades[1].ID)
	assert.Equal(t, oldest.ID, trades[2].ID)
}

func TestSQLiteStore_ListTradesOrderWithinSameSecond(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// A whole-second timestamp alongside a later sub-second instant in the
	// same second must still order newest first. Backups carry
	// second-precision dates while local logs carry nanoseconds.
	older := testTrade(time.Date(2026, 3, 14, 9, 30, 5, 0, time.UTC))
	newer := testTrade(time.Date(2026, 3, 14, 9, 30, 5, 500_000_000, time.UTC))
	require.NoError(t, s.InsertTrade(ctx, older))
	require.NoError(t, s.InsertTrade(ctx, newer))

	trades, err := s.ListTrades(ctx)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, newer.ID, trades[0].ID)
	assert.Equal(t, older.ID, trades[1].ID)
}

func TestSQLiteStore_UpdateOutcomePartial(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := testTrade(time.Now().UTC())
	require.NoError(t, s.InsertTrade(ctx, rec))

	result := models.ResultWin
	learn := "held through the pullback as planned"
	n, err := s.UpdateOutcome(ctx, rec.ID, models.TradeUpdate{
		Result:       &result,
		LearnOneLine: &learn,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.GetTrade(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ResultWin, got.Outcome.Result)
	assert.Equal(t, learn, got.Outcome.LearnOneLine)
	// Untouched fields keep their prior values.
	assert.Equal(t, models.FollowedNone, got.Outcome.FollowedRules)
	assert.Empty(t, got.Outcome.DeviationTags)
}

func TestSQLiteStore_UpdateOutcomeEmptyIsNoop(t *testing.T) {
	s := newTestStore(t)

	n, err := s.UpdateOutcome(context.Background(), uuid.NewString(), models.TradeUpdate{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteStore_UpdateOutcomeMissingRow(t *testing.T) {
	s := newTestStore(t)

	result := models.ResultLoss
	n, err := s.UpdateOutcome(context.Background(), uuid.NewString(), models.TradeUpdate{Result: &result})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteStore_DeleteTrade(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := testTrade(time.Now().UTC())
	require.NoError(t, s.InsertTrade(ctx, rec))

	n, err := s.DeleteTrade(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.DeleteTrade(ctx, rec.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteStore_SettingsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetSettingsRaw(ctx)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	rec := models.DefaultSettings()
	rec.Theme = models.ThemeDark
	require.NoError(t, s.PutSettings(ctx, rec))

	raw, err := s.GetSettingsRaw(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"theme":"dark"`)

	// A second put overwrites the singleton row.
	rec.Theme = models.ThemeLight
	require.NoError(t, s.PutSettings(ctx, rec))
	raw, err = s.GetSettingsRaw(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"theme":"light"`)
}

func TestSQLiteStore_ClearAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertTrade(ctx, testTrade(time.Now().UTC())))
	require.NoError(t, s.PutSettings(ctx, models.DefaultSettings()))

	require.NoError(t, s.ClearAll(ctx))

	trades, err := s.ListTrades(ctx)
	require.NoError(t, err)
	assert.Empty(t, trades)

	_, err = s.GetSettingsRaw(ctx)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSQLiteStore_ReplaceAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertTrade(ctx, testTrade(time.Now().UTC())))

	replacement := []models.TradeRecord{
		testTrade(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)),
		testTrade(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)),
	}
	settings := models.DefaultSettings()
	settings.IsPro = true
	require.NoError(t, s.ReplaceAll(ctx, replacement, &settings))

	trades, err := s.ListTrades(ctx)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, replacement[1].ID, trades[0].ID)

	raw, err := s.GetSettingsRaw(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"isPro":true`)
}

func TestSQLiteStore_ReplaceAllRollsBackOnFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	existing := testTrade(time.Now().UTC())
	require.NoError(t, s.InsertTrade(ctx, existing))

	// A duplicate id inside the replacement set fails mid-transaction; the
	// prior contents must survive untouched.
	dup := testTrade(time.Now().UTC())
	err := s.ReplaceAll(ctx, []models.TradeRecord{dup, dup}, nil)
	require.ErrorIs(t, err, errs.ErrConflict)

	trades, err := s.ListTrades(ctx)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, existing.ID, trades[0].ID)
}
