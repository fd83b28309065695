package schema

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seiya-sugimoto/trade-gate-log/internal/gate"
	"github.com/seiya-sugimoto/trade-gate-log/internal/models"
)

func validRecord() models.TradeRecord {
	return models.TradeRecord{
		ID:        uuid.NewString(),
		CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
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
		Reasons:            []string{"trend continuation"},
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

func TestValidateTrade_ValidRecord(t *testing.T) {
	assert.Empty(t, ValidateTrade(validRecord()))
}

func TestValidateTrade_CollectsAllViolations(t *testing.T) {
	rec := validRecord()
	rec.ID = "not-a-uuid"
	rec.Symbol = ""
	rec.Side = "HOLD"
	rec.Dango = "MAYBE"
	rec.EntryReasonOneLine = "too short"

	issues := ValidateTrade(rec)
	require.Len(t, issues, 5)

	fields := make([]string, len(issues))
	for i, issue := range issues {
		fields[i] = issue.Field
	}
	assert.Equal(t, []string{"id", "symbol", "side", "dango", "entryReasonOneLine"}, fields)
}

func TestValidateTrade_EntryReasonBounds(t *testing.T) {
	rec := validRecord()

	rec.EntryReasonOneLine = strings.Repeat("a", 19)
	issues := ValidateTrade(rec)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "at least 20")

	rec.EntryReasonOneLine = strings.Repeat("a", 61)
	issues = ValidateTrade(rec)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "at most 60")

	// Bounds are inclusive and counted in characters.
	rec.EntryReasonOneLine = strings.Repeat("a", 20)
	assert.Empty(t, ValidateTrade(rec))
	rec.EntryReasonOneLine = strings.Repeat("a", 60)
	assert.Empty(t, ValidateTrade(rec))
	rec.EntryReasonOneLine = strings.Repeat("日", 20)
	assert.Empty(t, ValidateTrade(rec))
}

func TestValidateTrade_ChartURL(t *testing.T) {
	rec := validRecord()

	rec.ChartURL = ""
	assert.Empty(t, ValidateTrade(rec))

	rec.ChartURL = "https://charts.example.com/usdjpy/h1"
	assert.Empty(t, ValidateTrade(rec))

	rec.ChartURL = "not a url"
	issues := ValidateTrade(rec)
	require.Len(t, issues, 1)
	assert.Equal(t, "chartUrl", issues[0].Field)
}

func TestValidateTrade_StopReasonStructuralMinimum(t *testing.T) {
	// The structural minimum is one character; the 8-character floor is a
	// gate rule and is not enforced here.
	rec := validRecord()
	rec.StopReason = "x"
	assert.Empty(t, ValidateTrade(rec))

	rec.StopReason = ""
	issues := ValidateTrade(rec)
	require.Len(t, issues, 1)
	assert.Equal(t, "stopReason", issues[0].Field)
}

func TestValidateTrade_HigherTFFieldPaths(t *testing.T) {
	rec := validRecord()
	rec.HigherTF.Week = "SIDEWAYS"

	issues := ValidateTrade(rec)
	require.Len(t, issues, 1)
	assert.Equal(t, "higherTF.week", issues[0].Field)
}

func TestFinalize_AssignsIdentityAndDefaults(t *testing.T) {
	draft := models.TradeDraft{
		Symbol: "USDJPY",
		Side:   models.SideBuy,
		HigherTF: models.HigherTF{
			Month: models.DirectionUp,
			Week:  models.DirectionUp,
			Day:   models.DirectionUp,
		},
		EMA25State:         models.EMA25Above,
		Structure:          models.StructureHH,
		EntryType:          models.EntryPullback,
		WavePosition:       models.WaveStart,
		EMADistance:        models.EMADistanceSmall,
		Dango:              models.DangoNo,
		StopReason:         "below the last higher low on H4",
		RRCategory:         models.RRTwoOrMore,
		EntryReasonOneLine: "pullback to 25EMA in a monthly uptrend, clean HH structure",
	}

	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	rec, issues := Finalize(draft, nil, now)
	require.Empty(t, issues)

	_, err := uuid.Parse(rec.ID)
	assert.NoError(t, err)
	assert.Equal(t, now, rec.CreatedAt)
	assert.Equal(t, models.SchemaVersion, rec.SchemaVersion)
	assert.Equal(t, models.ResultNone, rec.Outcome.Result)
	assert.Equal(t, models.FollowedNone, rec.Outcome.FollowedRules)
	assert.NotNil(t, rec.Gate.Warnings)
	assert.False(t, rec.Finished())
}

func TestFinalize_WarningsRequireFrictionNote(t *testing.T) {
	draft := models.TradeDraft{
		Symbol: "EURUSD",
		Side:   models.SideSell,
		HigherTF: models.HigherTF{
			Month: models.DirectionDown,
			Week:  models.DirectionDown,
			Day:   models.DirectionDown,
		},
		EMA25State:         models.EMA25Below,
		Structure:          models.StructureLL,
		EntryType:          models.EntryBreakout,
		WavePosition:       models.WaveMid,
		EMADistance:        models.EMADistanceSmall,
		Dango:              models.DangoYes,
		StopReason:         "above the broken support zone",
		RRCategory:         models.RRTwoOrMore,
		EntryReasonOneLine: "breakdown continuation against congestion, testing the gate",
	}

	warnings := gate.Evaluate(draft)
	require.NotEmpty(t, warnings)

	_, issues := Finalize(draft, warnings, time.Now())
	require.Len(t, issues, 1)
	assert.Equal(t, "frictionNote", issues[0].Field)

	draft.FrictionNote = "aware of the congestion flag; half size, quick exit"
	rec, issues := Finalize(draft, warnings, time.Now())
	assert.Empty(t, issues)
	assert.Equal(t, warnings, rec.Gate.Warnings)
}

func TestFinalize_NoWarningsNoFrictionNeeded(t *testing.T) {
	draft := models.TradeDraft{
		Symbol: "USDJPY",
		Side:   models.SideBuy,
		HigherTF: models.HigherTF{
			Month: models.DirectionUp,
			Week:  models.DirectionUp,
			Day:   models.DirectionUp,
		},
		EMA25State:         models.EMA25Above,
		Structure:          models.StructureHH,
		EntryType:          models.EntryPullback,
		WavePosition:       models.WaveStart,
		EMADistance:        models.EMADistanceSmall,
		Dango:              models.DangoNo,
		StopReason:         "below the last higher low on H4",
		RRCategory:         models.RRTwoOrMore,
		EntryReasonOneLine: "pullback to 25EMA in a monthly uptrend, clean HH structure",
	}

	_, issues := Finalize(draft, []string{}, time.Now())
	assert.Empty(t, issues)
}
