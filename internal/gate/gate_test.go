package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seiya-sugimoto/trade-gate-log/internal/models"
)

// cleanDraft returns a draft that triggers no gate warning.
func cleanDraft() models.TradeDraft {
	return models.TradeDraft{
		Symbol: "USDJPY",
		Side:   models.SideBuy,
		HigherTF: models.HigherTF{
			Month: models.DirectionUp,
			Week:  models.DirectionUp,
			Day:   models.DirectionUp,
		},
		WavePosition: models.WaveMid,
		EMADistance:  models.EMADistanceSmall,
		Dango:        models.DangoNo,
		StopReason:   "below recent swing low",
		RRCategory:   models.RRTwoOrMore,
	}
}

func TestEvaluate_CleanDraftPasses(t *testing.T) {
	warnings := Evaluate(cleanDraft())
	assert.Empty(t, warnings)
}

func TestEvaluate_Congestion(t *testing.T) {
	draft := cleanDraft()
	draft.Dango = models.DangoYes

	warnings := Evaluate(draft)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnCongestion, warnings[0])
}

func TestEvaluate_LateWaveLargeDeviation(t *testing.T) {
	draft := cleanDraft()
	draft.WavePosition = models.WaveEnd
	draft.EMADistance = models.EMADistanceLarge

	warnings := Evaluate(draft)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnLateWave, warnings[0])

	// END alone or LARGE alone does not fire.
	draft = cleanDraft()
	draft.WavePosition = models.WaveEnd
	assert.Empty(t, Evaluate(draft))

	draft = cleanDraft()
	draft.EMADistance = models.EMADistanceLarge
	assert.Empty(t, Evaluate(draft))
}

func TestEvaluate_DirectionalConflictCounts(t *testing.T) {
	// For a BUY, DOWN is the opposing direction. The warning fires at 2 of 3
	// and embeds the true count.
	tests := []struct {
		name     string
		htf      models.HigherTF
		expected string
	}{
		{
			name: "zero opposing",
			htf:  models.HigherTF{Month: models.DirectionUp, Week: models.DirectionRange, Day: models.DirectionUp},
		},
		{
			name: "one opposing",
			htf:  models.HigherTF{Month: models.DirectionDown, Week: models.DirectionUp, Day: models.DirectionUp},
		},
		{
			name:     "two opposing",
			htf:      models.HigherTF{Month: models.DirectionDown, Week: models.DirectionDown, Day: models.DirectionUp},
			expected: "higher-timeframe resistance: 2/3 timeframes oppose this direction",
		},
		{
			name:     "three opposing",
			htf:      models.HigherTF{Month: models.DirectionDown, Week: models.DirectionDown, Day: models.DirectionDown},
			expected: "higher-timeframe resistance: 3/3 timeframes oppose this direction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := cleanDraft()
			draft.HigherTF = tt.htf

			warnings := Evaluate(draft)
			if tt.expected == "" {
				assert.Empty(t, warnings)
				return
			}
			require.Len(t, warnings, 1)
			assert.Equal(t, tt.expected, warnings[0])
		})
	}
}

func TestEvaluate_SellOppositeIsUp(t *testing.T) {
	draft := cleanDraft()
	draft.Side = models.SideSell
	draft.HigherTF = models.HigherTF{
		Month: models.DirectionUp,
		Week:  models.DirectionUp,
		Day:   models.DirectionDown,
	}

	warnings := Evaluate(draft)
	require.Len(t, warnings, 1)
	assert.Equal(t, "higher-timeframe resistance: 2/3 timeframes oppose this direction", warnings[0])
}

func TestEvaluate_StopReasonThreshold(t *testing.T) {
	draft := cleanDraft()
	draft.StopReason = ""
	warnings := Evaluate(draft)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnStopReason, warnings[0])

	// Seven characters is still insufficient.
	draft.StopReason = "abcdefg"
	warnings = Evaluate(draft)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnStopReason, warnings[0])

	// Eight characters clears the threshold. The floor counts characters,
	// not bytes.
	draft.StopReason = "abcdefgh"
	assert.Empty(t, Evaluate(draft))

	draft.StopReason = "直近安値の少し下です"
	assert.Empty(t, Evaluate(draft))
}

func TestEvaluate_RiskRewardBelowOne(t *testing.T) {
	draft := cleanDraft()
	draft.RRCategory = models.RRLessThanOne

	warnings := Evaluate(draft)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnRiskReward, warnings[0])
}

func TestEvaluate_ScenarioTwoOfThreeOppose(t *testing.T) {
	// BUY with month/week DOWN, day UP, everything else clean: exactly the
	// directional-conflict warning with count 2.
	draft := models.TradeDraft{
		Side: models.SideBuy,
		HigherTF: models.HigherTF{
			Month: models.DirectionDown,
			Week:  models.DirectionDown,
			Day:   models.DirectionUp,
		},
		Dango:        models.DangoNo,
		WavePosition: models.WaveMid,
		StopReason:   "below recent swing low",
		RRCategory:   models.RRTwoOrMore,
	}

	warnings := Evaluate(draft)
	require.Len(t, warnings, 1)
	assert.Equal(t, "higher-timeframe resistance: 2/3 timeframes oppose this direction", warnings[0])
}

func TestEvaluate_AllChecksCollectInFixedOrder(t *testing.T) {
	// Four checks fire at once; the directional conflict does not, because
	// the higher timeframes agree with the side. No check short-circuits
	// another and the order is fixed.
	draft := models.TradeDraft{
		Side: models.SideBuy,
		HigherTF: models.HigherTF{
			Month: models.DirectionUp,
			Week:  models.DirectionUp,
			Day:   models.DirectionUp,
		},
		Dango:        models.DangoYes,
		WavePosition: models.WaveEnd,
		EMADistance:  models.EMADistanceLarge,
		StopReason:   "x",
		RRCategory:   models.RRLessThanOne,
	}

	warnings := Evaluate(draft)
	require.Equal(t, []string{
		WarnCongestion,
		WarnLateWave,
		WarnStopReason,
		WarnRiskReward,
	}, warnings)
}

func TestEvaluate_Deterministic(t *testing.T) {
	draft := cleanDraft()
	draft.Dango = models.DangoYes
	draft.RRCategory = models.RRLessThanOne

	first := Evaluate(draft)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Evaluate(draft))
	}
}

func TestRequiresFrictionNote(t *testing.T) {
	assert.False(t, RequiresFrictionNote(nil))
	assert.False(t, RequiresFrictionNote([]string{}))
	assert.True(t, RequiresFrictionNote([]string{WarnCongestion}))
}
