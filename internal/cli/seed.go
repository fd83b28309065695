package cli

import (
	"time"

	"github.com/seiya-sugimoto/trade-gate-log/internal/gate"
	"github.com/seiya-sugimoto/trade-gate-log/internal/models"
	"github.com/seiya-sugimoto/trade-gate-log/internal/schema"
)

// demoTrades builds a small seed set: one clean pass, one trade saved
// against warnings with a friction note.
func demoTrades(now time.Time) []models.TradeRecord {
	drafts := []models.TradeDraft{
		{
			Symbol: "USDJPY",
			Side:   models.SideBuy,
			HigherTF: models.HigherTF{
				Month: models.DirectionUp,
				Week:  models.DirectionUp,
				Day:   models.DirectionUp,
			},
			ExecTF:             "H1",
			EMA25State:         models.EMA25Above,
			Structure:          models.StructureHH,
			Reasons:            []string{"trend continuation", "25ema pullback"},
			EntryType:          models.EntryPullback,
			WavePosition:       models.WaveStart,
			EMADistance:        models.EMADistanceSmall,
			Dango:              models.DangoNo,
			StopReason:         "below the last higher low on H4",
			TPCandidates:       []string{"previous high"},
			RRCategory:         models.RRTwoOrMore,
			EntryReasonOneLine: "pullback to 25EMA in a monthly uptrend, clean HH structure",
		},
		{
			Symbol: "EURUSD",
			Side:   models.SideSell,
			HigherTF: models.HigherTF{
				Month: models.DirectionUp,
				Week:  models.DirectionUp,
				Day:   models.DirectionDown,
			},
			ExecTF:             "M15",
			EMA25State:         models.EMA25Below,
			Structure:          models.StructureReversalCandidate,
			Reasons:            []string{"double top"},
			EntryType:          models.EntryReversalDBDT,
			WavePosition:       models.WaveEnd,
			EMADistance:        models.EMADistanceLarge,
			Dango:              models.DangoNo,
			StopReason:         "above the second top with spread buffer",
			TPCandidates:       []string{"daily 25ema"},
			RRCategory:         models.RRBetweenOneTwo,
			ForbiddenTags:      []string{"counter-trend"},
			EntryReasonOneLine: "double top against two rising higher timeframes, late wave",
			FrictionNote:       "taking a counter-trend reversal knowingly; size halved",
		},
	}

	records := make([]models.TradeRecord, 0, len(drafts))
	for i, draft := range drafts {
		rec, issues := schema.Finalize(draft, gate.Evaluate(draft), now.Add(time.Duration(-i)*time.Hour))
		if len(issues) > 0 {
			continue
		}
		records = append(records, rec)
	}
	return records
}
