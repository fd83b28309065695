// Package gate implements the hard-stop rule evaluation a trade draft passes
// through before it is saved. Evaluation is pure: no I/O, no storage access,
// and it never errors. A draft that produces zero warnings passes the gate
// cleanly; warnings never block the save outright.
package gate

import (
	"fmt"
	"unicode/utf8"

	"github.com/seiya-sugimoto/trade-gate-log/internal/models"
)

// StopReasonMinChars is the soft gate threshold for the stop-loss rationale.
// It is independent of, and stricter than, the schema's structural minimum of
// one character.
const StopReasonMinChars = 8

// Warning messages, in check order. The order is fixed: it is the
// presentation order and the canonical list for friction-note enforcement.
const (
	WarnCongestion     = "congestion-state entries are categorically disallowed."
	WarnLateWave       = "late-wave + large EMA deviation is high risk."
	WarnStopReason     = "stop-loss rationale is insufficient (minimum 8 characters)."
	WarnRiskReward     = "risk:reward below 1:1 is disallowed."
	warnHigherTFFormat = "higher-timeframe resistance: %d/3 timeframes oppose this direction"
)

// Evaluate runs every hard-stop check against a possibly partial draft and
// returns the applicable warnings in fixed check order. Checks never
// short-circuit one another.
func Evaluate(draft models.TradeDraft) []string {
	warnings := []string{}

	// 1. Congestion state
	if draft.Dango == models.DangoYes {
		warnings = append(warnings, WarnCongestion)
	}

	// 2. Wave end with large EMA deviation
	if draft.WavePosition == models.WaveEnd && draft.EMADistance == models.EMADistanceLarge {
		warnings = append(warnings, WarnLateWave)
	}

	// 3. Higher-timeframe directional conflict
	if draft.Side.IsValid() {
		opposite := models.Opposite(draft.Side)
		count := 0
		if draft.HigherTF.Month == opposite {
			count++
		}
		if draft.HigherTF.Week == opposite {
			count++
		}
		if draft.HigherTF.Day == opposite {
			count++
		}
		if count >= 2 {
			warnings = append(warnings, fmt.Sprintf(warnHigherTFFormat, count))
		}
	}

	// 4. Stop-loss rationale too thin
	if utf8.RuneCountInString(draft.StopReason) < StopReasonMinChars {
		warnings = append(warnings, WarnStopReason)
	}

	// 5. Risk:reward below 1:1
	if draft.RRCategory == models.RRLessThanOne {
		warnings = append(warnings, WarnRiskReward)
	}

	return warnings
}

// RequiresFrictionNote reports whether a save of the draft that produced
// these warnings must carry a non-empty friction note.
func RequiresFrictionNote(warnings []string) bool {
	return len(warnings) > 0
}
