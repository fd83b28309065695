// Package schema validates untrusted trade and settings input against the
// persisted entity shape. Validation is structural only (enum membership,
// length bounds, URL and UUID well-formedness); the gate rules are a separate
// pass and are never re-derived here.
package schema

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/seiya-sugimoto/trade-gate-log/internal/errs"
	"github.com/seiya-sugimoto/trade-gate-log/internal/models"
)

// Length bounds for the one-line entry narrative.
const (
	EntryReasonMinChars = 20
	EntryReasonMaxChars = 60
)

// ValidateTrade checks a complete trade record structurally. Every violation
// is collected and returned together so a caller can show all problems at
// once; a nil result means the record is valid.
func ValidateTrade(rec models.TradeRecord) errs.ValidationErrors {
	var issues errs.ValidationErrors

	if _, err := uuid.Parse(rec.ID); err != nil {
		issues.Add("id", rec.ID, "must be a well-formed UUID")
	}
	if rec.CreatedAt.IsZero() {
		issues.Add("createdAt", rec.CreatedAt, "is required")
	}
	if strings.TrimSpace(rec.Symbol) == "" {
		issues.Add("symbol", rec.Symbol, "is required")
	}
	if !rec.Side.IsValid() {
		issues.Add("side", rec.Side, "must be one of BUY, SELL")
	}
	if !rec.HigherTF.Month.IsValid() {
		issues.Add("higherTF.month", rec.HigherTF.Month, "must be one of UP, DOWN, RANGE")
	}
	if !rec.HigherTF.Week.IsValid() {
		issues.Add("higherTF.week", rec.HigherTF.Week, "must be one of UP, DOWN, RANGE")
	}
	if !rec.HigherTF.Day.IsValid() {
		issues.Add("higherTF.day", rec.HigherTF.Day, "must be one of UP, DOWN, RANGE")
	}
	if !rec.EMA25State.IsValid() {
		issues.Add("ema25State", rec.EMA25State, "must be one of ABOVE, BELOW, ON, OFF")
	}
	if !rec.Structure.IsValid() {
		issues.Add("structure", rec.Structure, "must be one of HH, LL, RANGE, REVERSAL_CANDIDATE")
	}
	if !rec.EntryType.IsValid() {
		issues.Add("entryType", rec.EntryType, "must be one of PULLBACK, RETRACE, BREAKOUT, REVERSAL_DB_DT")
	}
	if !rec.WavePosition.IsValid() {
		issues.Add("wavePosition", rec.WavePosition, "must be one of START, MID, END")
	}
	if !rec.EMADistance.IsValid() {
		issues.Add("emaDistance", rec.EMADistance, "must be one of SMALL, MID, LARGE")
	}
	if !rec.Dango.IsValid() {
		issues.Add("dango", rec.Dango, "must be one of YES, NO")
	}
	if rec.StopReason == "" {
		issues.Add("stopReason", rec.StopReason, "is required")
	}
	if !rec.RRCategory.IsValid() {
		issues.Add("rrCategory", rec.RRCategory, "must be one of LT_1, BTW_1_2, GE_2")
	}

	switch n := utf8.RuneCountInString(rec.EntryReasonOneLine); {
	case n < EntryReasonMinChars:
		issues.Add("entryReasonOneLine", rec.EntryReasonOneLine, "must be at least 20 characters")
	case n > EntryReasonMaxChars:
		issues.Add("entryReasonOneLine", rec.EntryReasonOneLine, "must be at most 60 characters")
	}

	if rec.ChartURL != "" && !wellFormedURL(rec.ChartURL) {
		issues.Add("chartUrl", rec.ChartURL, "must be a well-formed URL or empty")
	}

	if !rec.Outcome.Result.IsValid() {
		issues.Add("outcome.result", rec.Outcome.Result, "must be one of WIN, LOSS, BE, NONE")
	}
	if !rec.Outcome.FollowedRules.IsValid() {
		issues.Add("outcome.followedRules", rec.Outcome.FollowedRules, "must be one of YES, NO, NONE")
	}

	return issues
}

// wellFormedURL reports whether s parses as an absolute URL.
func wellFormedURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Finalize merges a draft with its gate diagnostics and a default unfinished
// outcome block into a new trade record, then validates it. The save-time
// contract "warnings present implies friction note required" is enforced
// here, before the record ever reaches the repository.
func Finalize(draft models.TradeDraft, warnings []string, now time.Time) (models.TradeRecord, errs.ValidationErrors) {
	if warnings == nil {
		warnings = []string{}
	}

	rec := models.TradeRecord{
		ID:                   uuid.NewString(),
		CreatedAt:            now,
		Symbol:               strings.TrimSpace(draft.Symbol),
		Side:                 draft.Side,
		HigherTF:             draft.HigherTF,
		ExecTF:               draft.ExecTF,
		EMA25State:           draft.EMA25State,
		Structure:            draft.Structure,
		Reasons:              normalizeTags(draft.Reasons),
		EntryType:            draft.EntryType,
		WavePosition:         draft.WavePosition,
		EMADistance:          draft.EMADistance,
		Dango:                draft.Dango,
		StopReason:           draft.StopReason,
		TPCandidates:         normalizeTags(draft.TPCandidates),
		RRCategory:           draft.RRCategory,
		ForbiddenTags:        normalizeTags(draft.ForbiddenTags),
		EntryReasonOneLine:   draft.EntryReasonOneLine,
		SkipConditionOneLine: draft.SkipConditionOneLine,
		ChartURL:             draft.ChartURL,
		FrictionNote:         draft.FrictionNote,
		Gate:                 models.GateDiagnostics{Warnings: warnings},
		Outcome:              models.DefaultOutcome(),
		SchemaVersion:        models.SchemaVersion,
	}

	issues := ValidateTrade(rec)
	if len(warnings) > 0 && strings.TrimSpace(rec.FrictionNote) == "" {
		issues.Add("frictionNote", rec.FrictionNote, "is required when gate warnings are present")
	}
	return rec, issues
}

// normalizeTags returns a non-nil copy of a tag set.
func normalizeTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
