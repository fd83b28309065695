// Package models defines the domain entities for the trade gate log.
package models

import "time"

// SchemaVersion is the current persisted schema version. It is stamped onto
// every trade and the settings row at write time.
const SchemaVersion = 1

// Side represents the trade direction.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// IsValid checks if the side is a member of the closed set.
func (s Side) IsValid() bool {
	return s == SideBuy || s == SideSell
}

// Direction represents a higher-timeframe directional judgment.
type Direction string

const (
	DirectionUp    Direction = "UP"
	DirectionDown  Direction = "DOWN"
	DirectionRange Direction = "RANGE"
)

// IsValid checks if the direction is a member of the closed set.
func (d Direction) IsValid() bool {
	return d == DirectionUp || d == DirectionDown || d == DirectionRange
}

// Opposite returns the direction that opposes the given trade side.
func Opposite(side Side) Direction {
	if side == SideBuy {
		return DirectionDown
	}
	return DirectionUp
}

// EMA25State represents price position relative to the 25 EMA.
type EMA25State string

const (
	EMA25Above EMA25State = "ABOVE"
	EMA25Below EMA25State = "BELOW"
	EMA25On    EMA25State = "ON"
	EMA25Off   EMA25State = "OFF"
)

// IsValid checks if the EMA state is a member of the closed set.
func (e EMA25State) IsValid() bool {
	return e == EMA25Above || e == EMA25Below || e == EMA25On || e == EMA25Off
}

// Structure represents the market structure read.
type Structure string

const (
	StructureHH                Structure = "HH"
	StructureLL                Structure = "LL"
	StructureRange             Structure = "RANGE"
	StructureReversalCandidate Structure = "REVERSAL_CANDIDATE"
)

// IsValid checks if the structure is a member of the closed set.
func (s Structure) IsValid() bool {
	switch s {
	case StructureHH, StructureLL, StructureRange, StructureReversalCandidate:
		return true
	}
	return false
}

// EntryType represents the entry setup category.
type EntryType string

const (
	EntryPullback     EntryType = "PULLBACK"
	EntryRetrace      EntryType = "RETRACE"
	EntryBreakout     EntryType = "BREAKOUT"
	EntryReversalDBDT EntryType = "REVERSAL_DB_DT"
)

// IsValid checks if the entry type is a member of the closed set.
func (e EntryType) IsValid() bool {
	switch e {
	case EntryPullback, EntryRetrace, EntryBreakout, EntryReversalDBDT:
		return true
	}
	return false
}

// WavePosition represents where in the current wave the entry sits.
type WavePosition string

const (
	WaveStart WavePosition = "START"
	WaveMid   WavePosition = "MID"
	WaveEnd   WavePosition = "END"
)

// IsValid checks if the wave position is a member of the closed set.
func (w WavePosition) IsValid() bool {
	return w == WaveStart || w == WaveMid || w == WaveEnd
}

// EMADistance represents the distance of price from the 25 EMA.
type EMADistance string

const (
	EMADistanceSmall EMADistance = "SMALL"
	EMADistanceMid   EMADistance = "MID"
	EMADistanceLarge EMADistance = "LARGE"
)

// IsValid checks if the EMA distance is a member of the closed set.
func (e EMADistance) IsValid() bool {
	return e == EMADistanceSmall || e == EMADistanceMid || e == EMADistanceLarge
}

// Dango flags a congestion state with no clear trend.
type Dango string

const (
	DangoYes Dango = "YES"
	DangoNo  Dango = "NO"
)

// IsValid checks if the dango flag is a member of the closed set.
func (d Dango) IsValid() bool {
	return d == DangoYes || d == DangoNo
}

// RRCategory represents the risk:reward bucket.
type RRCategory string

const (
	RRLessThanOne   RRCategory = "LT_1"
	RRBetweenOneTwo RRCategory = "BTW_1_2"
	RRTwoOrMore     RRCategory = "GE_2"
)

// IsValid checks if the risk:reward category is a member of the closed set.
func (r RRCategory) IsValid() bool {
	return r == RRLessThanOne || r == RRBetweenOneTwo || r == RRTwoOrMore
}

// TradeResult represents the outcome of a finished trade.
type TradeResult string

const (
	ResultWin       TradeResult = "WIN"
	ResultLoss      TradeResult = "LOSS"
	ResultBreakEven TradeResult = "BE"
	ResultNone      TradeResult = "NONE"
)

// IsValid checks if the trade result is a member of the closed set.
func (r TradeResult) IsValid() bool {
	return r == ResultWin || r == ResultLoss || r == ResultBreakEven || r == ResultNone
}

// FollowedRules records whether the trader followed their own rules.
type FollowedRules string

const (
	FollowedYes  FollowedRules = "YES"
	FollowedNo   FollowedRules = "NO"
	FollowedNone FollowedRules = "NONE"
)

// IsValid checks if the followed-rules flag is a member of the closed set.
func (f FollowedRules) IsValid() bool {
	return f == FollowedYes || f == FollowedNo || f == FollowedNone
}

// HigherTF holds the three independent higher-timeframe directional reads.
type HigherTF struct {
	Month Direction `json:"month"`
	Week  Direction `json:"week"`
	Day   Direction `json:"day"`
}

// GateDiagnostics holds the gate output merged into a record at save time.
// Warnings are ordered; the order is the gate's fixed check order.
type GateDiagnostics struct {
	Warnings  []string `json:"warnings"`
	GateScore float64  `json:"gateScore"`
}

// Outcome is the post-trade block, filled in after the trade closes.
type Outcome struct {
	Result        TradeResult   `json:"result"`
	FollowedRules FollowedRules `json:"followedRules"`
	DeviationTags []string      `json:"deviationTags"`
	LearnOneLine  string        `json:"learnOneLine"`
}

// DefaultOutcome returns the unfinished outcome block a new record starts with.
func DefaultOutcome() Outcome {
	return Outcome{
		Result:        ResultNone,
		FollowedRules: FollowedNone,
		DeviationTags: []string{},
	}
}

// TradeRecord is a validated, persisted trade. ID and CreatedAt are immutable
// once created; only the outcome block is mutated afterwards.
type TradeRecord struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	Symbol   string   `json:"symbol"`
	Side     Side     `json:"side"`
	HigherTF HigherTF `json:"higherTF"`

	ExecTF       string       `json:"execTF"`
	EMA25State   EMA25State   `json:"ema25State"`
	Structure    Structure    `json:"structure"`
	Reasons      []string     `json:"reasons"`
	EntryType    EntryType    `json:"entryType"`
	WavePosition WavePosition `json:"wavePosition"`
	EMADistance  EMADistance  `json:"emaDistance"`
	Dango        Dango        `json:"dango"`

	StopReason    string     `json:"stopReason"`
	TPCandidates  []string   `json:"tpCandidates"`
	RRCategory    RRCategory `json:"rrCategory"`
	ForbiddenTags []string   `json:"forbiddenTags"`

	EntryReasonOneLine   string `json:"entryReasonOneLine"`
	SkipConditionOneLine string `json:"skipConditionOneLine,omitempty"`
	ChartURL             string `json:"chartUrl,omitempty"`
	FrictionNote         string `json:"frictionNote,omitempty"`

	Gate    GateDiagnostics `json:"gate"`
	Outcome Outcome         `json:"outcome"`

	SchemaVersion int `json:"schemaVersion"`
}

// Finished reports whether the trade has a recorded result.
func (t *TradeRecord) Finished() bool {
	return t.Outcome.Result != ResultNone
}

// TradeDraft is a possibly partial trade under construction. It is never
// persisted; it is finalized into a TradeRecord at validation time.
type TradeDraft struct {
	Symbol   string
	Side     Side
	HigherTF HigherTF

	ExecTF       string
	EMA25State   EMA25State
	Structure    Structure
	Reasons      []string
	EntryType    EntryType
	WavePosition WavePosition
	EMADistance  EMADistance
	Dango        Dango

	StopReason    string
	TPCandidates  []string
	RRCategory    RRCategory
	ForbiddenTags []string

	EntryReasonOneLine   string
	SkipConditionOneLine string
	ChartURL             string
	FrictionNote         string
}

// TradeUpdate carries a partial outcome edit. Nil fields are left untouched.
type TradeUpdate struct {
	Result        *TradeResult
	FollowedRules *FollowedRules
	DeviationTags *[]string
	LearnOneLine  *string
}

// Empty reports whether the update carries no fields.
func (u TradeUpdate) Empty() bool {
	return u.Result == nil && u.FollowedRules == nil && u.DeviationTags == nil && u.LearnOneLine == nil
}
