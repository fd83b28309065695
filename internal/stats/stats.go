// Package stats aggregates logged trades into a discipline summary. The
// summary reports adherence, not performance: there are no P&L figures, only
// outcomes and how often the rules were followed.
package stats

import (
	"sort"

	"github.com/seiya-sugimoto/trade-gate-log/internal/models"
)

// SymbolCount is one entry of the per-symbol breakdown.
type SymbolCount struct {
	Symbol string
	Trades int
	Wins   int
	Losses int
}

// Summary is the aggregate discipline view over a set of trades.
type Summary struct {
	TotalTrades int
	Finished    int
	Unfinished  int

	Wins      int
	Losses    int
	BreakEven int
	// WinRate is wins over decided trades (wins plus losses); break-even
	// trades are excluded from the denominator.
	WinRate float64

	FollowedYes int
	FollowedNo  int
	// FollowedRate is the share of finished trades where the rules were
	// followed.
	FollowedRate float64

	// WarnedTrades were saved against at least one gate warning. Their
	// split shows what overriding the gate actually cost.
	WarnedTrades int
	WarnedWins   int
	WarnedLosses int

	BySymbol []SymbolCount
}

// Compute aggregates the trades into a Summary. The per-symbol breakdown is
// sorted by trade count descending, then symbol ascending, so output is
// stable.
func Compute(trades []models.TradeRecord) Summary {
	var s Summary
	s.TotalTrades = len(trades)

	bySymbol := make(map[string]*SymbolCount)
	for _, t := range trades {
		sc := bySymbol[t.Symbol]
		if sc == nil {
			sc = &SymbolCount{Symbol: t.Symbol}
			bySymbol[t.Symbol] = sc
		}
		sc.Trades++

		warned := len(t.Gate.Warnings) > 0
		if warned {
			s.WarnedTrades++
		}

		if !t.Finished() {
			s.Unfinished++
			continue
		}
		s.Finished++

		switch t.Outcome.Result {
		case models.ResultWin:
			s.Wins++
			sc.Wins++
			if warned {
				s.WarnedWins++
			}
		case models.ResultLoss:
			s.Losses++
			sc.Losses++
			if warned {
				s.WarnedLosses++
			}
		case models.ResultBreakEven:
			s.BreakEven++
		}

		switch t.Outcome.FollowedRules {
		case models.FollowedYes:
			s.FollowedYes++
		case models.FollowedNo:
			s.FollowedNo++
		}
	}

	if decided := s.Wins + s.Losses; decided > 0 {
		s.WinRate = float64(s.Wins) / float64(decided)
	}
	if s.Finished > 0 {
		s.FollowedRate = float64(s.FollowedYes) / float64(s.Finished)
	}

	s.BySymbol = make([]SymbolCount, 0, len(bySymbol))
	for _, sc := range bySymbol {
		s.BySymbol = append(s.BySymbol, *sc)
	}
	sort.Slice(s.BySymbol, func(i, j int) bool {
		if s.BySymbol[i].Trades != s.BySymbol[j].Trades {
			return s.BySymbol[i].Trades > s.BySymbol[j].Trades
		}
		return s.BySymbol[i].Symbol < s.BySymbol[j].Symbol
	})
	return s
}
