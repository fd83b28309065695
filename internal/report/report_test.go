package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seiya-sugimoto/trade-gate-log/internal/models"
)

type stubClient struct {
	system string
	user   string
	reply  string
	err    error
}

func (s *stubClient) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	s.system = systemPrompt
	s.user = userPrompt
	return s.reply, s.err
}

func TestProject_ReducesToReviewFields(t *testing.T) {
	rec := models.TradeRecord{
		ID:           "secret-id",
		Symbol:       "USDJPY",
		Side:         models.SideBuy,
		Reasons:      []string{"trend continuation"},
		StopReason:   "below the last higher low",
		ChartURL:     "https://charts.example.com/private",
		FrictionNote: "aware of the late entry",
		Gate:         models.GateDiagnostics{Warnings: []string{"some warning"}},
		Outcome: models.Outcome{
			Result:        models.ResultWin,
			FollowedRules: models.FollowedYes,
			LearnOneLine:  "stick to the plan",
		},
	}

	out := Project([]models.TradeRecord{rec})
	require.Len(t, out, 1)
	assert.Equal(t, Projection{
		Symbol:        "USDJPY",
		Side:          models.SideBuy,
		Reasons:       []string{"trend continuation"},
		Warnings:      []string{"some warning"},
		Result:        models.ResultWin,
		FollowedRules: models.FollowedYes,
		LearnOneLine:  "stick to the plan",
		FrictionNote:  "aware of the late entry",
	}, out[0])
}

func TestGenerate_PromptContent(t *testing.T) {
	stub := &stubClient{reply: "review text"}

	trades := []Projection{
		{
			Symbol:        "USDJPY",
			Side:          models.SideBuy,
			Reasons:       []string{"trend continuation"},
			Result:        models.ResultWin,
			FollowedRules: models.FollowedYes,
		},
		{
			Symbol:        "EURUSD",
			Side:          models.SideSell,
			Warnings:      []string{"congestion-state entries are categorically disallowed."},
			FrictionNote:  "knowingly counter-trend",
			Result:        models.ResultLoss,
			FollowedRules: models.FollowedNo,
			LearnOneLine:  "do not fade congestion",
		},
	}

	out, err := Generate(context.Background(), stub, trades)
	require.NoError(t, err)
	assert.Equal(t, "review text", out)

	assert.Contains(t, stub.system, "Never suggest trades")
	assert.Contains(t, stub.user, "Review the following 2 logged trades")
	assert.Contains(t, stub.user, "1. USDJPY BUY")
	assert.Contains(t, stub.user, "reasons: trend continuation")
	assert.Contains(t, stub.user, "2. EURUSD SELL")
	assert.Contains(t, stub.user, "gate warnings: congestion-state entries are categorically disallowed.")
	assert.Contains(t, stub.user, "friction note: knowingly counter-trend")
	assert.Contains(t, stub.user, "learned: do not fade congestion")
}

func TestGenerate_NoTradesFails(t *testing.T) {
	_, err := Generate(context.Background(), &stubClient{}, nil)
	assert.Error(t, err)
}
