// Package report generates a discipline review of past trades through an
// LLM. Only a reduced projection of each trade is sent out; credentials and
// raw records never leave the process through this path. The review comments
// on rule adherence, never on what to trade next.
package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/seiya-sugimoto/trade-gate-log/internal/models"
)

// LLMClient abstracts the completion call so tests can stub it.
type LLMClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OpenAIClient implements LLMClient using the OpenAI API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI LLM client.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Complete sends a prompt to the LLM and returns the response text.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}

// Projection is the reduced view of a trade shared with the report
// collaborator.
type Projection struct {
	Symbol        string
	Side          models.Side
	Reasons       []string
	Warnings      []string
	Result        models.TradeResult
	FollowedRules models.FollowedRules
	LearnOneLine  string
	FrictionNote  string
}

// Project reduces trade records to the fields the review may see.
func Project(trades []models.TradeRecord) []Projection {
	out := make([]Projection, 0, len(trades))
	for _, t := range trades {
		out = append(out, Projection{
			Symbol:        t.Symbol,
			Side:          t.Side,
			Reasons:       t.Reasons,
			Warnings:      t.Gate.Warnings,
			Result:        t.Outcome.Result,
			FollowedRules: t.Outcome.FollowedRules,
			LearnOneLine:  t.Outcome.LearnOneLine,
			FrictionNote:  t.FrictionNote,
		})
	}
	return out
}

const systemPrompt = `You are a trading discipline coach reviewing a discretionary trader's journal.
Comment only on rule adherence, gate warnings that were overridden, and recurring patterns.
Never suggest trades, symbols, or market direction. This is not investment advice.`

// Generate builds the review prompt from the projections and runs it through
// the client.
func Generate(ctx context.Context, client LLMClient, trades []Projection) (string, error) {
	if len(trades) == 0 {
		return "", fmt.Errorf("no trades to review")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Review the following %d logged trades:\n\n", len(trades))
	for i, t := range trades {
		fmt.Fprintf(&b, "%d. %s %s", i+1, t.Symbol, t.Side)
		if len(t.Reasons) > 0 {
			fmt.Fprintf(&b, " | reasons: %s", strings.Join(t.Reasons, ", "))
		}
		if len(t.Warnings) > 0 {
			fmt.Fprintf(&b, " | gate warnings: %s", strings.Join(t.Warnings, " / "))
		}
		if t.FrictionNote != "" {
			fmt.Fprintf(&b, " | friction note: %s", t.FrictionNote)
		}
		fmt.Fprintf(&b, " | result: %s, followed rules: %s", t.Result, t.FollowedRules)
		if t.LearnOneLine != "" {
			fmt.Fprintf(&b, " | learned: %s", t.LearnOneLine)
		}
		b.WriteString("\n")
	}

	return client.Complete(ctx, systemPrompt, b.String())
}
