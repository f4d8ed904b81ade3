// Package crossdoc implements cross-document validation through a chat
// model: sibling documents' entities are laid out in one prompt and the
// model reports consistency, mismatches, and fraud signals.
package crossdoc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/archis17/AI-KYC/internal/stage"
	"github.com/archis17/AI-KYC/pkg/formatting"
	"github.com/archis17/AI-KYC/pkg/retry"
)

const promptPreamble = `You are a KYC document validation expert. Analyze documents for consistency and fraud signals.

Analyze the following KYC documents for consistency and potential fraud signals.

Documents:
`

const promptInstructions = `
Please analyze:
1. Name consistency across documents
2. DOB consistency across documents
3. Address consistency across documents
4. ID number validity and consistency
5. Any suspicious patterns or fraud signals

Respond in JSON format:
{
    "validated": true/false,
    "reasoning": "explanation",
    "fraud_signals": ["signal1", "signal2"],
    "mismatches": {
        "name": "description if mismatch",
        "dob": "description if mismatch",
        "address": "description if mismatch"
    }
}
`

// reasoningLimit caps fallback reasoning copied from an unparseable reply.
const reasoningLimit = 500

// Validator checks sibling documents for consistency through the
// configured chat model.
type Validator struct {
	cfg    gaconfig.AgentConfig
	logger *slog.Logger
}

// New creates a chat-backed cross-document validator.
func New(cfg *gaconfig.AgentConfig, logger *slog.Logger) *Validator {
	return &Validator{
		cfg:    *cfg,
		logger: logger.With("system", "crossdoc"),
	}
}

// Open probes the configured provider with backoff so an unreachable model
// host surfaces at startup instead of on the first validation.
func (v *Validator) Open(ctx context.Context) error {
	probe := func() error {
		a, err := agent.New(&v.cfg)
		if err != nil {
			return fmt.Errorf("create validation agent: %w", err)
		}

		if _, err := a.Chat(ctx, "Reply with the single word: ready"); err != nil {
			return fmt.Errorf("probe validation provider: %w", err)
		}
		return nil
	}

	if err := retry.Do(ctx, probe, retry.DefaultOptions()); err != nil {
		return stage.NewError(stage.KindInitialization, err)
	}

	v.logger.Info("cross-document validator ready", "agent", v.cfg.Name)
	return nil
}

// Validate submits the documents to the model and returns its structured
// verdict. Replies that cannot be parsed as JSON degrade to keyword
// scanning rather than failing the stage.
func (v *Validator) Validate(ctx context.Context, inputs []stage.DocumentInput) (*stage.ValidationOutcome, error) {
	a, err := agent.New(&v.cfg)
	if err != nil {
		return nil, stage.NewError(stage.KindInitialization, err)
	}

	resp, err := a.Chat(ctx, buildPrompt(inputs))
	if err != nil {
		return nil, stage.NewError(stage.KindNetwork, err)
	}

	return parseOutcome(resp.Content()), nil
}

func buildPrompt(inputs []stage.DocumentInput) string {
	var b strings.Builder
	b.WriteString(promptPreamble)

	for i, in := range inputs {
		fmt.Fprintf(&b, "\nDocument %d - Type: %s\n", i+1, in.Type)
		b.WriteString("Extracted Entities:\n")
		fmt.Fprintf(&b, "- Name: %s\n", orNotFound(in.Entities.Name))
		fmt.Fprintf(&b, "- DOB: %s\n", orNotFound(in.Entities.DOB))
		fmt.Fprintf(&b, "- Address: %s\n", orNotFound(in.Entities.Address))
		fmt.Fprintf(&b, "- ID Number: %s\n", orNotFound(in.Entities.IDNumber))
		fmt.Fprintf(&b, "OCR Confidence: %.2f\n", in.Confidence)
	}

	b.WriteString(promptInstructions)
	return b.String()
}

// parseOutcome prefers the model's JSON object; failing that it scans the
// reply for verdict keywords so a prose answer still produces a usable
// outcome.
func parseOutcome(content string) *stage.ValidationOutcome {
	if parsed, err := formatting.Parse[stage.ValidationOutcome](content); err == nil {
		return &parsed
	}

	lower := strings.ToLower(content)
	outcome := &stage.ValidationOutcome{
		Valid:      strings.Contains(lower, "validated") && strings.Contains(lower, "true"),
		Reasoning:  truncate(content, reasoningLimit),
		Mismatches: map[string]string{},
	}

	if strings.Contains(lower, "name mismatch") {
		outcome.Mismatches["name"] = "Name mismatch detected"
	}
	if strings.Contains(lower, "dob mismatch") || strings.Contains(lower, "date mismatch") {
		outcome.Mismatches["dob"] = "DOB mismatch detected"
	}
	if strings.Contains(lower, "address mismatch") {
		outcome.Mismatches["address"] = "Address mismatch detected"
	}
	if strings.Contains(lower, "suspicious") || strings.Contains(lower, "fraud") {
		outcome.FraudSignals = append(outcome.FraudSignals, "Suspicious patterns detected")
	}

	return outcome
}

func orNotFound(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Not found"
	}
	return value
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
