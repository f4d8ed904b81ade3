package crossdoc

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/archis17/AI-KYC/internal/stage"
)

func TestBuildPrompt(t *testing.T) {
	inputs := []stage.DocumentInput{
		{
			Type: "passport",
			Entities: stage.EntitySet{
				Name:     "Jane Doe",
				DOB:      "01/02/1990",
				IDNumber: "P1234567",
			},
			Confidence: 0.92,
		},
		{
			Type: "proof_of_address",
			Entities: stage.EntitySet{
				Name:    "Jane Doe",
				Address: "123 Main Street",
			},
			Confidence: 0.8,
		},
	}

	want := `You are a KYC document validation expert. Analyze documents for consistency and fraud signals.

Analyze the following KYC documents for consistency and potential fraud signals.

Documents:

Document 1 - Type: passport
Extracted Entities:
- Name: Jane Doe
- DOB: 01/02/1990
- Address: Not found
- ID Number: P1234567
OCR Confidence: 0.92

Document 2 - Type: proof_of_address
Extracted Entities:
- Name: Jane Doe
- DOB: Not found
- Address: 123 Main Street
- ID Number: Not found
OCR Confidence: 0.80

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

	if got := buildPrompt(inputs); got != want {
		t.Errorf("prompt mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestParseOutcomeJSON(t *testing.T) {
	t.Run("clean json reply", func(t *testing.T) {
		got := parseOutcome(`{"validated": true, "reasoning": "all consistent", "fraud_signals": [], "mismatches": {}}`)

		if !got.Valid {
			t.Error("valid = false, want true")
		}
		if got.Reasoning != "all consistent" {
			t.Errorf("reasoning = %q, want all consistent", got.Reasoning)
		}
		if len(got.FraudSignals) != 0 {
			t.Errorf("fraud signals = %v, want none", got.FraudSignals)
		}
	})

	t.Run("json embedded in prose", func(t *testing.T) {
		content := `Here is my analysis: {"validated": false, "reasoning": "names differ", "mismatches": {"name": "John vs Jane"}} hope it helps`
		got := parseOutcome(content)

		if got.Valid {
			t.Error("valid = true, want false")
		}
		if got.Reasoning != "names differ" {
			t.Errorf("reasoning = %q, want names differ", got.Reasoning)
		}
		if got.Mismatches["name"] != "John vs Jane" {
			t.Errorf("name mismatch = %q, want John vs Jane", got.Mismatches["name"])
		}
	})
}

func TestParseOutcomeKeywordFallback(t *testing.T) {
	t.Run("mismatch and fraud keywords", func(t *testing.T) {
		content := "The documents are suspicious: clear name mismatch and DOB mismatch between the passport and the ID."
		got := parseOutcome(content)

		if got.Valid {
			t.Error("valid = true, want false")
		}
		if got.Reasoning != content {
			t.Errorf("reasoning = %q, want original reply", got.Reasoning)
		}
		if got.Mismatches["name"] == "" {
			t.Error("name mismatch not detected")
		}
		if got.Mismatches["dob"] == "" {
			t.Error("dob mismatch not detected")
		}
		if _, ok := got.Mismatches["address"]; ok {
			t.Error("address mismatch detected, want none")
		}
		if len(got.FraudSignals) != 1 {
			t.Errorf("fraud signals = %v, want one", got.FraudSignals)
		}
	})

	t.Run("affirmative prose", func(t *testing.T) {
		got := parseOutcome("Everything checks out. validated: true")

		if !got.Valid {
			t.Error("valid = false, want true")
		}
		if len(got.Mismatches) != 0 {
			t.Errorf("mismatches = %v, want none", got.Mismatches)
		}
		if len(got.FraudSignals) != 0 {
			t.Errorf("fraud signals = %v, want none", got.FraudSignals)
		}
	})
}

func TestParseOutcomeTruncatesReasoning(t *testing.T) {
	got := parseOutcome(strings.Repeat("é", 600))

	if n := utf8.RuneCountInString(got.Reasoning); n != 500 {
		t.Errorf("reasoning runes = %d, want 500", n)
	}
}
