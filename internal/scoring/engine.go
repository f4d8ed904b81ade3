package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/archis17/AI-KYC/internal/documents"
)

// Weights sum past 100 deliberately; each factor is independently weighted
// and the final score clamps to [0,100].
const (
	weightNameMismatch     = 25.0
	weightDOBMismatch      = 20.0
	weightAddressMismatch  = 15.0
	weightLowOCRConfidence = 20.0
	weightMissingDocuments = 20.0
	weightFraudSignals     = 30.0

	approvedThreshold = 30.0
	reviewThreshold   = 60.0
)

// requiredTypes are the document types a complete case must include.
var requiredTypes = []documents.Type{
	documents.TypeIDCard,
	documents.TypePassport,
	documents.TypeProofOfAddress,
}

type check struct {
	name   string
	weight float64
	run    func(docs []documents.Document) float64
}

// checks run in declaration order; reasoning tie-breaks depend on it.
var checks = []check{
	{FactorNameMismatch, weightNameMismatch, func(docs []documents.Document) float64 {
		return mismatchScore(fieldValues(docs, func(e *documents.Entities) string { return e.Name }))
	}},
	{FactorDOBMismatch, weightDOBMismatch, func(docs []documents.Document) float64 {
		return mismatchScore(fieldValues(docs, func(e *documents.Entities) string { return e.DOB }))
	}},
	{FactorAddressMismatch, weightAddressMismatch, func(docs []documents.Document) float64 {
		return mismatchScore(fieldValues(docs, func(e *documents.Entities) string { return e.Address }))
	}},
	{FactorLowOCRConfidence, weightLowOCRConfidence, confidenceScore},
	{FactorMissingDocuments, weightMissingDocuments, missingScore},
	{FactorFraudSignals, weightFraudSignals, fraudScore},
}

type rankedFactor struct {
	name string
	Factor
}

// Compute evaluates every risk factor over the case's documents and derives
// the final clamped score, the decision, and the reasoning report. Pure:
// no persistence, no side effects.
func Compute(docs []documents.Document) Outcome {
	factors := make(map[string]Factor, len(checks))
	ranked := make([]rankedFactor, 0, len(checks))

	var total float64
	for _, c := range checks {
		sub := c.run(docs)
		f := Factor{
			Score:        sub,
			Weight:       c.weight,
			Contribution: sub * c.weight / 100,
		}
		factors[c.name] = f
		ranked = append(ranked, rankedFactor{name: c.name, Factor: f})
		total += f.Contribution
	}

	score := math.Min(100, math.Max(0, total))
	decision := decide(score)

	return Outcome{
		Score:     score,
		Decision:  decision,
		Reasoning: buildReasoning(score, decision, ranked, factors),
		Factors:   factors,
	}
}

func decide(score float64) Decision {
	switch {
	case score <= approvedThreshold:
		return DecisionApproved
	case score <= reviewThreshold:
		return DecisionReview
	default:
		return DecisionRejected
	}
}

// fieldValues collects the normalized non-empty values of one entity field
// across all documents whose entity stage has run.
func fieldValues(docs []documents.Document, pick func(*documents.Entities) string) []string {
	var values []string
	for _, d := range docs {
		if d.Entities == nil {
			continue
		}
		if v := normalize(pick(d.Entities)); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// mismatchScore rates value disagreement: fewer than two values is nothing
// to compare, full agreement is zero, otherwise (distinct-1)/total scaled
// to 0-100.
func mismatchScore(values []string) float64 {
	if len(values) < 2 {
		return 0
	}

	unique := make(map[string]struct{}, len(values))
	for _, v := range values {
		unique[v] = struct{}{}
	}
	if len(unique) == 1 {
		return 0
	}

	ratio := float64(len(unique)-1) / float64(len(values))
	return math.Min(100, ratio*100)
}

// confidenceScore converts average extraction confidence to risk: an average
// of 0.9 yields 10. Documents without a successful extraction count as 0.
// A case with no documents is maximal risk.
func confidenceScore(docs []documents.Document) float64 {
	if len(docs) == 0 {
		return 100
	}

	var sum float64
	for _, d := range docs {
		sum += d.ExtractionConfidence()
	}
	avg := sum / float64(len(docs))

	return math.Max(0, 100-avg*100)
}

func missingScore(docs []documents.Document) float64 {
	present := make(map[documents.Type]bool, len(docs))
	for _, d := range docs {
		present[d.Type] = true
	}

	missing := 0
	for _, t := range requiredTypes {
		if !present[t] {
			missing++
		}
	}

	return float64(missing) / float64(len(requiredTypes)) * 100
}

// fraudScore accumulates validation findings: 25 points per fraud signal,
// 15 per field mismatch, capped at 100.
func fraudScore(docs []documents.Document) float64 {
	var total float64
	for _, d := range docs {
		if d.Validation == nil {
			continue
		}
		total += float64(len(d.Validation.FraudSignals)) * 25
		total += float64(len(d.Validation.Mismatches)) * 15
	}
	return math.Min(100, total)
}

// buildReasoning renders the persisted explanation: headline, top three
// factors by contribution (stable ties keep evaluation order, zero
// contributions are omitted), then threshold-triggered issue statements.
func buildReasoning(score float64, decision Decision, ranked []rankedFactor, factors map[string]Factor) string {
	parts := []string{
		fmt.Sprintf("Risk Score: %.1f/100. Decision: %s.", score, strings.ToUpper(string(decision))),
	}

	ordered := make([]rankedFactor, len(ranked))
	copy(ordered, ranked)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Contribution > ordered[j].Contribution
	})

	top := ordered
	if len(top) > 3 {
		top = top[:3]
	}
	if len(top) > 0 {
		parts = append(parts, "\nTop Risk Factors:")
		for _, f := range top {
			if f.Contribution > 0 {
				parts = append(parts, fmt.Sprintf(
					"- %s: %.1f%% (contributed %.1f points)",
					titleCase(f.name), f.Score, f.Contribution,
				))
			}
		}
	}

	var issues []string
	if factors[FactorNameMismatch].Score > 50 {
		issues = append(issues, "Name inconsistencies detected across documents")
	}
	if factors[FactorDOBMismatch].Score > 50 {
		issues = append(issues, "Date of birth mismatches found")
	}
	if factors[FactorAddressMismatch].Score > 50 {
		issues = append(issues, "Address inconsistencies detected")
	}
	if factors[FactorLowOCRConfidence].Score > 50 {
		issues = append(issues, "Low OCR confidence - document quality may be poor")
	}
	if factors[FactorMissingDocuments].Score > 0 {
		issues = append(issues, "Some required documents are missing")
	}

	if len(issues) > 0 {
		parts = append(parts, "\nIssues Identified:")
		for _, issue := range issues {
			parts = append(parts, "- "+issue)
		}
	}

	return strings.Join(parts, "\n")
}

// titleCase renders a factor name as a report label: underscores become
// spaces and each word is capitalized ("low_ocr_confidence" reads
// "Low Ocr Confidence").
func titleCase(name string) string {
	words := strings.Split(strings.ReplaceAll(name, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
