// Package entities implements entity extraction over previously extracted
// document text using labeled-field and fallback regex patterns. It runs
// entirely in process and never fails a pipeline run.
package entities

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/archis17/AI-KYC/internal/stage"
)

// Labeled patterns match explicit field markers; the fallback patterns
// after each pick up unlabeled values. Name and birth date matching is
// case-sensitive so arbitrary prose does not read as a name.
var (
	nameLabeled = regexp.MustCompile(`(?:Name|Full Name|FullName)[:\s]+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`)
	nameSimple  = regexp.MustCompile(`([A-Z][a-z]+\s+[A-Z][a-z]+)`)

	dobLabeled = regexp.MustCompile(`(?:DOB|Date of Birth|Birth Date)[:\s]+(\d{1,2}[/-]\d{1,2}[/-]\d{4})`)
	dobAny     = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{4}`)

	addressLabeled = regexp.MustCompile(`(?i)(?:Address|Addr)[:\s]+([0-9]+\s+[A-Za-z0-9\s,]+(?:Street|St|Avenue|Ave|Road|Rd|Lane|Ln|Drive|Dr|Boulevard|Blvd|Court|Ct)[A-Za-z0-9\s,]+)`)
	addressSimple  = regexp.MustCompile(`(?i)[0-9]+\s+[A-Za-z0-9\s,]+(?:Street|St|Avenue|Ave|Road|Rd)`)

	idLabeled = regexp.MustCompile(`(?i)(?:ID|ID Number|Passport|SSN|Social Security)[:\s#]+([A-Z0-9]{6,20})`)
	idCompact = regexp.MustCompile(`(?i)[A-Z]{1,2}\d{6,12}`)
	idSSN     = regexp.MustCompile(`\d{3}-\d{2}-\d{4}`)
)

// Extractor recovers name, date of birth, address, and ID number from text.
type Extractor struct {
	logger *slog.Logger
}

// New creates a regex-backed entity extractor.
func New(logger *slog.Logger) *Extractor {
	return &Extractor{
		logger: logger.With("system", "entities"),
	}
}

// ExtractEntities scans text for identity fields. Fields that do not match
// stay empty; the returned set is never nil and the error is always nil.
func (e *Extractor) ExtractEntities(_ context.Context, text string) (*stage.EntitySet, error) {
	set := &stage.EntitySet{}
	if strings.TrimSpace(text) == "" {
		return set, nil
	}

	set.Name = firstMatch(text, nameLabeled, nameSimple)
	set.DOB = firstMatch(text, dobLabeled, dobAny)
	set.Address = firstMatch(text, addressLabeled, addressSimple)
	set.IDNumber = firstMatch(text, idLabeled, idCompact, idSSN)

	return set, nil
}

// firstMatch returns the first pattern's hit, preferring the capture group
// over the full match when the pattern declares one.
func firstMatch(text string, patterns ...*regexp.Regexp) string {
	for _, pattern := range patterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if len(m) > 1 {
			return m[1]
		}
		return m[0]
	}
	return ""
}
