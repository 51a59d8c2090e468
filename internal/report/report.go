// Package report renders lookup results for people: a summary report for a
// single lookup and tabular rows for batch runs.
package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/role-scout/internal/model"
)

// Band is a coarse confidence bucket.
type Band string

const (
	BandHigh   Band = "High"
	BandMedium Band = "Medium"
	BandLow    Band = "Low"
)

// Report is the presentation form of a LookupResult.
type Report struct {
	Headline              string   `json:"headline"`
	FullName              string   `json:"full_name"`
	Company               string   `json:"company"`
	Title                 string   `json:"title"`
	ConfidenceLabel       string   `json:"confidence_label"`
	ConfidenceBand        Band     `json:"confidence_band"`
	ConfidenceExplanation string   `json:"confidence_explanation"`
	PrimarySource         string   `json:"primary_source"`
	SourceCount           int      `json:"source_count"`
	Sources               []string `json:"sources"`
	Notes                 []string `json:"notes"`
}

// Notes attached to incomplete results.
const (
	NoteNoName    = "No clear full name could be extracted from the validation output."
	NoteNoSources = "No validation URLs were available; confidence is derived heuristically."
)

// Classify buckets a confidence score and returns the explanation copy.
func Classify(confidence float64) (Band, string) {
	switch {
	case confidence > 0.8:
		return BandHigh, "High confidence based on strong, agreeing sources."
	case confidence >= 0.6:
		return BandMedium, "Moderate confidence: sources are good but not overwhelming."
	}
	return BandLow, "Low confidence: treat this as a lead, not a fact."
}

// ProperCase title-cases s after trimming it.
func ProperCase(s string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(s))
}

// Build derives a Report from r. It never fails; missing fields produce
// notes instead.
func Build(r model.LookupResult) Report {
	company := ProperCase(r.Company)
	title := ProperCase(r.CurrentTitle)
	fullName := r.FullName()

	sources := make([]string, 0, len(r.ValidationSources))
	sources = append(sources, r.ValidationSources...)

	band, explanation := Classify(r.ConfidenceScore)

	var parts []string
	if fullName != "" {
		parts = append(parts, fullName)
	}
	if title != "" {
		parts = append(parts, title)
	}
	if company != "" {
		parts = append(parts, "@ "+company)
	}

	notes := []string{}
	if fullName == "" {
		notes = append(notes, NoteNoName)
	}
	if len(sources) == 0 {
		notes = append(notes, NoteNoSources)
	}

	return Report{
		Headline:              strings.Join(parts, " – "),
		FullName:              fullName,
		Company:               company,
		Title:                 title,
		ConfidenceLabel:       fmt.Sprintf("%s confidence (%.2f)", band, r.ConfidenceScore),
		ConfidenceBand:        band,
		ConfidenceExplanation: explanation,
		PrimarySource:         r.PrimarySource,
		SourceCount:           len(sources),
		Sources:               sources,
		Notes:                 notes,
	}
}
