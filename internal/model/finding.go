// # internal/model/finding.go
package model

import "sort"

// Severity of a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Band classifies a completeness score.
type Band string

const (
	BandHigh   Band = "HIGH"
	BandMedium Band = "MEDIUM"
	BandLow    Band = "LOW"
)

// Confidence is stamped onto every finding of a session. Score is the
// 0-1 completeness metric; Reason is human readable.
type Confidence struct {
	Score  float64
	Band   Band
	Reason string
}

// FixHint is a structured fix descriptor. Data only; patch text
// generation happens outside the core.
type FixHint struct {
	Attr        string
	Value       string
	Description string
}

// Finding is one reported defect.
type Finding struct {
	Type       string
	Severity   Severity
	WCAG       []string
	Message    string
	Element    *Element
	Locations  []Location
	Confidence Confidence
	Fix        *FixHint
}

// PrimaryLocation returns the first location, or a zero value.
func (f *Finding) PrimaryLocation() Location {
	if len(f.Locations) == 0 {
		return Location{}
	}
	return f.Locations[0]
}

// SortFindings orders findings by the single deterministic key
// (file, line, column, type). Execution order of analyzers must never
// affect the returned sequence.
func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i].PrimaryLocation(), findings[j].PrimaryLocation()
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return findings[i].Type < findings[j].Type
	})
}
