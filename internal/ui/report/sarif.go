// # internal/ui/report/sarif.go
package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"a11ylint/internal/model"
	"a11ylint/internal/shared/version"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

// GenerateSARIF builds a SARIF v2.1.0 document from a session's
// findings. Rule ids are the finding type strings, so downstream
// tooling can suppress individual checks. All file URIs are made
// relative to projectRoot; absolute paths are never included so that
// reports are safe to share.
func GenerateSARIF(projectRoot string, findings []model.Finding) ([]byte, error) {
	results := make([]sarifResult, 0, len(findings))
	for _, f := range findings {
		msg := f.Message
		if f.Confidence.Band != "" {
			msg = fmt.Sprintf("%s (confidence %.2f %s)", f.Message, f.Confidence.Score, f.Confidence.Band)
		}
		result := sarifResult{
			RuleID:  f.Type,
			Level:   severityToLevel(f.Severity),
			Message: sarifMessage{Text: msg},
		}
		for _, loc := range f.Locations {
			if loc.File == "" {
				continue
			}
			sl := sarifLocation{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{
						URI:       relativeURI(projectRoot, loc.File),
						URIBaseID: "%SRCROOT%",
					},
				},
			}
			if loc.Line > 0 {
				sl.PhysicalLocation.Region = &sarifRegion{
					StartLine:   loc.Line,
					StartColumn: loc.Column,
				}
			}
			result.Locations = append(result.Locations, sl)
		}
		results = append(results, result)
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "a11ylint",
						Version: version.Version,
						Rules:   buildSARIFRules(findings),
					},
				},
				Results: results,
			},
		},
	}

	return json.MarshalIndent(report, "", "  ")
}

// buildSARIFRules returns one rule per distinct finding type, in
// first-seen order (findings are already deterministically sorted).
func buildSARIFRules(findings []model.Finding) []sarifRule {
	seen := make(map[string]bool)
	rules := make([]sarifRule, 0)
	for _, f := range findings {
		if seen[f.Type] {
			continue
		}
		seen[f.Type] = true
		desc := f.Type
		if len(f.WCAG) > 0 {
			desc = fmt.Sprintf("%s (WCAG %s)", f.Type, strings.Join(f.WCAG, ", "))
		}
		rules = append(rules, sarifRule{
			ID:               f.Type,
			Name:             ruleName(f.Type),
			ShortDescription: sarifMessage{Text: desc},
			DefaultConfig:    sarifRuleDefaultConfig{Level: severityToLevel(f.Severity)},
		})
	}
	return rules
}

// ruleName turns "mouse-only-click" into "MouseOnlyClick".
func ruleName(findingType string) string {
	parts := strings.Split(findingType, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "")
}

func severityToLevel(s model.Severity) string {
	switch s {
	case model.SeverityError:
		return "error"
	case model.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// relativeURI converts an absolute file path to a forward-slash
// relative URI anchored at projectRoot. If the path is already
// relative or projectRoot is empty, the original path (with forward
// slashes) is returned.
func relativeURI(projectRoot, filePath string) string {
	if projectRoot != "" && filepath.IsAbs(filePath) {
		rel, err := filepath.Rel(projectRoot, filePath)
		if err == nil {
			filePath = rel
		}
	}
	// SARIF URIs use forward slashes.
	return filepath.ToSlash(filePath)
}
