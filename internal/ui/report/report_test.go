package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"a11ylint/internal/model"
)

func sampleFindings() []model.Finding {
	return []model.Finding{
		{
			Type:     "mouse-only-click",
			Severity: model.SeverityWarning,
			WCAG:     []string{"2.1.1"},
			Message:  "element has a click handler but no keyboard equivalent",
			Locations: []model.Location{
				{File: "page.html", Line: 4, Column: 3},
				{File: "app.js", Line: 12, Column: 1},
			},
			Confidence: model.Confidence{Score: 0.8, Band: model.BandMedium, Reason: "partial tree"},
			Fix:        &model.FixHint{Attr: "tabindex", Value: "0", Description: "make the element focusable"},
		},
		{
			Type:       "dangling-aria-reference",
			Severity:   model.SeverityError,
			WCAG:       []string{"1.3.1", "4.1.2"},
			Message:    "aria-labelledby references missing id \"lbl\"",
			Locations:  []model.Location{{File: "form.html", Line: 2, Column: 5}},
			Confidence: model.Confidence{Score: 0.8, Band: model.BandMedium, Reason: "partial tree"},
		},
	}
}

func TestGenerateSARIF(t *testing.T) {
	data, err := GenerateSARIF("/work/project", sampleFindings())
	if err != nil {
		t.Fatalf("GenerateSARIF: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc["version"] != "2.1.0" {
		t.Errorf("version = %v", doc["version"])
	}

	runs := doc["runs"].([]any)
	run := runs[0].(map[string]any)
	results := run["results"].([]any)
	if len(results) != 2 {
		t.Fatalf("results = %d", len(results))
	}

	first := results[0].(map[string]any)
	if first["ruleId"] != "mouse-only-click" || first["level"] != "warning" {
		t.Errorf("first result = %v", first)
	}
	msg := first["message"].(map[string]any)["text"].(string)
	if !strings.Contains(msg, "confidence 0.80 MEDIUM") {
		t.Errorf("message lacks confidence: %s", msg)
	}
	if locs := first["locations"].([]any); len(locs) != 2 {
		t.Errorf("locations = %d", len(locs))
	}

	driver := run["tool"].(map[string]any)["driver"].(map[string]any)
	if driver["name"] != "a11ylint" {
		t.Errorf("driver = %v", driver["name"])
	}
	rules := driver["rules"].([]any)
	if len(rules) != 2 {
		t.Fatalf("rules = %d", len(rules))
	}
	if rules[0].(map[string]any)["name"] != "MouseOnlyClick" {
		t.Errorf("rule name = %v", rules[0].(map[string]any)["name"])
	}
}

func TestSARIFNoAbsolutePaths(t *testing.T) {
	findings := []model.Finding{{
		Type:      "positive-tabindex",
		Severity:  model.SeverityWarning,
		Message:   "tabindex=5 overrides the natural focus order",
		Locations: []model.Location{{File: "/work/project/static/page.html", Line: 1, Column: 1}},
	}}

	data, err := GenerateSARIF("/work/project", findings)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "/work/project") {
		t.Error("absolute project path leaked into report")
	}
	if !strings.Contains(string(data), "static/page.html") {
		t.Error("relative URI missing")
	}
}

func TestGenerateMarkdown(t *testing.T) {
	md := GenerateMarkdown(sampleFindings(), model.Confidence{
		Score:  0.8,
		Band:   model.BandMedium,
		Reason: "partial tree, 3 fragments, 80% references resolved",
	}, time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC))

	for _, want := range []string{
		"# Accessibility Report",
		"0.80 (MEDIUM)",
		"1 error(s), 1 warning(s), 0 info",
		"| warning | mouse-only-click | page.html:4:3 |",
		"## Suggested fixes",
		"`tabindex=\"0\"`",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q\n%s", want, md)
		}
	}
}

func TestGenerateMarkdownEmpty(t *testing.T) {
	md := GenerateMarkdown(nil, model.Confidence{Score: 1, Band: model.BandHigh, Reason: "complete tree"}, time.Now())
	if !strings.Contains(md, "No issues found.") {
		t.Errorf("markdown = %s", md)
	}
}
