// # internal/ui/report/markdown.go
package report

import (
	"fmt"
	"strings"
	"time"

	"a11ylint/internal/model"
)

// GenerateMarkdown renders a human-readable session summary.
func GenerateMarkdown(findings []model.Finding, confidence model.Confidence, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString("# Accessibility Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", generatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Confidence: **%.2f (%s)**: %s\n\n", confidence.Score, confidence.Band, confidence.Reason)

	counts := map[model.Severity]int{}
	for _, f := range findings {
		counts[f.Severity]++
	}
	fmt.Fprintf(&b, "Findings: %d error(s), %d warning(s), %d info\n\n",
		counts[model.SeverityError], counts[model.SeverityWarning], counts[model.SeverityInfo])

	if len(findings) == 0 {
		b.WriteString("No issues found.\n")
		return b.String()
	}

	b.WriteString("| Severity | Check | Location | Message |\n")
	b.WriteString("|----------|-------|----------|--------|\n")
	for _, f := range findings {
		loc := f.PrimaryLocation()
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			f.Severity, f.Type, loc.String(), escapePipes(f.Message))
	}

	var fixes []model.Finding
	for _, f := range findings {
		if f.Fix != nil {
			fixes = append(fixes, f)
		}
	}
	if len(fixes) > 0 {
		b.WriteString("\n## Suggested fixes\n\n")
		for _, f := range fixes {
			if f.Fix.Attr != "" {
				fmt.Fprintf(&b, "- %s: set `%s=\"%s\"` (%s)\n",
					f.PrimaryLocation().String(), f.Fix.Attr, f.Fix.Value, f.Fix.Description)
			} else {
				fmt.Fprintf(&b, "- %s: %s\n", f.PrimaryLocation().String(), f.Fix.Description)
			}
		}
	}

	return b.String()
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
