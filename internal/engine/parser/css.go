package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"a11ylint/internal/model"
)

// CSSExtractor collects style rules in declaration order. Specificity
// is left zero here; the merger computes it when rules are attached.
type CSSExtractor struct{}

func (e *CSSExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*model.SourceModel, error) {
	m := &model.SourceModel{Path: filePath, Dialect: model.DialectCSS}
	ctx := &ExtractionContext{Source: source, Model: m}

	order := 0
	engine := NewExtractorEngine(map[string]NodeHandler{
		"rule_set": func(ctx *ExtractionContext, node *sitter.Node) bool {
			rule := e.extractRule(ctx, node, order)
			if rule != nil {
				m.Rules = append(m.Rules, rule)
				order++
			}
			return true
		},
	})
	engine.Walk(ctx, root)
	return m, nil
}

func (e *CSSExtractor) extractRule(ctx *ExtractionContext, node *sitter.Node, order int) *model.StyleRule {
	selector := strings.TrimSpace(ctx.ChildText(node, "selectors"))
	if selector == "" {
		return nil
	}
	rule := &model.StyleRule{
		Selector:    selector,
		SourceOrder: order,
		Location:    ctx.Location(node),
	}

	block := childOfKind(node, "block")
	if block == nil {
		return rule
	}
	for i := uint(0); i < block.ChildCount(); i++ {
		decl := block.Child(i)
		if decl.Kind() != "declaration" {
			continue
		}
		name := strings.ToLower(ctx.ChildText(decl, "property_name"))
		if name == "" {
			continue
		}
		rule.Properties = append(rule.Properties, model.Property{
			Name:  name,
			Value: declarationValue(ctx.Text(decl)),
		})
	}
	return rule
}

func declarationValue(raw string) string {
	if i := strings.Index(raw, ":"); i >= 0 {
		raw = raw[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), ";"))
}
