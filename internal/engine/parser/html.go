package parser

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"a11ylint/internal/model"
)

// HTMLExtractor builds one fragment per top-level element. Elements
// get deterministic ids derived from path and document order so that
// re-parsing the same content yields the same identities.
type HTMLExtractor struct{}

func (e *HTMLExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*model.SourceModel, error) {
	m := &model.SourceModel{Path: filePath, Dialect: model.DialectHTML}
	st := &htmlState{
		ctx:   &ExtractionContext{Source: source, Model: m},
		model: m,
	}

	ordinal := 0
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child.Kind() != "element" {
			continue
		}
		el := st.buildElement(child, nil)
		if el == nil {
			continue
		}
		m.Fragments = append(m.Fragments, &model.Fragment{
			ID:   model.FragmentID(filePath, ordinal),
			Path: filePath,
			Root: el,
		})
		ordinal++
	}
	return m, nil
}

type htmlState struct {
	ctx   *ExtractionContext
	model *model.SourceModel
	n     int
}

func (s *htmlState) buildElement(node *sitter.Node, parent *model.Element) *model.Element {
	tagNode := childOfKind(node, "start_tag")
	if tagNode == nil {
		tagNode = childOfKind(node, "self_closing_tag")
	}
	if tagNode == nil {
		return nil
	}

	s.n++
	el := &model.Element{
		ID:       fmt.Sprintf("%s/%d", s.model.Path, s.n),
		Tag:      strings.ToLower(s.ctx.ChildText(tagNode, "tag_name")),
		Parent:   parent,
		Location: s.ctx.Location(node),
	}

	for i := uint(0); i < tagNode.ChildCount(); i++ {
		attr := tagNode.Child(i)
		if attr.Kind() != "attribute" {
			continue
		}
		name := strings.ToLower(s.ctx.ChildText(attr, "attribute_name"))
		if name == "" {
			continue
		}
		el.Attrs = append(el.Attrs, model.Attr{Name: name, Value: s.attrValue(attr)})
		if strings.HasPrefix(name, "on") && len(name) > 2 {
			s.inlineHandler(el, attr, name)
		}
	}
	el.Semantic = model.DeriveSemantics(el.Tag, el.Attrs)

	var text []string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "element":
			if c := s.buildElement(child, el); c != nil {
				el.Children = append(el.Children, c)
			}
		case "text":
			if t := strings.TrimSpace(s.ctx.Text(child)); t != "" {
				text = append(text, t)
			}
		}
	}
	el.Text = strings.Join(text, " ")
	return el
}

func (s *htmlState) attrValue(attr *sitter.Node) string {
	if quoted := childOfKind(attr, "quoted_attribute_value"); quoted != nil {
		return s.ctx.ChildText(quoted, "attribute_value")
	}
	return s.ctx.ChildText(attr, "attribute_value")
}

// inlineHandler records an on* attribute as an event handler node.
// Without an id there is no selector that reaches exactly this
// element, so the handler stays unbound rather than broadcast to
// every element sharing the tag.
func (s *htmlState) inlineHandler(el *model.Element, attr *sitter.Node, name string) {
	id := ""
	for _, a := range el.Attrs {
		if a.Name == "id" {
			id = a.Value
		}
	}
	if id == "" {
		return
	}
	s.model.Actions = append(s.model.Actions, &model.ActionNode{
		Kind:     model.ActionEventHandler,
		Target:   "#" + id,
		Event:    name[2:],
		Summary:  condense(s.attrValue(attr)),
		Location: s.ctx.Location(attr),
	})
}
