package selector

import (
	"testing"

	"a11ylint/internal/core/errors"
	"a11ylint/internal/model"
)

func mustParse(t *testing.T, raw string) *Selector {
	t.Helper()
	sel, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse(%q): %v", raw, err)
	}
	return sel
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"  ",
		"div >",
		"> div",
		"div[role",
		"::before",
		":nth-child(2)",
		"a ~ b",
		"div, ,span",
		"[class^=btn]",
	}
	for _, raw := range cases {
		if _, err := Parse(raw); err == nil {
			t.Errorf("Parse(%q): expected error", raw)
		} else if !errors.IsCode(err, errors.CodeMalformedSelector) {
			t.Errorf("Parse(%q): expected MALFORMED_SELECTOR, got %v", raw, err)
		}
	}
}

func TestSpecificity(t *testing.T) {
	cases := []struct {
		raw  string
		want model.Specificity
	}{
		{"div", model.Specificity{0, 0, 1}},
		{".btn", model.Specificity{0, 1, 0}},
		{"#main", model.Specificity{1, 0, 0}},
		{"div.btn#main", model.Specificity{1, 1, 1}},
		{"ul > li.active", model.Specificity{0, 1, 2}},
		{"button:focus", model.Specificity{0, 1, 1}},
		{"div:not(.hidden)", model.Specificity{0, 1, 1}},
		{`[role="tab"]`, model.Specificity{0, 1, 0}},
		// List specificity is the strongest alternative.
		{"div, #main", model.Specificity{1, 0, 0}},
	}
	for _, tc := range cases {
		got := ComputeSpecificity(mustParse(t, tc.raw))
		if got != tc.want {
			t.Errorf("ComputeSpecificity(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestExactKey(t *testing.T) {
	cases := []struct {
		raw   string
		key   string
		exact bool
	}{
		{"#main", "#main", true},
		{".btn", ".btn", true},
		{"button", "button", true},
		{`[role="tab"]`, `[role="tab"]`, true},
		{"div.btn", "", false},
		{"div span", "", false},
		{"div, span", "", false},
		{"button:focus", "", false},
		{"[disabled]", "", false},
	}
	for _, tc := range cases {
		key, ok := ExactKey(mustParse(t, tc.raw))
		if ok != tc.exact || key != tc.key {
			t.Errorf("ExactKey(%q) = (%q, %v), want (%q, %v)", tc.raw, key, ok, tc.key, tc.exact)
		}
	}
}

// buildTree constructs <div id="root" class="outer"><ul><li class="item"/>
// <li class="item active" id="second"/></ul><button disabled/></div>.
func buildTree() *model.Element {
	el := func(tag string, attrs ...model.Attr) *model.Element {
		return &model.Element{Tag: tag, Attrs: attrs, Semantic: model.DeriveSemantics(tag, attrs)}
	}
	root := el("div", model.Attr{Name: "id", Value: "root"}, model.Attr{Name: "class", Value: "outer"})
	list := el("ul")
	first := el("li", model.Attr{Name: "class", Value: "item"})
	second := el("li", model.Attr{Name: "class", Value: "item active"}, model.Attr{Name: "id", Value: "second"})
	btn := el("button", model.Attr{Name: "disabled", Value: ""})

	attach := func(parent *model.Element, children ...*model.Element) {
		for _, c := range children {
			c.Parent = parent
			parent.Children = append(parent.Children, c)
		}
	}
	attach(root, list, btn)
	attach(list, first, second)
	return root
}

func findByID(root *model.Element, id string) *model.Element {
	var found *model.Element
	root.Walk(func(e *model.Element) {
		if e.DOMID() == id {
			found = e
		}
	})
	return found
}

func TestMatches(t *testing.T) {
	root := buildTree()
	second := findByID(root, "second")
	button := root.Children[1]
	firstLi := root.Children[0].Children[0]

	cases := []struct {
		raw  string
		e    *model.Element
		want bool
	}{
		{"li", second, true},
		{".active", second, true},
		{".item.active", second, true},
		{"#second", second, true},
		{"#root", second, false},
		{"div li", second, true},
		{"div > li", second, false},
		{"ul > li", second, true},
		{"li + li", second, true},
		{"li + li", firstLi, false},
		{".outer .item", second, true},
		{"button:disabled", button, true},
		{"li:disabled", second, false},
		{"li:not(.active)", firstLi, true},
		{"li:not(.active)", second, false},
		{"button:focus", button, true},
		{"[disabled]", button, true},
		{`[class="item active"]`, second, true},
		{"span, li", second, true},
	}
	for _, tc := range cases {
		got := Matches(mustParse(t, tc.raw), tc.e)
		if got != tc.want {
			t.Errorf("Matches(%q, <%s>) = %v, want %v", tc.raw, tc.e.Tag, got, tc.want)
		}
	}
}
