// # internal/model/semantics.go
package model

import "strings"

// Semantics is the facet derived purely from tag + attributes: the
// implicit ARIA role and whether the element is natively focusable.
type Semantics struct {
	ImplicitRole     string
	NativelyFocusable bool
}

var implicitRoleByTag = map[string]string{
	"a":        "link", // only with href, see DeriveSemantics
	"article":  "article",
	"aside":    "complementary",
	"button":   "button",
	"datalist": "listbox",
	"dialog":   "dialog",
	"fieldset": "group",
	"footer":   "contentinfo",
	"form":     "form",
	"h1":       "heading",
	"h2":       "heading",
	"h3":       "heading",
	"h4":       "heading",
	"h5":       "heading",
	"h6":       "heading",
	"header":   "banner",
	"hr":       "separator",
	"img":      "img",
	"li":       "listitem",
	"main":     "main",
	"menu":     "list",
	"nav":      "navigation",
	"ol":       "list",
	"option":   "option",
	"progress": "progressbar",
	"section":  "region",
	"select":   "combobox",
	"summary":  "button",
	"table":    "table",
	"tbody":    "rowgroup",
	"td":       "cell",
	"textarea": "textbox",
	"th":       "columnheader",
	"thead":    "rowgroup",
	"tr":       "row",
	"ul":       "list",
}

var implicitRoleByInputType = map[string]string{
	"button":   "button",
	"checkbox": "checkbox",
	"email":    "textbox",
	"image":    "button",
	"number":   "spinbutton",
	"radio":    "radio",
	"range":    "slider",
	"reset":    "button",
	"search":   "searchbox",
	"submit":   "button",
	"tel":      "textbox",
	"text":     "textbox",
	"url":      "textbox",
}

// Roles whose native host controls already handle keyboard activation.
var keyboardOperableRoles = map[string]bool{
	"button":     true,
	"checkbox":   true,
	"combobox":   true,
	"link":       true,
	"listbox":    true,
	"menuitem":   true,
	"option":     true,
	"radio":      true,
	"searchbox":  true,
	"slider":     true,
	"spinbutton": true,
	"textbox":    true,
}

var nativeInteractiveTags = map[string]bool{
	"button":   true,
	"details":  true,
	"input":    true,
	"select":   true,
	"summary":  true,
	"textarea": true,
}

// DeriveSemantics computes the semantic facet for a tag + attribute
// set. Pure; called once at element construction.
func DeriveSemantics(tag string, attrs []Attr) Semantics {
	tag = strings.ToLower(tag)
	get := func(name string) (string, bool) {
		for _, a := range attrs {
			if a.Name == name {
				return a.Value, true
			}
		}
		return "", false
	}

	role := ""
	switch tag {
	case "a":
		if _, ok := get("href"); ok {
			role = "link"
		}
	case "input":
		typ, _ := get("type")
		typ = strings.ToLower(typ)
		if typ == "" {
			typ = "text"
		}
		if r, ok := implicitRoleByInputType[typ]; ok {
			role = r
		}
	default:
		role = implicitRoleByTag[tag]
	}

	focusable := false
	switch tag {
	case "a":
		_, focusable = get("href")
	case "button", "input", "select", "textarea", "summary":
		_, disabled := get("disabled")
		focusable = !disabled
	}
	if v, ok := get("tabindex"); ok && strings.TrimSpace(v) != "" && !strings.HasPrefix(strings.TrimSpace(v), "-") {
		focusable = true
	}
	if _, ok := get("contenteditable"); ok {
		focusable = true
	}

	return Semantics{ImplicitRole: role, NativelyFocusable: focusable}
}

// KeyboardOperable reports whether an element's native host control
// already provides keyboard activation, so a click handler on it does
// not need an explicit key handler.
func KeyboardOperable(e *Element) bool {
	if e == nil {
		return false
	}
	if nativeInteractiveTags[strings.ToLower(e.Tag)] {
		return true
	}
	if strings.ToLower(e.Tag) == "a" && e.HasAttr("href") {
		return true
	}
	// Explicit roles do not bring native keyboard behavior with them;
	// only implicit (host-provided) semantics count here.
	return keyboardOperableRoles[e.Semantic.ImplicitRole] && e.Semantic.NativelyFocusable
}
