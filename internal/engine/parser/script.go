package parser

import (
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"a11ylint/internal/model"
)

// ScriptExtractor derives the behavior IR from JavaScript or
// TypeScript sources. Extraction is heuristic: it tracks element
// lookups bound to local variables, recognizes addEventListener and
// on*-property registrations, and summarizes each handler body while
// lifting focus, aria-state, DOM and tabindex effects into nested
// nodes. Everything it cannot resolve statically is dropped rather
// than guessed.
type ScriptExtractor struct {
	Dialect string
}

const activeElementVar = "\x00activeElement"

func (e *ScriptExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*model.SourceModel, error) {
	m := &model.SourceModel{Path: filePath, Dialect: e.Dialect}
	st := &scriptState{
		ctx:   &ExtractionContext{Source: source, Model: m},
		vars:  make(map[string]string),
		funcs: make(map[string]*sitter.Node),
	}

	// Named function declarations can be referenced before their
	// definition, so collect them before walking statements.
	st.collectFunctions(root)
	st.walk(root, &m.Actions, "", false)
	return m, nil
}

type scriptState struct {
	ctx   *ExtractionContext
	vars  map[string]string       // identifier -> selector (or activeElementVar)
	funcs map[string]*sitter.Node // function name -> declaration node
}

func (s *scriptState) collectFunctions(node *sitter.Node) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "function_declaration" {
			if name := s.ctx.ChildText(child, "identifier"); name != "" {
				s.funcs[name] = child
			}
		}
		s.collectFunctions(child)
	}
}

// walk lifts recognized effects into sink. self is the selector of the
// enclosing handler's element, delayed marks nodes inside a setTimeout
// callback.
func (s *scriptState) walk(node *sitter.Node, sink *[]*model.ActionNode, self string, delayed bool) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "variable_declarator":
		s.recordBinding(node)
		return
	case "call_expression":
		if s.liftCall(node, sink, self, delayed) {
			return
		}
	case "assignment_expression":
		if s.liftAssignment(node, sink, self, delayed) {
			return
		}
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		s.walk(node.Child(i), sink, self, delayed)
	}
}

func (s *scriptState) recordBinding(node *sitter.Node) {
	name := s.ctx.ChildText(node, "identifier")
	if name == "" {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		value := node.Child(i)
		switch value.Kind() {
		case "call_expression":
			if sel := s.selectorFromCall(value); sel != "" {
				s.vars[name] = sel
			}
		case "member_expression":
			if memberProperty(s.ctx, value) == "activeElement" {
				s.vars[name] = activeElementVar
			}
		}
	}
}

func (s *scriptState) liftCall(call *sitter.Node, sink *[]*model.ActionNode, self string, delayed bool) bool {
	fn := call.Child(0)
	if fn == nil {
		return false
	}

	if fn.Kind() == "identifier" && s.ctx.Text(fn) == "setTimeout" {
		cb := callbackArgument(call)
		if cb != nil && cb.Kind() == "identifier" {
			cb = s.funcs[s.ctx.Text(cb)]
		}
		if cb != nil {
			s.walk(functionBody(cb), sink, self, true)
		}
		return true
	}
	if fn.Kind() != "member_expression" {
		return false
	}

	object := fn.Child(0)
	prop := memberProperty(s.ctx, fn)
	args := childOfKind(call, "arguments")

	switch prop {
	case "addEventListener":
		event := firstStringArg(s.ctx, args)
		target := s.resolveTarget(object, self)
		if event == "" || target == "" {
			return true
		}
		*sink = append(*sink, s.buildHandler(call, target, event, callbackArgument(call)))
		return true

	case "focus":
		target := s.resolveTarget(object, self)
		restore := object != nil && object.Kind() == "identifier" &&
			s.vars[s.ctx.Text(object)] == activeElementVar
		if target == "" && !restore {
			return true
		}
		timing := model.FocusImmediate
		if delayed {
			timing = model.FocusDelayed
		}
		*sink = append(*sink, &model.ActionNode{
			Kind:            model.ActionFocusChange,
			Target:          target,
			Timing:          timing,
			RestorePrevious: restore,
			Location:        s.ctx.Location(call),
		})
		return true

	case "setAttribute":
		name := firstStringArg(s.ctx, args)
		target := s.resolveTarget(object, self)
		if name == "" || target == "" {
			return true
		}
		*sink = append(*sink, s.attributeChange(call, target, name, secondArgText(s.ctx, args)))
		return true

	case "removeAttribute":
		name := firstStringArg(s.ctx, args)
		target := s.resolveTarget(object, self)
		if target == "" || !strings.HasPrefix(name, "aria-") {
			return true
		}
		*sink = append(*sink, &model.ActionNode{
			Kind:        model.ActionAriaStateChange,
			Target:      target,
			Attr:        name,
			UpdateCount: 1,
			Location:    s.ctx.Location(call),
		})
		return true

	case "appendChild", "append", "prepend", "insertBefore":
		target := s.resolveTarget(object, self)
		if target == "" {
			return true
		}
		*sink = append(*sink, &model.ActionNode{
			Kind:     model.ActionDomManipulation,
			Op:       model.DomAdd,
			Target:   target,
			Location: s.ctx.Location(call),
		})
		return true

	case "remove", "removeChild":
		target := s.resolveTarget(object, self)
		if prop == "removeChild" && args != nil {
			for i := uint(0); i < args.ChildCount(); i++ {
				if t := s.resolveTarget(args.Child(i), self); t != "" {
					target = t
					break
				}
			}
		}
		if target == "" {
			return true
		}
		// Static analysis cannot tell where focus sits when the
		// removal runs, so removals are flagged as focus-impacting.
		*sink = append(*sink, &model.ActionNode{
			Kind:         model.ActionDomManipulation,
			Op:           model.DomRemove,
			Target:       target,
			AffectsFocus: true,
			Location:     s.ctx.Location(call),
		})
		return true
	}
	return false
}

func (s *scriptState) liftAssignment(assign *sitter.Node, sink *[]*model.ActionNode, self string, delayed bool) bool {
	left := assign.Child(0)
	if left == nil || left.Kind() != "member_expression" {
		return false
	}
	object := left.Child(0)
	prop := memberProperty(s.ctx, left)
	right := assign.Child(assign.ChildCount() - 1)

	if strings.HasPrefix(prop, "on") && len(prop) > 2 && isFunctionValue(right, s) {
		target := s.resolveTarget(object, self)
		if target == "" {
			return true
		}
		*sink = append(*sink, s.buildHandler(assign, target, prop[2:], right))
		return true
	}

	switch prop {
	case "tabIndex":
		target := s.resolveTarget(object, self)
		n, err := strconv.Atoi(strings.TrimSpace(s.ctx.Text(right)))
		if target == "" || err != nil {
			return true
		}
		*sink = append(*sink, &model.ActionNode{
			Kind:     model.ActionTabIndexChange,
			Target:   target,
			TabIndex: n,
			Location: s.ctx.Location(assign),
		})
		return true

	case "innerHTML", "textContent", "outerHTML":
		target := s.resolveTarget(object, self)
		if target == "" {
			return true
		}
		*sink = append(*sink, &model.ActionNode{
			Kind:     model.ActionDomManipulation,
			Op:       model.DomSetAttribute,
			Target:   target,
			Attr:     prop,
			Location: s.ctx.Location(assign),
		})
		return true
	}
	return false
}

func (s *scriptState) buildHandler(site *sitter.Node, target, event string, callback *sitter.Node) *model.ActionNode {
	handler := &model.ActionNode{
		Kind:     model.ActionEventHandler,
		Target:   target,
		Event:    event,
		Location: s.ctx.Location(site),
	}
	if callback != nil && callback.Kind() == "identifier" {
		callback = s.funcs[s.ctx.Text(callback)]
	}
	if callback == nil {
		return handler
	}
	handler.Async = strings.HasPrefix(s.ctx.Text(callback), "async")
	body := functionBody(callback)
	handler.Summary = condense(s.ctx.Text(body))
	s.walk(body, &handler.Children, target, false)
	return handler
}

func (s *scriptState) attributeChange(call *sitter.Node, target, name, value string) *model.ActionNode {
	if strings.HasPrefix(name, "aria-") {
		return &model.ActionNode{
			Kind:        model.ActionAriaStateChange,
			Target:      target,
			Attr:        name,
			NewValue:    value,
			UpdateCount: 1,
			Location:    s.ctx.Location(call),
		}
	}
	if name == "tabindex" {
		if n, err := strconv.Atoi(value); err == nil {
			return &model.ActionNode{
				Kind:     model.ActionTabIndexChange,
				Target:   target,
				TabIndex: n,
				Location: s.ctx.Location(call),
			}
		}
	}
	return &model.ActionNode{
		Kind:     model.ActionDomManipulation,
		Op:       model.DomSetAttribute,
		Target:   target,
		Attr:     name,
		NewValue: value,
		Location: s.ctx.Location(call),
	}
}

// resolveTarget maps an expression to the selector of the element it
// denotes, or "" when that cannot be determined statically.
func (s *scriptState) resolveTarget(node *sitter.Node, self string) string {
	if node == nil {
		return ""
	}
	switch node.Kind() {
	case "identifier":
		name := s.ctx.Text(node)
		if sel, ok := s.vars[name]; ok && sel != activeElementVar {
			return sel
		}
		return ""
	case "this":
		return self
	case "member_expression":
		switch memberProperty(s.ctx, node) {
		case "target", "currentTarget":
			return self
		case "body":
			return "body"
		}
		return ""
	case "call_expression":
		return s.selectorFromCall(node)
	case "parenthesized_expression":
		for i := uint(0); i < node.ChildCount(); i++ {
			if t := s.resolveTarget(node.Child(i), self); t != "" {
				return t
			}
		}
	}
	return ""
}

func (s *scriptState) selectorFromCall(call *sitter.Node) string {
	fn := call.Child(0)
	if fn == nil || fn.Kind() != "member_expression" {
		return ""
	}
	arg := firstStringArg(s.ctx, childOfKind(call, "arguments"))
	if arg == "" {
		return ""
	}
	switch memberProperty(s.ctx, fn) {
	case "querySelector", "querySelectorAll", "closest":
		return arg
	case "getElementById":
		return "#" + arg
	case "getElementsByClassName":
		return "." + arg
	case "getElementsByTagName":
		return arg
	}
	return ""
}

func memberProperty(ctx *ExtractionContext, member *sitter.Node) string {
	return ctx.ChildText(member, "property_identifier")
}

func callbackArgument(call *sitter.Node) *sitter.Node {
	args := childOfKind(call, "arguments")
	if args == nil {
		return nil
	}
	for i := uint(0); i < args.ChildCount(); i++ {
		child := args.Child(i)
		switch child.Kind() {
		case "arrow_function", "function_expression", "function", "identifier":
			return child
		}
	}
	return nil
}

func functionBody(fn *sitter.Node) *sitter.Node {
	if fn == nil {
		return nil
	}
	if body := childOfKind(fn, "statement_block"); body != nil {
		return body
	}
	// Expression-bodied arrow function.
	return fn.Child(fn.ChildCount() - 1)
}

func isFunctionValue(node *sitter.Node, s *scriptState) bool {
	if node == nil {
		return false
	}
	switch node.Kind() {
	case "arrow_function", "function_expression", "function":
		return true
	case "identifier":
		_, ok := s.funcs[s.ctx.Text(node)]
		return ok
	}
	return false
}

func firstStringArg(ctx *ExtractionContext, args *sitter.Node) string {
	if args == nil {
		return ""
	}
	for i := uint(0); i < args.ChildCount(); i++ {
		child := args.Child(i)
		if child.Kind() == "string" {
			return unquote(ctx.Text(child))
		}
	}
	return ""
}

func secondArgText(ctx *ExtractionContext, args *sitter.Node) string {
	if args == nil {
		return ""
	}
	seen := 0
	for i := uint(0); i < args.ChildCount(); i++ {
		child := args.Child(i)
		switch child.Kind() {
		case "(", ")", ",", "comment":
			continue
		}
		seen++
		if seen == 2 {
			return unquote(ctx.Text(child))
		}
	}
	return ""
}

func unquote(s string) string {
	return strings.Trim(s, "'\"`")
}

func condense(s string) string {
	fields := strings.Fields(s)
	out := strings.Join(fields, " ")
	if len(out) > 200 {
		out = out[:200] + "..."
	}
	return out
}
