package javasrc

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ExtractUnit builds the class model for one parsed Java compilation unit.
func ExtractUnit(root *sitter.Node, source []byte, path string) (*Unit, error) {
	unit := &Unit{
		Path:     path,
		Imports:  make(map[string]string),
		ParsedAt: time.Now(),
	}

	ctx := &ExtractionContext{Source: source, Unit: unit}
	ex := &extractor{ctx: ctx}

	engine := NewExtractorEngine(map[string]NodeHandler{
		"package_declaration":   ex.extractPackage,
		"import_declaration":    ex.extractImport,
		"class_declaration":     ex.extractTopLevelClass,
		"interface_declaration": ex.extractTopLevelInterface,
	})
	engine.Walk(ctx, root)

	return unit, nil
}

type extractor struct {
	ctx *ExtractionContext
}

// scope maps names of locals and parameters to their declared types within
// one method body. Block scoping is flattened; the last declaration of a
// name wins. Control-flow narrowing is out of scope.
type scope map[string]string

func (ex *extractor) extractPackage(ctx *ExtractionContext, node *sitter.Node) bool {
	name := ctx.ChildText(node, "scoped_identifier")
	if name == "" {
		name = ctx.ChildText(node, "identifier")
	}
	ctx.Unit.Package = name
	return true
}

func (ex *extractor) extractImport(ctx *ExtractionContext, node *sitter.Node) bool {
	// Star and static imports carry no usable simple-name binding.
	for i := uint(0); i < node.ChildCount(); i++ {
		kind := node.Child(i).Kind()
		if kind == "asterisk" || kind == "static" {
			return true
		}
	}

	fqn := ctx.ChildText(node, "scoped_identifier")
	if fqn == "" {
		fqn = ctx.ChildText(node, "identifier")
	}
	if fqn == "" {
		return true
	}

	simple := fqn
	if idx := strings.LastIndexByte(fqn, '.'); idx >= 0 {
		simple = fqn[idx+1:]
	}
	ctx.Unit.Imports[simple] = fqn
	return true
}

func (ex *extractor) extractTopLevelClass(ctx *ExtractionContext, node *sitter.Node) bool {
	if cls := ex.extractClass(node, ctx.Unit.Package, false); cls != nil {
		ctx.Unit.Classes = append(ctx.Unit.Classes, cls)
	}
	return true
}

func (ex *extractor) extractTopLevelInterface(ctx *ExtractionContext, node *sitter.Node) bool {
	if cls := ex.extractClass(node, ctx.Unit.Package, true); cls != nil {
		ctx.Unit.Classes = append(ctx.Unit.Classes, cls)
	}
	return true
}

func (ex *extractor) extractClass(node *sitter.Node, qualifier string, isInterface bool) *Class {
	ctx := ex.ctx

	name := ctx.Text(node.ChildByFieldName("name"))
	if name == "" {
		return nil
	}

	qualified := name
	if qualifier != "" {
		qualified = qualifier + "." + name
	}

	cls := &Class{
		Name:          name,
		QualifiedName: qualified,
		IsInterface:   isInterface,
		Pos:           ctx.Location(node),
	}

	if super := node.ChildByFieldName("superclass"); super != nil {
		cls.Superclass = ex.firstTypeName(super)
	}
	if ifaces := node.ChildByFieldName("interfaces"); ifaces != nil {
		cls.Interfaces = append(cls.Interfaces, ex.typeListNames(ifaces)...)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child.Kind() == "extends_interfaces" {
			cls.Interfaces = append(cls.Interfaces, ex.typeListNames(child)...)
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return cls
	}

	for i := uint(0); i < body.ChildCount(); i++ {
		member := body.Child(i)
		switch member.Kind() {
		case "field_declaration", "constant_declaration":
			ex.extractFields(cls, member)
		case "method_declaration":
			ex.extractMethod(cls, member)
		case "constructor_declaration":
			ex.extractConstructor(cls, member)
		case "static_initializer", "block":
			ex.collectCalls(cls, member, scope{})
		case "class_declaration":
			if nested := ex.extractClass(member, qualified, false); nested != nil {
				cls.Nested = append(cls.Nested, nested)
			}
		case "interface_declaration":
			if nested := ex.extractClass(member, qualified, true); nested != nil {
				cls.Nested = append(cls.Nested, nested)
			}
		}
	}

	return cls
}

func (ex *extractor) extractFields(cls *Class, node *sitter.Node) {
	typ := ex.typeText(node.ChildByFieldName("type"))
	if typ == "" {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "variable_declarator" {
			continue
		}
		name := ex.ctx.Text(child.ChildByFieldName("name"))
		if name == "" {
			continue
		}
		cls.Fields = append(cls.Fields, Field{
			Name: name,
			Type: typ,
			Pos:  ex.ctx.Location(child),
		})
		if value := child.ChildByFieldName("value"); value != nil {
			ex.collectCalls(cls, value, scope{})
		}
	}
}

func (ex *extractor) extractMethod(cls *Class, node *sitter.Node) {
	name := ex.ctx.Text(node.ChildByFieldName("name"))
	if name == "" {
		return
	}

	cls.Methods = append(cls.Methods, Method{
		Name:       name,
		ReturnType: ex.typeText(node.ChildByFieldName("type")),
		Pos:        ex.ctx.Location(node),
	})

	sc := scope{}
	ex.collectParameters(sc, node.ChildByFieldName("parameters"))
	if body := node.ChildByFieldName("body"); body != nil {
		ex.collectCalls(cls, body, sc)
	}
}

func (ex *extractor) extractConstructor(cls *Class, node *sitter.Node) {
	sc := scope{}
	ex.collectParameters(sc, node.ChildByFieldName("parameters"))
	if body := node.ChildByFieldName("body"); body != nil {
		ex.collectCalls(cls, body, sc)
	}
}

func (ex *extractor) collectParameters(sc scope, params *sitter.Node) {
	if params == nil {
		return
	}
	for i := uint(0); i < params.ChildCount(); i++ {
		param := params.Child(i)
		kind := param.Kind()
		if kind != "formal_parameter" && kind != "spread_parameter" {
			continue
		}
		name := ex.ctx.Text(param.ChildByFieldName("name"))
		typ := ex.typeText(param.ChildByFieldName("type"))
		if name != "" && typ != "" {
			sc[name] = typ
		}
	}
}

// collectCalls walks a body subtree in textual order, recording local
// declarations into the scope and appending every method invocation to the
// class's call list. Chained receivers are emitted before their inner calls,
// matching pre-order visitation.
func (ex *extractor) collectCalls(cls *Class, node *sitter.Node, sc scope) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "local_variable_declaration":
		typ := ex.typeText(node.ChildByFieldName("type"))
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child.Kind() != "variable_declarator" {
				continue
			}
			if name := ex.ctx.Text(child.ChildByFieldName("name")); name != "" && typ != "" {
				sc[name] = typ
			}
		}

	case "method_invocation":
		cls.Calls = append(cls.Calls, ex.callSite(cls, node, sc))

	case "class_declaration", "interface_declaration":
		// Local classes are not modeled; their bodies are skipped.
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		ex.collectCalls(cls, node.Child(i), sc)
	}
}

func (ex *extractor) callSite(cls *Class, node *sitter.Node, sc scope) CallSite {
	ctx := ex.ctx
	name := ctx.Text(node.ChildByFieldName("name"))
	pos := ctx.Location(node)
	object := node.ChildByFieldName("object")

	if object == nil {
		return CallSite{
			Name:     name,
			Receiver: &VarRef{Name: "this", DeclType: cls.QualifiedName, Pos: pos},
			Pos:      pos,
		}
	}

	if object.Kind() == "identifier" {
		if ident := ctx.Text(object); ex.isTypeName(ident, sc) {
			return CallSite{
				Name:   name,
				Owner:  ident,
				Static: true,
				Pos:    pos,
			}
		}
	}

	return CallSite{
		Name:     name,
		Receiver: ex.toExpr(cls, object, sc),
		Pos:      pos,
	}
}

// toExpr lowers a receiver subtree into the closed expression variant set.
func (ex *extractor) toExpr(cls *Class, node *sitter.Node, sc scope) Expr {
	ctx := ex.ctx
	pos := ctx.Location(node)

	switch node.Kind() {
	case "identifier":
		name := ctx.Text(node)
		if typ, ok := sc[name]; ok {
			return &VarRef{Name: name, DeclType: typ, Pos: pos}
		}
		if ex.isTypeName(name, sc) {
			return &ClassLit{Name: name, Pos: pos}
		}
		return &VarRef{Name: name, Pos: pos}

	case "this":
		return &VarRef{Name: "this", DeclType: cls.QualifiedName, Pos: pos}

	case "field_access":
		object := node.ChildByFieldName("object")
		field := ctx.Text(node.ChildByFieldName("field"))
		if object == nil || field == "" {
			return &Other{Pos: pos}
		}
		return &FieldAccess{
			Object: ex.toExpr(cls, object, sc),
			Field:  field,
			Pos:    pos,
		}

	case "method_invocation":
		name := ctx.Text(node.ChildByFieldName("name"))
		object := node.ChildByFieldName("object")
		if object == nil {
			return &CallExpr{
				Name:     name,
				Receiver: &VarRef{Name: "this", DeclType: cls.QualifiedName, Pos: pos},
				Pos:      pos,
			}
		}
		if object.Kind() == "identifier" {
			if ident := ctx.Text(object); ex.isTypeName(ident, sc) {
				return &StaticCallExpr{Owner: ident, Name: name, Pos: pos}
			}
		}
		return &CallExpr{
			Name:     name,
			Receiver: ex.toExpr(cls, object, sc),
			Pos:      pos,
		}

	case "object_creation_expression":
		return &Other{StaticType: ex.typeText(node.ChildByFieldName("type")), Pos: pos}

	case "cast_expression":
		return &Other{StaticType: ex.typeText(node.ChildByFieldName("type")), Pos: pos}

	case "parenthesized_expression":
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			kind := child.Kind()
			if kind == "(" || kind == ")" {
				continue
			}
			return ex.toExpr(cls, child, sc)
		}
		return &Other{Pos: pos}

	case "string_literal":
		return &Other{StaticType: "java.lang.String", Pos: pos}

	default:
		return &Other{Pos: pos}
	}
}

// isTypeName reports whether a bare identifier in receiver position names a
// type rather than a variable: not in scope, and either explicitly imported
// or following the uppercase type naming convention.
func (ex *extractor) isTypeName(name string, sc scope) bool {
	if name == "" {
		return false
	}
	if _, ok := sc[name]; ok {
		return false
	}
	if _, ok := ex.ctx.Unit.Imports[name]; ok {
		return true
	}
	first, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(first)
}

// typeText returns the base name of a declared type, with type arguments and
// surrounding whitespace stripped. Generics resolution is out of scope.
func (ex *extractor) typeText(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return baseTypeName(ex.ctx.Text(node))
}

// firstTypeName extracts the type from a wrapper node such as `superclass`
// (the `extends Foo` clause), skipping keyword children.
func (ex *extractor) firstTypeName(node *sitter.Node) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "extends", "implements", ",":
			continue
		}
		return baseTypeName(ex.ctx.Text(child))
	}
	return ""
}

// typeListNames extracts all type names from a clause containing a type_list
// (`implements A, B` / `extends A, B`).
func (ex *extractor) typeListNames(node *sitter.Node) []string {
	var names []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := uint(0); i < n.ChildCount(); i++ {
			child := n.Child(i)
			switch child.Kind() {
			case "type_list":
				walk(child)
			case "extends", "implements", ",":
				continue
			default:
				if name := baseTypeName(ex.ctx.Text(child)); name != "" {
					names = append(names, name)
				}
			}
		}
	}
	walk(node)
	return names
}

func baseTypeName(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.IndexByte(text, '<'); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
