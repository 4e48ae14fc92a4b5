package javasrc

import (
	"time"
)

// Unit is one parsed compilation unit (a single .java file).
type Unit struct {
	Path     string
	Package  string
	Imports  map[string]string // simple name -> fully qualified name
	Classes  []*Class          // declaration order
	ParsedAt time.Time
}

// Class is a class or interface declaration. Nested declarations keep their
// own field/method/call lists; calls made inside a nested body belong to the
// nested class.
type Class struct {
	Name          string
	QualifiedName string
	Superclass    string   // declared name as written, "" if none
	Interfaces    []string // declared names as written
	IsInterface   bool
	Fields        []Field  // declaration order
	Methods       []Method // declaration order
	Calls         []CallSite
	Nested        []*Class
	Pos           Pos
}

type Field struct {
	Name string
	Type string
	Pos  Pos
}

type Method struct {
	Name       string
	ReturnType string
	Pos        Pos
}

// CallSite is one method invocation found in a class body, in textual order.
// Static is true for owner-qualified calls (Owner names the type); otherwise
// Receiver holds the expression the call is made on.
type CallSite struct {
	Name     string
	Receiver Expr
	Owner    string
	Static   bool
	Pos      Pos
}

// Pos is a 1-based source position. Non-positive values mark synthetic
// nodes that did not originate from real source text.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) Synthetic() bool {
	return p.Line < 1 || p.Column < 1
}

// Expr is the closed set of receiver expression shapes the rule engine
// pattern-matches on.
type Expr interface {
	Position() Pos
}

// VarRef is a bare identifier. DeclType is the declared type when the name is
// bound to a local, parameter, or the literal "this"; empty otherwise.
type VarRef struct {
	Name     string
	DeclType string
	Pos      Pos
}

// FieldAccess is `object.field`.
type FieldAccess struct {
	Object Expr
	Field  string
	Pos    Pos
}

// CallExpr is a method invocation used as a receiver, e.g. the `a.m()` in
// `a.m().n()`. Receiver is nil-safe: implicit-this calls carry a VarRef.
type CallExpr struct {
	Name     string
	Receiver Expr
	Pos      Pos
}

// StaticCallExpr is an owner-qualified invocation used as a receiver,
// e.g. the `Pet.get(1)` in `Pet.get(1).save()`.
type StaticCallExpr struct {
	Owner string
	Name  string
	Pos   Pos
}

// ClassLit is a type name used in expression position (static member access).
type ClassLit struct {
	Name string
	Pos  Pos
}

// Other covers every remaining shape. StaticType carries the syntactically
// evident type where one exists (`new Pet()`, casts, string literals).
type Other struct {
	StaticType string
	Pos        Pos
}

func (e *VarRef) Position() Pos         { return e.Pos }
func (e *FieldAccess) Position() Pos    { return e.Pos }
func (e *CallExpr) Position() Pos       { return e.Pos }
func (e *StaticCallExpr) Position() Pos { return e.Pos }
func (e *ClassLit) Position() Pos       { return e.Pos }
func (e *Other) Position() Pos          { return e.Pos }

// FieldType returns the declared type of a field on this class.
func (c *Class) FieldType(name string) (string, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return "", false
}

// MethodReturn returns the return type of the first declared method with the
// given name. Overloads are not disambiguated; the first declaration wins.
func (c *Class) MethodReturn(name string) (string, bool) {
	for _, m := range c.Methods {
		if m.Name == name {
			return m.ReturnType, true
		}
	}
	return "", false
}
