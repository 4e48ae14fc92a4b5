package rule

import (
	"gormwatch/internal/javasrc"
)

// Type is the result of approximate receiver resolution: a declared type
// name, or Unknown when no syntactic evidence is available. Unknown never
// classifies as an entity.
type Type struct {
	Name string
}

var Unknown = Type{}

func (t Type) IsUnknown() bool { return t.Name == "" }

// TypeIndex is the host-provided type table: class lookup by name and the
// transitive interface closure per type.
type TypeIndex interface {
	LookupClass(name string) (*javasrc.Class, bool)
	InterfacesOf(name string) []string
}

// Resolver determines the declared type of a receiver expression using only
// locally available syntactic information. No full type inference: resolution
// gaps yield Unknown rather than a guess.
type Resolver struct {
	index TypeIndex
}

func NewResolver(index TypeIndex) *Resolver {
	return &Resolver{index: index}
}

// Resolve evaluates the receiver shape rules in order, first match wins.
func (r *Resolver) Resolve(expr javasrc.Expr, current *javasrc.Class) Type {
	if expr == nil {
		return Unknown
	}

	// Generated code carries no real position and is never resolved.
	if expr.Position().Synthetic() {
		return Unknown
	}

	switch e := expr.(type) {
	case *javasrc.VarRef:
		if e.DeclType != "" {
			return Type{Name: e.DeclType}
		}
		// A bare identifier that is no local or parameter may still be an
		// implicit field reference on the current class.
		if current != nil {
			if typ, ok := current.FieldType(e.Name); ok {
				return Type{Name: typ}
			}
		}
		return Unknown

	case *javasrc.FieldAccess:
		return r.resolveFieldAccess(e, current)

	case *javasrc.CallExpr:
		return r.resolveChainedCall(e, current)

	case *javasrc.StaticCallExpr:
		return r.methodReturn(e.Owner, e.Name)

	case *javasrc.ClassLit:
		return Type{Name: e.Name}

	case *javasrc.Other:
		if e.StaticType != "" {
			return Type{Name: e.StaticType}
		}
		return Unknown
	}

	return Unknown
}

func (r *Resolver) resolveFieldAccess(e *javasrc.FieldAccess, current *javasrc.Class) Type {
	switch obj := e.Object.(type) {
	case *javasrc.VarRef:
		if obj.Name == "this" && current != nil {
			// A self-reference to a field that does not exist is malformed
			// input; resolution fails for this node only.
			typ, ok := current.FieldType(e.Field)
			if !ok {
				return Unknown
			}
			return Type{Name: typ}
		}
		if obj.DeclType != "" {
			return Type{Name: obj.DeclType}
		}
		return Unknown

	case *javasrc.ClassLit:
		holder, ok := r.index.LookupClass(obj.Name)
		if !ok {
			return Unknown
		}
		typ, ok := holder.FieldType(e.Field)
		if !ok {
			return Unknown
		}
		return Type{Name: typ}

	default:
		if obj == nil {
			return Unknown
		}
		if other, ok := obj.(*javasrc.Other); ok && other.StaticType != "" {
			return Type{Name: other.StaticType}
		}
		return Unknown
	}
}

// resolveChainedCall handles a call used as a receiver, e.g. the m() in
// a.m().n(): the resolved type is m's declared return type. Method lookup is
// by name only; among overloads the first declaration wins.
func (r *Resolver) resolveChainedCall(e *javasrc.CallExpr, current *javasrc.Class) Type {
	sub, ok := e.Receiver.(*javasrc.VarRef)
	if !ok {
		// Unrecognized sub-receiver shapes are left unresolved.
		return Unknown
	}

	if sub.Name == "this" && current != nil {
		typ, found := current.MethodReturn(e.Name)
		if !found {
			return Unknown
		}
		return Type{Name: typ}
	}

	if sub.DeclType != "" {
		return r.methodReturn(sub.DeclType, e.Name)
	}
	return Unknown
}

// methodReturn resolves the declared return type of the first method with the
// given name on the named type.
func (r *Resolver) methodReturn(typeName, methodName string) Type {
	cls, ok := r.index.LookupClass(typeName)
	if !ok {
		return Unknown
	}
	typ, ok := cls.MethodReturn(methodName)
	if !ok || typ == "" {
		return Unknown
	}
	return Type{Name: typ}
}
