// Package index maintains the project-wide type table built from parsed
// compilation units: class lookups by simple or qualified name and the
// transitive interface closure used for entity classification.
package index

import (
	"sort"
	"strings"
	"sync"

	"gormwatch/internal/javasrc"
)

type entry struct {
	class      *javasrc.Class
	path       string
	superclass string   // expanded through the declaring unit's imports
	interfaces []string // expanded through the declaring unit's imports
}

type Index struct {
	mu      sync.RWMutex
	types   map[string]*entry   // qualified name -> entry
	simple  map[string][]string // simple name -> qualified names, sorted
	byPath  map[string][]string // unit path -> contributed qualified names
}

func New() *Index {
	return &Index{
		types:  make(map[string]*entry),
		simple: make(map[string][]string),
		byPath: make(map[string][]string),
	}
}

// AddUnit registers every class of a unit, replacing whatever the same path
// contributed before. Declared super type names are expanded to qualified
// names through the unit's import table where possible; names that cannot be
// expanded are kept as written.
func (ix *Index) AddUnit(unit *javasrc.Unit) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.removeLocked(unit.Path)

	var add func(cls *javasrc.Class)
	add = func(cls *javasrc.Class) {
		e := &entry{
			class:      cls,
			path:       unit.Path,
			superclass: expandName(unit, cls.Superclass),
		}
		for _, iface := range cls.Interfaces {
			e.interfaces = append(e.interfaces, expandName(unit, iface))
		}

		ix.types[cls.QualifiedName] = e
		ix.byPath[unit.Path] = append(ix.byPath[unit.Path], cls.QualifiedName)
		ix.addSimple(cls.Name, cls.QualifiedName)

		for _, nested := range cls.Nested {
			add(nested)
		}
	}

	for _, cls := range unit.Classes {
		add(cls)
	}
}

// RemoveUnit drops a path's contribution, used when a watched file is deleted.
func (ix *Index) RemoveUnit(path string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.removeLocked(path)
}

func (ix *Index) removeLocked(path string) {
	for _, qualified := range ix.byPath[path] {
		e, ok := ix.types[qualified]
		if !ok || e.path != path {
			continue
		}
		delete(ix.types, qualified)
		ix.dropSimple(e.class.Name, qualified)
	}
	delete(ix.byPath, path)
}

// LookupClass resolves a type name, qualified or simple, to its declaration.
// Ambiguous simple names resolve to the lexicographically first qualified
// name for determinism.
func (ix *Index) LookupClass(name string) (*javasrc.Class, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if e, ok := ix.types[name]; ok {
		return e.class, true
	}
	if candidates := ix.simple[name]; len(candidates) > 0 {
		if e, ok := ix.types[candidates[0]]; ok {
			return e.class, true
		}
	}
	return nil, false
}

// InterfacesOf returns the full transitive set of interface names a type
// implements, sorted. Declared interface names appear in the set even when
// their declarations are not in the index, so classification by a marker
// interface works without the marker's source on disk. Unknown superclasses
// contribute nothing. Cycles terminate.
func (ix *Index) InterfacesOf(name string) []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	set := make(map[string]bool)
	seen := make(map[string]bool)
	ix.closureLocked(name, set, seen)

	out := make([]string, 0, len(set))
	for iface := range set {
		out = append(out, iface)
	}
	sort.Strings(out)
	return out
}

func (ix *Index) closureLocked(name string, set, seen map[string]bool) {
	if name == "" || seen[name] {
		return
	}
	seen[name] = true

	e := ix.types[name]
	if e == nil {
		if candidates := ix.simple[name]; len(candidates) > 0 {
			e = ix.types[candidates[0]]
		}
	}
	if e == nil {
		return
	}

	for _, iface := range e.interfaces {
		set[iface] = true
		ix.closureLocked(iface, set, seen)
	}
	ix.closureLocked(e.superclass, set, seen)
}

func (ix *Index) addSimple(simple, qualified string) {
	list := ix.simple[simple]
	for _, existing := range list {
		if existing == qualified {
			return
		}
	}
	list = append(list, qualified)
	sort.Strings(list)
	ix.simple[simple] = list
}

func (ix *Index) dropSimple(simple, qualified string) {
	list := ix.simple[simple]
	next := list[:0]
	for _, existing := range list {
		if existing != qualified {
			next = append(next, existing)
		}
	}
	if len(next) == 0 {
		delete(ix.simple, simple)
		return
	}
	ix.simple[simple] = next
}

// expandName turns a declared type name into a qualified name using the
// unit's imports, then its package. Already-qualified names pass through.
func expandName(unit *javasrc.Unit, name string) string {
	if name == "" || strings.ContainsRune(name, '.') {
		return name
	}
	if fqn, ok := unit.Imports[name]; ok {
		return fqn
	}
	if unit.Package != "" {
		return unit.Package + "." + name
	}
	return name
}
