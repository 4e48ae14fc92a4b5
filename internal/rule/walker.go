package rule

import (
	"gormwatch/internal/javasrc"
)

// Sink receives findings in visitation order.
type Sink func(Violation)

// Walker drives the matcher over a compilation unit: classes in declaration
// order, calls in textual order within each class body. The class context is
// threaded as an explicit parameter, so nested classes naturally restore the
// outer context on return and the walk is reentrant-safe.
type Walker struct {
	matcher *Matcher
}

func NewWalker(matcher *Matcher) *Walker {
	return &Walker{matcher: matcher}
}

// Walk checks every call of every class in the unit. A single call whose
// resolution fails never aborts the walk; the remaining calls are still
// visited. Running Walk twice over an unchanged unit yields the identical
// ordered findings.
func (w *Walker) Walk(unit *javasrc.Unit, sink Sink) {
	for _, cls := range unit.Classes {
		w.walkClass(unit.Path, cls, sink)
	}
}

func (w *Walker) walkClass(path string, cls *javasrc.Class, sink Sink) {
	for _, call := range cls.Calls {
		if v, ok := w.matcher.Check(call, path, cls); ok {
			sink(v)
		}
	}
	for _, nested := range cls.Nested {
		w.walkClass(path, nested, sink)
	}
}
