package rule

import (
	"gormwatch/internal/javasrc"
)

// Message is the fixed diagnostic text for every finding.
const Message = "Calling entity persistence methods is forbidden"

// Violation is one finding: the fixed message and the offending call's
// position. Formatting and reporting belong to the caller.
type Violation struct {
	Message string
	Path    string
	Pos     javasrc.Pos
}

// Matcher is a pure decision function over one call site: name-table
// membership plus receiver classification. It reads the current class
// context and mutates nothing.
type Matcher struct {
	names      *NameTables
	resolver   *Resolver
	classifier *Classifier
}

func NewMatcher(names *NameTables, resolver *Resolver, classifier *Classifier) *Matcher {
	return &Matcher{names: names, resolver: resolver, classifier: classifier}
}

// Check decides whether a call site violates the rule. Plain calls are
// tested against both name sets, since call style alone does not reveal
// which set was meant; owner-qualified calls only against the static set.
func (m *Matcher) Check(call javasrc.CallSite, path string, current *javasrc.Class) (Violation, bool) {
	var receiver javasrc.Expr
	if call.Static {
		if !m.names.Static(call.Name) {
			return Violation{}, false
		}
		receiver = &javasrc.ClassLit{Name: call.Owner, Pos: call.Pos}
	} else {
		if !m.names.Instance(call.Name) && !m.names.Static(call.Name) {
			return Violation{}, false
		}
		receiver = call.Receiver
	}

	t := m.resolver.Resolve(receiver, current)
	if !m.classifier.IsEntity(t) {
		return Violation{}, false
	}

	return Violation{
		Message: Message,
		Path:    path,
		Pos:     call.Pos,
	}, true
}
