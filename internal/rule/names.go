// Package rule implements the entity-persistence call check: name tables,
// the approximate receiver type resolver, the entity classifier, the call
// matcher, and the walker that drives them over a compilation unit.
package rule

// The two fixed sets of method names treated as entity persistence
// operations. Instance-style names are invoked on an entity instance,
// static-style names on the entity class itself.

var instanceMethodNames = map[string]bool{
	"instanceOf":             true,
	"lock":                   true,
	"mutex":                  true,
	"refresh":                true,
	"save":                   true,
	"insert":                 true,
	"merge":                  true,
	"ident":                  true,
	"attach":                 true,
	"isAttached":             true,
	"discard":                true,
	"delete":                 true,
	"isDirty":                true,
	"getDirtyPropertyNames":  true,
	"getPersistentValue":     true,
	"getAssociationId":       true,
	"removeFrom":             true,
	"addTo":                  true,
}

var staticMethodNames = map[string]bool{
	"getGormPersistentEntity": true,
	"getGormDynamicFinders":   true,
	"where":                   true,
	"whereLazy":               true,
	"whereAny":                true,
	"findAll":                 true,
	"find":                    true,
	"saveAll":                 true,
	"deleteAll":               true,
	"create":                  true,
	"get":                     true,
	"read":                    true,
	"load":                    true,
	"proxy":                   true,
	"getAll":                  true,
	"createCriteria":          true,
	"withCriteria":            true,
	"lock":                    true,
	"merge":                   true,
	"count":                   true,
	"getCount":                true,
	"exists":                  true,
	"list":                    true,
	"first":                   true,
	"last":                    true,
	"findAllWhere":            true,
	"findWhere":               true,
	"findOrCreateWhere":       true,
	"withSession":             true,
	"withDatastoreSession":    true,
	"withNewTransaction":      true,
	"withTransaction":         true,
	"withNewSession":          true,
	"withStatelessSession":    true,
	"executeQuery":            true,
	"executeUpdate":           true,
	"getNamedQuery":           true,
}

// NameTables answers membership of a method name in the instance and static
// operation sets. Config may extend either set; the built-in names are fixed.
type NameTables struct {
	instance map[string]bool
	static   map[string]bool
}

func NewNameTables(extraInstance, extraStatic []string) *NameTables {
	t := &NameTables{
		instance: make(map[string]bool, len(instanceMethodNames)+len(extraInstance)),
		static:   make(map[string]bool, len(staticMethodNames)+len(extraStatic)),
	}
	for name := range instanceMethodNames {
		t.instance[name] = true
	}
	for name := range staticMethodNames {
		t.static[name] = true
	}
	for _, name := range extraInstance {
		if name != "" {
			t.instance[name] = true
		}
	}
	for _, name := range extraStatic {
		if name != "" {
			t.static[name] = true
		}
	}
	return t
}

func (t *NameTables) Instance(name string) bool { return t.instance[name] }
func (t *NameTables) Static(name string) bool   { return t.static[name] }
