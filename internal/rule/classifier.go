package rule

// DefaultMarkerInterface is the qualified name of the GORM entity marker
// capability. A type is an entity exactly when a marker appears by name in
// its transitive interface closure.
const DefaultMarkerInterface = "org.grails.datastore.gorm.GormEntityApi"

// Classifier decides whether a resolved type is a persistent entity.
// Classification is by declared interface implementation only; there is no
// structural fallback, and Unknown is never an entity.
type Classifier struct {
	index   TypeIndex
	markers map[string]bool
}

func NewClassifier(index TypeIndex, markers []string) *Classifier {
	c := &Classifier{
		index:   index,
		markers: make(map[string]bool, len(markers)+1),
	}
	if len(markers) == 0 {
		c.markers[DefaultMarkerInterface] = true
	}
	for _, m := range markers {
		if m != "" {
			c.markers[m] = true
		}
	}
	return c
}

func (c *Classifier) IsEntity(t Type) bool {
	if t.IsUnknown() {
		return false
	}
	for _, iface := range c.index.InterfacesOf(t.Name) {
		if c.markers[iface] {
			return true
		}
	}
	return false
}
