package typeexpr

import "strings"

// Qualifier is a bit set of declaration qualifiers hoisted off the outer
// syntactic form of an attribute annotation.
type Qualifier uint8

const (
	QualFinal Qualifier = 1 << iota
	QualInitOnly
	QualKeywordOnly
	// QualUnresolved marks a descriptor whose expression referenced a name
	// that was not in scope at inspection time.
	QualUnresolved
)

// Has reports whether all bits of q2 are present in q.
func (q Qualifier) Has(q2 Qualifier) bool { return q&q2 == q2 }

func (q Qualifier) String() string {
	var parts []string
	if q.Has(QualFinal) {
		parts = append(parts, "final")
	}
	if q.Has(QualInitOnly) {
		parts = append(parts, "init-only")
	}
	if q.Has(QualKeywordOnly) {
		parts = append(parts, "keyword-only")
	}
	if q.Has(QualUnresolved) {
		parts = append(parts, "unresolved")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}
