package modelir

// Union resolution modes understood by the external validation engine.
const (
	UnionSmart       = "smart"
	UnionLeftToRight = "left_to_right"
)

// Defaults is the table of process-wide option defaults consulted by the
// field-metadata builder when an option was not explicitly set. It is a plain
// value constructed once at startup and threaded as a parameter; it is never
// read through ambient global state and must not be mutated after handoff.
type Defaults struct {
	// PopulateByName allows validation input to address fields by their
	// declared name even when a validation alias is present.
	PopulateByName bool
	// Strict disables input coercion in the external engine for fields that
	// do not set their own strictness flag.
	Strict bool
	// UnionMode selects how the external engine resolves untagged unions.
	UnionMode string
	// FailFast stops the external engine at the first issue per field.
	FailFast bool
}

// DefaultValues returns the stock defaults table.
func DefaultValues() Defaults {
	return Defaults{UnionMode: UnionSmart}
}
