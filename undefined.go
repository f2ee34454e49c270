package modelir

// undefinedType is the type of the Undefined sentinel. It is unexported so
// the sentinel stays a singleton.
type undefinedType struct{}

func (undefinedType) String() string { return "modelir.Undefined" }

// Undefined marks the absence of a field default. It is distinct from nil:
// a field whose default is nil is optional with a null default, while a
// field whose default is Undefined (and that has no default factory) is
// required.
var Undefined any = undefinedType{}

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(undefinedType)
	return ok
}
