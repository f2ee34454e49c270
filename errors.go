package modelir

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Construction errors: fatal, raised while a model is being compiled.
	CodeDefaultConflict    = "default_conflict"
	CodeForbiddenQualifier = "forbidden_qualifier"
	CodeConstraintMismatch = "constraint_mismatch"
	CodeComputedOverride   = "computed_override"
	CodeInvalidDeclaration = "invalid_declaration"
	CodeUnknownOption      = "unknown_option"

	// Legacy option handling. Removed options are fatal; deprecated options
	// are translated and reported through Warnings.
	CodeRemovedKwargs    = "removed-kwargs"
	CodeDeprecatedKwargs = "deprecated-kwargs"

	// Non-fatal merge diagnostics reported through Warnings.
	CodeExtraMergeConflict = "extra_merge_conflict"

	// Reference tracking. unresolved_reference is recoverable: the model
	// stays Incomplete until a rebuild supplies the missing names.
	CodeUnresolvedReference = "unresolved_reference"
	CodeSchemaIncomplete    = "schema_incomplete"
)

// Issue represents a single compilation diagnostic.
type Issue struct {
	Path    string // JSON Pointer into the declaration (for example: /fields/price).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, offending option names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"option":"regex"}) for
	// i18n and observability.
	Params map[string]any
}

// Issues is a collection of compilation diagnostics that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. constraint_mismatch at /fields/price
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// HasCode reports whether any issue in the collection carries the given code.
func (iss Issues) HasCode(code string) bool {
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// Rebase prefixes every issue path with base so child diagnostics surface
// under the owning field (e.g. "/fields/price").
func (iss Issues) Rebase(base string) Issues {
	if len(iss) == 0 || base == "" {
		return iss
	}
	out := make(Issues, 0, len(iss))
	for _, it := range iss {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out = append(out, it)
	}
	return out
}
