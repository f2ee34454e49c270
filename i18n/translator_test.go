package i18n

import "testing"

func TestTranslator_Languages(t *testing.T) {
	defer SetLanguage("en")

	if got := T("default_conflict", nil); got != "default and default_factory are mutually exclusive" {
		t.Fatalf("unexpected en message: %q", got)
	}
	SetLanguage("ja")
	if got := T("schema_incomplete", nil); got == "schema_incomplete" {
		t.Fatalf("expected ja translation, got code echo")
	}
	// Unknown codes echo the code itself.
	if got := T("no_such_code", nil); got != "no_such_code" {
		t.Fatalf("unexpected fallback: %q", got)
	}
}
