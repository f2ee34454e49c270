package modelir

import (
	"testing"

	"go.uber.org/zap"
)

func TestWarnings_OncePerCallSite(t *testing.T) {
	w := NewWarnings(zap.NewNop())
	for i := 0; i < 5; i++ {
		w.Warn(0, CodeDeprecatedKwargs, "same site")
	}
	if w.Count() != 1 {
		t.Fatalf("expected one warning, got %d", w.Count())
	}
	w.Warn(0, CodeDeprecatedKwargs, "different site")
	if w.Count() != 2 {
		t.Fatalf("expected two warnings, got %d", w.Count())
	}
}

func TestUndefined(t *testing.T) {
	if !IsUndefined(Undefined) {
		t.Fatalf("Undefined must satisfy IsUndefined")
	}
	if IsUndefined(nil) || IsUndefined(0) {
		t.Fatalf("nil and zero values are not Undefined")
	}
}

func TestIssues_Rebase(t *testing.T) {
	iss := Issues{{Path: "/", Code: CodeConstraintMismatch}, {Path: "/inner", Code: CodeDefaultConflict}}
	got := iss.Rebase("/fields/age")
	if got[0].Path != "/fields/age" || got[1].Path != "/fields/age/inner" {
		t.Fatalf("unexpected rebased paths: %v", got)
	}
}
