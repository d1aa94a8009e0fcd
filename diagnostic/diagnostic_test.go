package diagnostic

import (
	"strings"
	"testing"

	"github.com/gofhir/fshimport/ast"
)

func TestBuilder_BuildsDiagnostic(t *testing.T) {
	loc := ast.TextLocation{StartLine: 3, StartColumn: 1, EndLine: 3, EndColumn: 10}
	d := NewError().Msg("bad %s", "thing").In("a.fsh").At(loc).Build()

	if d.Level != LevelError {
		t.Errorf("Level = %q; want %q", d.Level, LevelError)
	}
	if d.Message != "bad thing" {
		t.Errorf("Message = %q; want %q", d.Message, "bad thing")
	}
	if d.File != "a.fsh" {
		t.Errorf("File = %q; want a.fsh", d.File)
	}
	if d.Location == nil || *d.Location != loc {
		t.Errorf("Location = %v; want %v", d.Location, loc)
	}
}

func TestDiagnostic_String(t *testing.T) {
	tests := []struct {
		name string
		d    Diagnostic
		want string
	}{
		{
			"message only",
			Diagnostic{Level: LevelWarn, Message: "careful"},
			"warn: careful",
		},
		{
			"with file",
			Diagnostic{Level: LevelError, Message: "broken", File: "a.fsh"},
			"error: broken (a.fsh)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.String(); got != tt.want {
				t.Errorf("String() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestDiagnostic_StringWithLocation(t *testing.T) {
	loc := ast.TextLocation{StartLine: 2, StartColumn: 9, EndLine: 2, EndColumn: 32}
	d := Diagnostic{Level: LevelError, Message: "broken", File: "a.fsh", Location: &loc}
	got := d.String()
	if !strings.Contains(got, "a.fsh") || !strings.Contains(got, "2:9") {
		t.Errorf("String() = %q; want file and location rendered", got)
	}
}

func TestCollectingSink_CollectsInOrderAndFilters(t *testing.T) {
	sink := NewCollectingSink()
	NewError().Msg("first").Emit(sink)
	NewWarning().Msg("second").Emit(sink)
	NewError().Msg("third").Emit(sink)

	all := sink.All()
	if len(all) != 3 || all[0].Message != "first" || all[2].Message != "third" {
		t.Fatalf("All() = %v", all)
	}
	if len(sink.Errors()) != 2 {
		t.Errorf("len(Errors()) = %d; want 2", len(sink.Errors()))
	}
	if len(sink.Warnings()) != 1 {
		t.Errorf("len(Warnings()) = %d; want 1", len(sink.Warnings()))
	}
}

func TestMaxDiagnosticsSink_CapsForwarding(t *testing.T) {
	inner := NewCollectingSink()
	capped := NewMaxDiagnosticsSink(inner, 2)
	for i := 0; i < 5; i++ {
		NewError().Msg("e").Emit(capped)
	}
	if len(inner.All()) != 2 {
		t.Errorf("len(inner.All()) = %d; want 2", len(inner.All()))
	}
}

func TestMaxDiagnosticsSink_ZeroMeansUnlimited(t *testing.T) {
	inner := NewCollectingSink()
	capped := NewMaxDiagnosticsSink(inner, 0)
	for i := 0; i < 5; i++ {
		NewError().Msg("e").Emit(capped)
	}
	if len(inner.All()) != 5 {
		t.Errorf("len(inner.All()) = %d; want 5", len(inner.All()))
	}
}

func TestBuilder_EmitToNilSinkIsSafe(t *testing.T) {
	NewInfo().Msg("nowhere").Emit(nil)
}

func TestStrictSink_PromotesWarningsOnly(t *testing.T) {
	inner := NewCollectingSink()
	strict := NewStrictSink(inner)

	NewWarning().Msg("was a warning").Emit(strict)
	NewError().Msg("already an error").Emit(strict)
	NewInfo().Msg("stays info").Emit(strict)

	all := inner.All()
	if len(all) != 3 {
		t.Fatalf("len(All()) = %d; want 3", len(all))
	}
	if all[0].Level != LevelError {
		t.Errorf("all[0].Level = %q; want the warning promoted to error", all[0].Level)
	}
	if all[1].Level != LevelError {
		t.Errorf("all[1].Level = %q; want error untouched", all[1].Level)
	}
	if all[2].Level != LevelInfo {
		t.Errorf("all[2].Level = %q; want info untouched", all[2].Level)
	}
}
