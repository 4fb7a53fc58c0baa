package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/clawlang/clawls/internal/interpreter"
	"github.com/clawlang/clawls/internal/store"
)

func analyzeText(t *testing.T, text string) *store.Document {
	t.Helper()
	doc := store.NewDocument("file:///t.claw", "/t.claw", text, 2)
	Analyze(doc, interpreter.Globals())
	return doc
}

func rng(l1, c1, l2, c2 int) store.Range {
	return store.Range{
		Start: store.Position{Line: l1, Character: c1},
		End:   store.Position{Line: l2, Character: c2},
	}
}

// A top-level let binding resolves its initializer references and
// records the type of its own initializer.
func TestAnalyze_TopLevelSymbolResolution(t *testing.T) {
	doc := analyzeText(t, "let x = 42\nlet y = x\n")

	x, ok := doc.Symbols["x"]
	if !ok {
		t.Fatalf("expected symbol x")
	}
	if x.TypeName != "number" {
		t.Fatalf("expected x typeName number, got %s", x.TypeName)
	}
	if x.Def != rng(0, 4, 0, 5) {
		t.Fatalf("expected x def (0,4)-(0,5), got %+v", x.Def)
	}

	y, ok := doc.Symbols["y"]
	if !ok {
		t.Fatalf("expected symbol y")
	}
	if y.TypeName != "unknown" {
		t.Fatalf("expected y typeName unknown, got %s", y.TypeName)
	}
	if y.Def != rng(1, 4, 1, 5) {
		t.Fatalf("expected y def (1,4)-(1,5), got %+v", y.Def)
	}

	foundRef := false
	for _, r := range x.Refs {
		if r == rng(1, 8, 1, 9) {
			foundRef = true
		}
	}
	if !foundRef {
		t.Fatalf("expected x.refs to contain (1,8)-(1,9), got %+v", x.Refs)
	}

	if len(doc.UnknownRefs) != 0 {
		t.Fatalf("expected no unknown refs, got %+v", doc.UnknownRefs)
	}
}

// A reference to a name that is neither a top-level symbol, a local,
// nor a global is flagged as unknown.
func TestAnalyze_UnknownIdentifierFlagged(t *testing.T) {
	doc := analyzeText(t, "let a = b\n")

	if len(doc.UnknownRefs) != 1 {
		t.Fatalf("expected exactly 1 unknown ref, got %+v", doc.UnknownRefs)
	}
	if doc.UnknownRefs[0] != rng(0, 8, 0, 9) {
		t.Fatalf("expected unknown ref (0,8)-(0,9), got %+v", doc.UnknownRefs[0])
	}

	found := false
	for _, r := range doc.RefByName["b"] {
		if r == rng(0, 8, 0, 9) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected refByName[b] to contain (0,8)-(0,9), got %+v", doc.RefByName["b"])
	}
}

// A line with a leading tab, trailing spaces, and 124 characters total
// produces all three distinct style diagnostics.
func TestAnalyze_StyleDiagnosticsForTabsTrailingWhitespaceAndLongLines(t *testing.T) {
	line := "\t" + stringsRepeat("a", 120) + "   "
	doc := analyzeText(t, line)

	if len(doc.Text) == 0 {
		t.Fatalf("precondition: expected non-empty text")
	}

	var tabIssue, trailingIssue, lengthIssue bool
	for _, issue := range doc.StyleIssues {
		switch issue.Message {
		case "Style: tab character should be replaced with spaces":
			tabIssue = true
		case "Style: trailing whitespace":
			trailingIssue = true
		case "Style: line exceeds 120 characters":
			lengthIssue = true
		}
	}
	if !tabIssue || !trailingIssue || !lengthIssue {
		t.Fatalf("expected 3 distinct diagnostics, got %+v", doc.StyleIssues)
	}
	if len(doc.StyleIssues) != 3 {
		t.Fatalf("expected exactly 3 diagnostics on the single line, got %d", len(doc.StyleIssues))
	}
}

// Boundary: a line exactly 120 characters wide triggers no length diagnostic.
func TestAnalyze_Boundary_ExactlyOneTwentyCharsIsFine(t *testing.T) {
	doc := analyzeText(t, stringsRepeat("a", 120))
	for _, issue := range doc.StyleIssues {
		if issue.Message == "Style: line exceeds 120 characters" {
			t.Fatalf("did not expect a length diagnostic on a 120-char line")
		}
	}
}

// Boundary: empty document text yields zero symbols and zero diagnostics.
func TestAnalyze_Boundary_EmptyDocument(t *testing.T) {
	doc := analyzeText(t, "")
	if len(doc.Symbols) != 0 {
		t.Fatalf("expected zero symbols, got %+v", doc.Symbols)
	}
	if len(doc.StyleIssues) != 0 {
		t.Fatalf("expected zero diagnostics, got %+v", doc.StyleIssues)
	}
}

// Invariant 1: no unknown ref overlaps a resolved symbol's own refs.
func TestAnalyze_Invariant1_NoOverlapBetweenSymbolRefsAndUnknownRefs(t *testing.T) {
	doc := analyzeText(t, "let x = 1\nlet y = x + z\n")
	known := map[store.Range]bool{}
	for _, sym := range doc.Symbols {
		for _, r := range sym.Refs {
			known[r] = true
		}
	}
	for _, r := range doc.UnknownRefs {
		if known[r] {
			t.Fatalf("range %+v present in both a symbol's refs and unknownRefs", r)
		}
	}
}

// Invariant 2: re-analysis yields equal (as multisets) derived fields,
// including refByName, which must be explicitly cleared each run.
func TestAnalyze_Invariant2_ReanalysisIsIdempotent(t *testing.T) {
	doc := analyzeText(t, "let x = 1\nlet y = x\nlet z = unknownName\n")

	firstRefByName := map[string]int{}
	for name, ranges := range doc.RefByName {
		firstRefByName[name] = len(ranges)
	}
	firstUnknown := len(doc.UnknownRefs)
	firstSymbols := len(doc.Symbols)

	Analyze(doc, interpreter.Globals())

	if len(doc.UnknownRefs) != firstUnknown {
		t.Fatalf("unknownRefs changed across re-analysis: %d vs %d", len(doc.UnknownRefs), firstUnknown)
	}
	if len(doc.Symbols) != firstSymbols {
		t.Fatalf("symbols changed across re-analysis: %d vs %d", len(doc.Symbols), firstSymbols)
	}
	for name, count := range firstRefByName {
		if len(doc.RefByName[name]) != count {
			t.Fatalf("refByName[%s] changed across re-analysis: %d vs %d", name, len(doc.RefByName[name]), count)
		}
	}
}

// Symbol index shape: a richer structural comparison than field-by-field
// assertions, comparing the whole symbol table against its expected
// shape at once.
func TestAnalyze_SymbolIndex_MatchesExpectedShape(t *testing.T) {
	doc := analyzeText(t, "fn add(x, y) {\n  return x + y\n}\nlet total = add(1, 2)\n")

	want := map[string]*store.SymbolInfo{
		"add": {
			Name:     "add",
			Def:      rng(0, 3, 0, 6),
			TypeName: "function",
			Params:   []string{"x", "y"},
			Arity:    2,
			Refs:     []store.Range{rng(3, 12, 3, 15)},
		},
		"total": {
			Name:     "total",
			Def:      rng(3, 4, 3, 9),
			TypeName: "unknown",
		},
	}

	if diff := cmp.Diff(want, doc.Symbols); diff != "" {
		t.Fatalf("symbol index mismatch (-want +got):\n%s", diff)
	}
}

func stringsRepeat(s string, n int) string {
	out := make([]byte, 0, len(s)*n)
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}
