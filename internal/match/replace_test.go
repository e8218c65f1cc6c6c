package match

import (
	"errors"
	"testing"
)

func TestReplaceTieredFullLineDelete(t *testing.T) {
	out, err := ReplaceTiered("a\nb\nc", "b", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Content != "a\nc" {
		t.Errorf("got %q, want %q", out.Content, "a\nc")
	}
	if out.Tier != TierLineDelete {
		t.Errorf("tier = %v, want line-delete", out.Tier)
	}
	if out.Line != 2 {
		t.Errorf("line = %d, want 2", out.Line)
	}
}

func TestReplaceTieredDeletePreferredOverSubstring(t *testing.T) {
	// "b" appears as a substring on line 1 and as a full line on line 2.
	// Deleting with an empty replacement must remove the full line, not
	// leave line 1 mangled or line 2 blank.
	out, err := ReplaceTiered("abc\nb\nxyz", "b", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Content != "abc\nxyz" {
		t.Errorf("got %q, want %q", out.Content, "abc\nxyz")
	}
	if out.Tier != TierLineDelete {
		t.Errorf("tier = %v, want line-delete", out.Tier)
	}
}

func TestReplaceTieredExactFirstOccurrence(t *testing.T) {
	out, err := ReplaceTiered("foo bar foo", "foo", "baz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Content != "baz bar foo" {
		t.Errorf("got %q, want %q", out.Content, "baz bar foo")
	}
	if out.Tier != TierExact {
		t.Errorf("tier = %v, want exact", out.Tier)
	}
}

func TestReplaceTieredBlockPreservesIndentation(t *testing.T) {
	content := "  if (x) {\n    y();\n  }"
	search := "if (x) {\n  y();\n}"
	replace := "if (x) {\n  z();\n}"

	out, err := ReplaceTiered(content, search, replace)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "  if (x) {\n    z();\n  }"
	if out.Content != want {
		t.Errorf("got %q, want %q", out.Content, want)
	}
	if out.Tier != TierBlock {
		t.Errorf("tier = %v, want block", out.Tier)
	}
}

func TestReplaceTieredBlockDeepIndent(t *testing.T) {
	content := "\tfor {\n\t\tnext()\n\t}"
	search := "for {\n\tnext()\n}"
	replace := "for {\n\tstep()\n\tnext()\n}"

	out, err := ReplaceTiered(content, search, replace)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// First line keeps the original block's tab indent; the extra
	// replacement line falls back to the block base indent plus delta.
	wantFirst := "\tfor {"
	if got := out.Content[:len(wantFirst)]; got != wantFirst {
		t.Errorf("first line = %q, want %q", got, wantFirst)
	}
	if out.Replaced != 1 {
		t.Errorf("replaced = %d, want 1", out.Replaced)
	}
}

func TestReplaceTieredBlockEmptyReplacementDeletesBlock(t *testing.T) {
	content := "keep\n  old1\n  old2\nkeep2"
	out, err := ReplaceTiered(content, "old1\nold2", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Content != "keep\nkeep2" {
		t.Errorf("got %q, want %q", out.Content, "keep\nkeep2")
	}
}

func TestReplaceTieredNoMatchSuggestions(t *testing.T) {
	content := "func processRequest() {\n\tprocessResponse()\n}"
	_, err := ReplaceTiered(content, "procesRequest", "x")
	if err == nil {
		t.Fatal("expected NoMatchError")
	}
	var nme *NoMatchError
	if !errors.As(err, &nme) {
		t.Fatalf("error type = %T, want *NoMatchError", err)
	}
	if len(nme.Suggestions) == 0 {
		t.Fatal("expected at least one suggestion")
	}
	if nme.Suggestions[0].Token != "processRequest" {
		t.Errorf("best suggestion = %q, want processRequest", nme.Suggestions[0].Token)
	}
	if nme.Suggestions[0].Line != 1 {
		t.Errorf("suggestion line = %d, want 1", nme.Suggestions[0].Line)
	}
	if len(nme.Suggestions) > 3 {
		t.Errorf("got %d suggestions, cap is 3", len(nme.Suggestions))
	}
}

func TestReplaceTieredEmptySearch(t *testing.T) {
	if _, err := ReplaceTiered("content", "", "x"); err == nil {
		t.Error("empty search must be rejected")
	}
}

func TestReplaceAllExact(t *testing.T) {
	out, n := ReplaceAllExact("a b a b a", "a", "c")
	if out != "c b c b c" || n != 3 {
		t.Errorf("got (%q, %d), want (%q, 3)", out, n, "c b c b c")
	}

	out, n = ReplaceAllExact("nothing here", "zzz", "c")
	if out != "nothing here" || n != 0 {
		t.Errorf("no-match should leave content untouched, got (%q, %d)", out, n)
	}
}

func TestSimilarityRatio(t *testing.T) {
	if r := SimilarityRatio("kitten", "kitten"); r != 1.0 {
		t.Errorf("identical strings ratio = %v, want 1.0", r)
	}
	if r := SimilarityRatio("kitten", "sitting"); r < 0.5 || r > 0.8 {
		t.Errorf("kitten/sitting ratio = %v, outside expected band", r)
	}
	if r := SimilarityRatio("", ""); r != 1.0 {
		t.Errorf("empty/empty ratio = %v, want 1.0", r)
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
	}
	for _, tt := range tests {
		if got := LevenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
