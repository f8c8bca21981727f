package paxel

import "testing"

func TestTokenizeSkipsWhitespaceAndTagsKinds(t *testing.T) {
	toks, err := Tokenize(`width + 10 >= "a b"`)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	want := []struct{ kind, value string }{
		{"Ident", "width"},
		{"Op", "+"},
		{"Number", "10"},
		{"Op", ">="},
		{"String", `"a b"`},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Value != w.value {
			t.Errorf("token %d = (%s, %q), want (%s, %q)", i, toks[i].Kind, toks[i].Value, w.kind, w.value)
		}
	}
}

func TestTokenizeRangeOperatorIsDistinctFromDot(t *testing.T) {
	toks, err := Tokenize("a..b")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(toks) != 3 || toks[1].Kind != "Range" {
		t.Fatalf("a..b tokens = %+v, want [Ident Range Ident]", toks)
	}
}

func TestTokenizeKeywordsVsIdentifiers(t *testing.T) {
	toks, err := Tokenize("true thenClause")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[0].Kind != "Keyword" {
		t.Errorf("true kind = %s, want Keyword", toks[0].Kind)
	}
	if toks[1].Kind != "Ident" {
		t.Errorf("thenClause kind = %s, want Ident (not a partial keyword match)", toks[1].Kind)
	}
}
