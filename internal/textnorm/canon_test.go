package textnorm

import "testing"

func TestCanonicalizeFoldsCaseAndPunctuation(t *testing.T) {
	cases := map[string]string{
		"Aldric":              "aldric",
		"O'Brien":             "o'brien",
		"Jean-Luc":            "jean-luc",
		"Monkey D. Luffy":     "monkey d. luffy",
		"  extra   spaces  ":  "extra spaces",
		"AT&T":                "at&t",
		"‘curly’":   "'curly'",
		"en–dash em—dash": "en-dash em-dash",
	}
	for in, want := range cases {
		if got := Canonicalize(in); got != want {
			t.Errorf("Canonicalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTokenizeWithOffsetsPreservesOriginalSpans(t *testing.T) {
	text := "Aldric met Barric."
	toks := TokenizeWithOffsets(text)
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %d: %+v", len(toks), toks)
	}
	for _, tok := range toks {
		if text[tok.Start:tok.End] != text[tok.Start:tok.End] {
			t.Fatalf("span mismatch for %+v", tok)
		}
	}
	if toks[0].Text != "aldric" || text[toks[0].Start:toks[0].End] != "Aldric" {
		t.Errorf("unexpected first token: %+v", toks[0])
	}
}

func TestIsStopwordFiltersCommonWords(t *testing.T) {
	if !IsStopword("the") {
		t.Error("expected 'the' to be a stopword")
	}
	if IsStopword("aldric") {
		t.Error("did not expect 'aldric' to be a stopword")
	}
}

func TestTokenizeFilteredDropsStopwords(t *testing.T) {
	got := TokenizeFiltered("the lord of the house")
	want := []string{"lord", "house"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}

func TestNearDuplicate(t *testing.T) {
	tests := []struct {
		a, b    string
		maxDist int
		want    bool
	}{
		{"aldric", "aldric", 1, true},
		{"aldric", "aldrik", 1, true},
		{"aldric", "aldricson", 1, true},
		{"aldric", "barric", 1, false},
	}
	for _, tt := range tests {
		if got := NearDuplicate(tt.a, tt.b, tt.maxDist); got != tt.want {
			t.Errorf("NearDuplicate(%q, %q, %d) = %v, want %v", tt.a, tt.b, tt.maxDist, got, tt.want)
		}
	}
}
