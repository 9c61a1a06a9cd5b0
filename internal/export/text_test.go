package export

import (
	"bytes"
	"testing"

	"github.com/docpane/docsift/internal/model"
)

func TestText_ConcreteScenario(t *testing.T) {
	doc := model.Document{
		{Kind: model.KindTitle, Text: "Q1 Report"},
		{Kind: model.KindHeader, Text: "Summary"},
		{Kind: model.KindParagraph, Text: "Revenue grew 12%."},
		{Kind: model.KindTable, Rows: [][]string{{"Name", "Age"}, {"Ann", "31"}}},
	}
	want := "# Q1 Report\n\n## Summary\n\nRevenue grew 12%.\n\nName\tAge\nAnn\t31\n\n"
	got := Text(doc)
	if string(got) != want {
		t.Fatalf("plain text mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestText_Deterministic(t *testing.T) {
	doc := model.Document{
		{Kind: model.KindTitle, Text: "Repeatable"},
		{Kind: model.KindParagraph, Text: "Same bytes every time."},
		{Kind: model.KindTable, Rows: [][]string{{"k", "v"}, {"a", "1"}}},
	}
	first := Text(doc)
	second := Text(doc)
	if !bytes.Equal(first, second) {
		t.Fatalf("expected byte-identical output across invocations")
	}
}

func TestText_NormalizesComposition(t *testing.T) {
	// U+0065 U+0301 (e + combining acute) and U+00E9 (precomposed) must
	// export identically.
	decomposed := model.Document{{Kind: model.KindParagraph, Text: "cafe\u0301"}}
	precomposed := model.Document{{Kind: model.KindParagraph, Text: "caf\u00e9"}}
	if !bytes.Equal(Text(decomposed), Text(precomposed)) {
		t.Fatalf("expected NFC-equal inputs to produce identical bytes")
	}
}

func TestText_SkipsImagesKeepsOrder(t *testing.T) {
	doc := model.Document{
		{Kind: model.KindParagraph, Text: "before"},
		{Kind: model.KindImage, Data: "aGVsbG8="},
		{Kind: model.KindParagraph, Text: "after"},
	}
	want := "before\n\nafter\n\n"
	if got := string(Text(doc)); got != want {
		t.Fatalf("expected image skipped with order preserved:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestText_UnknownElementExportsVerbatim(t *testing.T) {
	doc := model.Document{{Kind: model.KindUnknown, Text: "stray note"}}
	if got := string(Text(doc)); got != "stray note\n\n" {
		t.Fatalf("expected unknown element text kept, got %q", got)
	}
}

func TestText_RaggedTable(t *testing.T) {
	doc := model.Document{
		{Kind: model.KindTable, Rows: [][]string{{"a", "b", "c"}, {"x"}, {}}},
	}
	want := "a\tb\tc\nx\n\n\n"
	if got := string(Text(doc)); got != want {
		t.Fatalf("ragged table mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestText_EmptyDocument(t *testing.T) {
	if got := Text(model.Document{}); len(got) != 0 {
		t.Fatalf("expected empty artifact for empty document, got %q", got)
	}
}

func TestText_EmptyFieldsStillPresent(t *testing.T) {
	doc := model.Document{
		{Kind: model.KindTitle, Text: ""},
		{Kind: model.KindHeader, Text: ""},
	}
	want := "# \n\n## \n\n"
	if got := string(Text(doc)); got != want {
		t.Fatalf("expected markers for empty headings:\ngot:  %q\nwant: %q", got, want)
	}
}
