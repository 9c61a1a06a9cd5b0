package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Decode parses the JSON array returned by the extraction service into a
// Document. Element-level problems never abort the whole model: an
// unrecognized type tag becomes a KindUnknown element keeping whatever text
// field is present, and a missing payload is substituted with its zero value.
// Only malformed JSON fails the decode.
func Decode(b []byte) (Document, error) {
	var raw []Element
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}
	doc := make(Document, 0, len(raw))
	for _, el := range raw {
		doc = append(doc, normalize(el))
	}
	return doc, nil
}

// normalize maps a wire element onto the closed Kind set and repairs payloads
// so downstream consumers can rely on the per-kind invariants.
func normalize(el Element) Element {
	switch Kind(strings.ToLower(strings.TrimSpace(string(el.Kind)))) {
	case KindTitle:
		return Element{Kind: KindTitle, Text: el.Text}
	case KindHeader:
		return Element{Kind: KindHeader, Text: el.Text}
	case KindParagraph:
		return Element{Kind: KindParagraph, Text: el.Text}
	case KindTable:
		rows := el.Rows
		if len(rows) == 0 {
			// Keep the at-least-one-row invariant; row 0 is the header row.
			rows = [][]string{{""}}
		}
		for i, r := range rows {
			if r == nil {
				rows[i] = []string{}
			}
		}
		return Element{Kind: KindTable, Rows: rows}
	case KindImage:
		return Element{Kind: KindImage, Data: el.Data}
	default:
		return Element{Kind: KindUnknown, Text: el.Text}
	}
}
