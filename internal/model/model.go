package model

import (
	"encoding/base64"
	"strings"
)

// Kind discriminates the element variants produced by the extraction service.
// The set is closed by the extraction contract; anything else maps to KindUnknown.
type Kind string

const (
	KindTitle     Kind = "title"
	KindHeader    Kind = "header"
	KindParagraph Kind = "paragraph"
	KindTable     Kind = "table"
	KindImage     Kind = "image"
	KindUnknown   Kind = "unknown"
)

// Element is one node of the extracted-content sequence. Exactly one payload
// shape is active per Kind: Text for title/header/paragraph/unknown, Rows for
// table (row 0 is the header row), Data for image (base64-encoded raster bytes).
type Element struct {
	Kind Kind       `json:"type"`
	Text string     `json:"text,omitempty"`
	Rows [][]string `json:"rows,omitempty"`
	Data string     `json:"data,omitempty"`
}

// Document is an ordered sequence of elements representing one extracted
// document. Order defines reading order and is preserved by every consumer.
// A document is replaced wholesale, never edited in place; the empty document
// is valid.
type Document []Element

// Title returns the text of the first title element, or "" when none exists.
func (d Document) Title() string {
	for _, el := range d {
		if el.Kind == KindTitle {
			return el.Text
		}
	}
	return ""
}

// Tables returns the table elements in document order.
func (d Document) Tables() []Element {
	var out []Element
	for _, el := range d {
		if el.Kind == KindTable {
			out = append(out, el)
		}
	}
	return out
}

// ImageBytes decodes the base64 payload of an image element.
func (e Element) ImageBytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(strings.TrimSpace(e.Data))
}

// ImageFormat sniffs the raster format from decoded image bytes. It returns
// "png", "jpeg" or "gif", or "" when the header matches none of them.
func ImageFormat(b []byte) string {
	switch {
	case len(b) >= 8 && string(b[:8]) == "\x89PNG\r\n\x1a\n":
		return "png"
	case len(b) >= 3 && b[0] == 0xff && b[1] == 0xd8 && b[2] == 0xff:
		return "jpeg"
	case len(b) >= 6 && (string(b[:6]) == "GIF87a" || string(b[:6]) == "GIF89a"):
		return "gif"
	}
	return ""
}
