package render

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/docpane/docsift/internal/model"
)

// textPolicy strips any markup that leaked into extracted text fields and
// escapes the remainder, so element text can be interpolated into the preview
// fragment directly.
var textPolicy = bluemonday.StrictPolicy()

// HTML renders a document into a preview fragment: one top-level node per
// element, in document order. It is a pure transformation; an empty document
// renders to an empty fragment, and no element shape makes it fail.
func HTML(doc model.Document) []byte {
	var b strings.Builder
	for _, el := range doc {
		writeElement(&b, el)
	}
	return []byte(b.String())
}

func writeElement(b *strings.Builder, el model.Element) {
	switch el.Kind {
	case model.KindTitle:
		fmt.Fprintf(b, "<h1>%s</h1>\n", textPolicy.Sanitize(el.Text))
	case model.KindHeader:
		fmt.Fprintf(b, "<h2>%s</h2>\n", textPolicy.Sanitize(el.Text))
	case model.KindParagraph:
		fmt.Fprintf(b, "<p>%s</p>\n", textPolicy.Sanitize(el.Text))
	case model.KindTable:
		writeTable(b, el.Rows)
	case model.KindImage:
		writeImage(b, el)
	default:
		// Never discard an element silently; unknown kinds show their text.
		fmt.Fprintf(b, "<p>%s</p>\n", textPolicy.Sanitize(el.Text))
	}
}

// writeTable renders row 0 as the header band and the remaining rows with
// alternating banding classes, data row 0 being "even". Ragged rows render
// with their own cell count; no padding is applied.
func writeTable(b *strings.Builder, rows [][]string) {
	b.WriteString("<table>\n<thead><tr>")
	var data [][]string
	if len(rows) > 0 {
		for _, cell := range rows[0] {
			fmt.Fprintf(b, "<th>%s</th>", textPolicy.Sanitize(cell))
		}
		data = rows[1:]
	}
	b.WriteString("</tr></thead>\n<tbody>\n")
	for i, row := range data {
		band := "even"
		if i%2 == 1 {
			band = "odd"
		}
		fmt.Fprintf(b, "<tr class=%q>", band)
		for _, cell := range row {
			fmt.Fprintf(b, "<td>%s</td>", textPolicy.Sanitize(cell))
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n")
}

// writeImage embeds the raster inline as a data URI. The payload is
// re-encoded from decoded bytes so the attribute is always well-formed; a
// payload that does not decode to a known raster format still yields a
// placeholder fragment rather than disappearing.
func writeImage(b *strings.Builder, el model.Element) {
	raw, err := el.ImageBytes()
	if err == nil {
		if format := model.ImageFormat(raw); format != "" {
			fmt.Fprintf(b, "<img class=\"fit\" src=\"data:image/%s;base64,%s\">\n",
				format, base64.StdEncoding.EncodeToString(raw))
			return
		}
	}
	b.WriteString("<img class=\"fit\" alt=\"image unavailable\">\n")
}
