package export

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/docpane/docsift/internal/model"
)

// Text serializes a document as plain text: a single fold over the elements in
// order, each block followed by one blank line. Titles get a "# " marker,
// headers "## ", paragraphs and unknown elements their text verbatim, and
// tables one tab-joined line per row with no header/data distinction.
//
// Image elements are deliberately skipped: plain text cannot represent a
// raster, and the lossy rule is part of the format contract rather than an
// error. Text fields are NFC-normalized so two exports of the same document
// are byte-identical regardless of how the producer composed its Unicode.
func Text(doc model.Document) []byte {
	var b strings.Builder
	for _, el := range doc {
		switch el.Kind {
		case model.KindTitle:
			b.WriteString("# ")
			b.WriteString(norm.NFC.String(el.Text))
			b.WriteString("\n\n")
		case model.KindHeader:
			b.WriteString("## ")
			b.WriteString(norm.NFC.String(el.Text))
			b.WriteString("\n\n")
		case model.KindParagraph:
			b.WriteString(norm.NFC.String(el.Text))
			b.WriteString("\n\n")
		case model.KindTable:
			for _, row := range el.Rows {
				cells := make([]string, len(row))
				for i, c := range row {
					cells[i] = norm.NFC.String(c)
				}
				b.WriteString(strings.Join(cells, "\t"))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		case model.KindImage:
			// Documented lossy skip.
		default:
			b.WriteString(norm.NFC.String(el.Text))
			b.WriteString("\n\n")
		}
	}
	return []byte(b.String())
}
