package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/docpane/docsift/internal/model"
)

var errUnknownImageFormat = errors.New("unrecognized raster format")

// PDF serializes a document into a PDF: titles as the top heading level,
// headers as the second level, paragraphs as body text, tables as native
// grids whose row and cell order exactly match the model, and images embedded
// inline. The exporter imposes no header/data styling on tables.
//
// Encoder failures abort the whole export with a SerializationError naming
// the element that failed; no partial output is ever returned.
func PDF(doc model.Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	if title := doc.Title(); title != "" {
		pdf.SetTitle(title, true)
	}
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	marginL, _, marginR, _ := pdf.GetMargins()
	usable := pageW - marginL - marginR

	for i, el := range doc {
		switch el.Kind {
		case model.KindTitle:
			pdf.SetFont("Helvetica", "B", 16)
			pdf.MultiCell(0, 9, el.Text, "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
			pdf.Ln(3)
		case model.KindHeader:
			pdf.SetFont("Helvetica", "B", 13)
			pdf.MultiCell(0, 7, el.Text, "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
			pdf.Ln(2)
		case model.KindTable:
			writeGrid(pdf, el.Rows, usable)
			pdf.Ln(4)
		case model.KindImage:
			if err := writeRaster(pdf, el, i, usable); err != nil {
				return nil, err
			}
			pdf.Ln(4)
		default:
			pdf.MultiCell(0, 5, el.Text, "", "L", false)
			pdf.Ln(4)
		}
		if pdf.Err() {
			return nil, &SerializationError{Index: i, Kind: el.Kind, Err: pdf.Error()}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// writeGrid lays a table out as bordered cells with a uniform column width
// derived from the widest row. Ragged rows simply occupy fewer columns.
func writeGrid(pdf *gofpdf.Fpdf, rows [][]string, usable float64) {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return
	}
	colW := usable / float64(cols)
	for _, row := range rows {
		for _, cell := range row {
			pdf.CellFormat(colW, 7, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// writeRaster decodes the base64 payload, sniffs its format, and embeds it
// scaled down to the text width when necessary. Any decode or parse failure
// is attributed to the element.
func writeRaster(pdf *gofpdf.Fpdf, el model.Element, index int, usable float64) error {
	raw, err := el.ImageBytes()
	if err != nil {
		return &SerializationError{Index: index, Kind: el.Kind, Err: err}
	}
	format := model.ImageFormat(raw)
	if format == "" {
		return &SerializationError{Index: index, Kind: el.Kind, Err: errUnknownImageFormat}
	}
	name := fmt.Sprintf("element-%d", index)
	opts := gofpdf.ImageOptions{ImageType: strings.ToUpper(format)}
	info := pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(raw))
	if pdf.Err() {
		return &SerializationError{Index: index, Kind: el.Kind, Err: pdf.Error()}
	}
	w := info.Width()
	if w > usable {
		w = usable
	}
	pdf.ImageOptions(name, pdf.GetX(), pdf.GetY(), w, 0, true, opts, 0, "")
	if pdf.Err() {
		return &SerializationError{Index: index, Kind: el.Kind, Err: pdf.Error()}
	}
	return nil
}
