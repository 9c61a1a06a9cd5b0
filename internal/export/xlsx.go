package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/docpane/docsift/internal/model"
)

// XLSX serializes the table elements of a document into a workbook, one sheet
// per table in document order, cells written row-major exactly as they appear
// in the model. Non-table elements are outside this artifact's domain; the
// same documented-lossy rule that drops images from plain text applies here.
// A document without tables still yields a well-formed workbook with a single
// empty sheet.
func XLSX(doc model.Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	table := 0
	for i, el := range doc {
		if el.Kind != model.KindTable {
			continue
		}
		table++
		sheet := fmt.Sprintf("Table %d", table)
		if table == 1 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, &SerializationError{Index: i, Kind: el.Kind, Err: err}
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, &SerializationError{Index: i, Kind: el.Kind, Err: err}
		}
		for r, row := range el.Rows {
			for c, cell := range row {
				axis, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return nil, &SerializationError{Index: i, Kind: el.Kind, Err: err}
				}
				if err := f.SetCellValue(sheet, axis, cell); err != nil {
					return nil, &SerializationError{Index: i, Kind: el.Kind, Err: err}
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
