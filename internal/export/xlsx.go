// Package export renders report result sets to downloadable spreadsheets.
package export

import (
	"bytes"
	"fmt"
	"time"

	"backoffice/internal/util"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Column maps one spreadsheet column to a field of the row type.
type Column[T any] struct {
	Header string
	Value  func(T) any
}

// ContentType is the MIME type for the generated files
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Table renders rows into a single-sheet workbook with a header row.
// Row order is preserved exactly as given; producers sort before calling.
func Table[T any](sheet string, rows []T, cols []Column[T]) ([]byte, error) {
	start := time.Now()
	defer func() {
		util.ExportDuration.Observe(time.Since(start).Seconds())
	}()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	for i, col := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
			return nil, fmt.Errorf("write header %q: %w", col.Header, err)
		}
	}

	for r, row := range rows {
		for c, col := range cols {
			value := col.Value(row)
			if value == nil {
				// Absent fields stay empty cells, never the word "null".
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, cellValue(value)); err != nil {
				return nil, fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// cellValue normalizes values for the sheet. Decimals are written as their
// exact string form so currency never loses precision to float conversion.
func cellValue(v any) any {
	switch val := v.(type) {
	case decimal.Decimal:
		return val.String()
	case *decimal.Decimal:
		if val == nil {
			return ""
		}
		return val.String()
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	case fmt.Stringer:
		return val.String()
	default:
		return v
	}
}

// Filename builds the attachment name for a report export
func Filename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, now.Format("20060102"))
}
