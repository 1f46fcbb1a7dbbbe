package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/crosti/buyerform/model"
)

// XLSXContentType is the MIME type of every workbook this service produces.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	// ProfileSheet names the single sheet of a buyer profile export.
	ProfileSheet = "Buyer Profile"
	// ProcessedSheet names the single sheet of an augmented upload.
	ProcessedSheet = "Processed Data"

	minColumnWidth = 30
	// Row height bands in points: rows with a multi-line cell get the tall band.
	shortRowHeight = 30
	tallRowHeight  = 120
)

// ColumnWidth is the width hint for a column: the header length with a floor
// of 30 characters. Cell content is not measured.
func ColumnWidth(header string) float64 {
	return float64(max(utf8.RuneCountInString(header), minColumnWidth))
}

// RowHeight picks the height band for a row.
func RowHeight(cells []string) float64 {
	if lo.SomeBy(cells, func(c string) bool { return strings.Contains(c, "\n") }) {
		return tallRowHeight
	}
	return shortRowHeight
}

// EncodeProfile renders a one-row workbook from an export record.
func EncodeProfile(record model.ExportRecord) ([]byte, error) {
	if len(record) == 0 {
		return nil, fmt.Errorf("%w: record has no fields", model.ErrEncoding)
	}

	f, sheet, err := newWorkbook(ProfileSheet)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	headers := record.Labels()
	values := record.Values()

	if err := writeRow(f, sheet, 1, headers); err != nil {
		return nil, err
	}
	if err := writeRow(f, sheet, 2, values); err != nil {
		return nil, err
	}

	for i, h := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrEncoding, err)
		}
		if err := f.SetColWidth(sheet, col, col, ColumnWidth(h)); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrEncoding, err)
		}
	}

	if err := f.SetRowHeight(sheet, 1, RowHeight(headers)); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrEncoding, err)
	}
	if err := f.SetRowHeight(sheet, 2, RowHeight(values)); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrEncoding, err)
	}

	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrEncoding, err)
	}
	last, err := excelize.CoordinatesToCellName(len(values), 2)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrEncoding, err)
	}
	if err := f.SetCellStyle(sheet, "A2", last, wrap); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrEncoding, err)
	}

	return finish(f)
}

// EncodeTable renders a header row followed by one row per record. Cells for
// columns a row does not carry are left empty.
func EncodeTable(sheetName string, table *model.IngestedTable) ([]byte, error) {
	f, sheet, err := newWorkbook(sheetName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	if len(table.Columns) > 0 {
		if err := writeRow(f, sheet, 1, table.Columns); err != nil {
			return nil, err
		}
	}

	for i, row := range table.Rows {
		cells := lo.Map(table.Columns, func(c string, _ int) string { return row[c] })
		if err := writeRow(f, sheet, i+2, cells); err != nil {
			return nil, err
		}
	}

	return finish(f)
}

func newWorkbook(sheet string) (*excelize.File, string, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		_ = f.Close()
		return nil, "", fmt.Errorf("%w: %v", model.ErrEncoding, err)
	}
	return f, sheet, nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrEncoding, err)
	}
	values := lo.Map(cells, func(c string, _ int) any { return c })
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%w: %v", model.ErrEncoding, err)
	}
	return nil
}

func finish(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrEncoding, err)
	}
	return buf.Bytes(), nil
}
