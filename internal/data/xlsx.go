package data

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"commodity-forecast/internal/model"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX decodes an Excel workbook. The selected sheet's first row is the
// header. Cells are read raw, so date cells arrive as serial numbers and are
// converted here; text dates go through the usual layouts.
func ReadXLSX(r io.Reader, opts LoadOptions) ([]model.Observation, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}
	header := rows[0]
	if i, ok := columnIndex(header, resolveColumns(opts).Date); ok {
		for _, row := range rows[1:] {
			if i < len(row) {
				row[i] = serialToDate(row[i], date1904)
			}
		}
	}
	return decodeTable(header, rows[1:], opts)
}

// serialToDate rewrites an Excel date serial as model.DateLayout text.
// Anything that is not a number is returned unchanged.
func serialToDate(cell string, date1904 bool) string {
	serial, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return cell
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return cell
	}
	return t.Format(model.DateLayout)
}
