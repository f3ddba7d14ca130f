// internal/loader/decode.go
package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func decodeCSV(source string, body []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(body, utf8BOM)))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		pe := &ParseError{Source: source, Err: err}
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			pe.Line = csvErr.Line
			pe.Err = csvErr.Err
		}
		return nil, pe
	}
	return rows, nil
}

// decodeXLSX reads the first sheet of a workbook.
func decodeXLSX(source string, body []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{Source: source, Err: fmt.Errorf("open workbook: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Source: source, Err: errors.New("workbook has no sheets")}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ParseError{Source: source, Err: fmt.Errorf("read sheet %s: %w", sheets[0], err)}
	}
	return rows, nil
}
