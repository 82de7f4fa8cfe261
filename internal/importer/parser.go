// Package importer turns a bulk-upload file (CSV or XLSX) into coerced part
// records. Structural problems reject the whole file before any row is
// committed; value problems are reported per row.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
)

// ErrMalformed marks whole-file rejections.
var ErrMalformed = errors.New("malformed import file")

// RequiredColumns must all appear in the header row.
var RequiredColumns = []string{"manufacturer_part_number", "manufacturer", "name", "price_type"}

type Format int

const (
	FormatCSV Format = iota
	FormatXLSX
)

var zipMagic = []byte("PK\x03\x04")

// DetectFormat picks XLSX for a .xlsx name or zip content, CSV otherwise.
func DetectFormat(filename string, data []byte) Format {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") || bytes.HasPrefix(data, zipMagic) {
		return FormatXLSX
	}
	return FormatCSV
}

// Parse reads every row of data. A non-nil error wraps ErrMalformed and means
// no row may be processed.
func Parse(format Format, data []byte) ([]Row, error) {
	if format == FormatXLSX {
		return ParseXLSX(bytes.NewReader(data))
	}
	return ParseCSV(bytes.NewReader(data))
}

// ParseCSV reads records one by one so every row keeps the source line it
// starts on; blank lines and quoted line breaks do not shift later rows.
func ParseCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var records []sourceRecord
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformed("%s", err.Error())
		}
		line, _ := cr.FieldPos(0)
		records = append(records, sourceRecord{line: line, fields: fields})
	}
	return parseRecords(records)
}

// ParseXLSX reads the first sheet. Spreadsheet rows drop trailing empty
// cells, so short rows are padded to the header width and blank rows skipped.
func ParseXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, malformed("unreadable spreadsheet: %s", err.Error())
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, malformed("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, malformed("reading sheet %q: %s", sheets[0], err.Error())
	}

	// Sheet row numbers are taken before blank rows are dropped.
	records := make([]sourceRecord, 0, len(rows))
	for i, row := range rows {
		if !lo.SomeBy(row, func(cell string) bool { return strings.TrimSpace(cell) != "" }) {
			continue
		}
		records = append(records, sourceRecord{line: i + 1, fields: row})
	}
	if len(records) > 0 {
		width := len(records[0].fields)
		for i := 1; i < len(records); i++ {
			for len(records[i].fields) < width {
				records[i].fields = append(records[i].fields, "")
			}
		}
	}
	return parseRecords(records)
}

// sourceRecord is one parsed row with the 1-based line it came from.
type sourceRecord struct {
	line   int
	fields []string
}

func parseRecords(records []sourceRecord) ([]Row, error) {
	if len(records) < 2 {
		return nil, malformed("CSV must contain header and at least one data row")
	}

	header := make([]string, len(records[0].fields))
	for i, h := range records[0].fields {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	missing := lo.Without(RequiredColumns, header...)
	if len(missing) > 0 {
		return nil, malformed("Missing required headers: %s", strings.Join(missing, ", "))
	}

	for _, rec := range records[1:] {
		if len(rec.fields) != len(header) {
			return nil, malformed("Row %d: Column count mismatch. Expected %d, got %d", rec.line, len(header), len(rec.fields))
		}
	}

	rows := make([]Row, 0, len(records)-1)
	for _, src := range records[1:] {
		rec, err := coerce(header, src.fields)
		rows = append(rows, Row{Line: src.line, Record: rec, Err: err})
	}
	return rows, nil
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}
