// Package spreadsheet reads tabular seed data from .xlsx or .csv files into rows keyed by
// normalized header names.
package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var ErrUnsupported = errors.New("spreadsheet: unsupported file type")

// Header aliases, applied after normalization.
var aliases = map[string]string{
	"date_of_approval": "start_date",
	"monthly_payment":  "monthly_repayment",
}

// Row is one data row. Line is the 1-based line in the source, header included.
type Row struct {
	Line   int
	Values map[string]string
}

// Get returns the trimmed cell for a normalized column name.
func (r Row) Get(col string) string { return strings.TrimSpace(r.Values[col]) }

func (r Row) Has(col string) bool { return r.Get(col) != "" }

// Read dispatches on the file extension.
func Read(path string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path)
	case ".csv":
		return ReadCSV(path)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(path))
}

// ReadXLSX reads the first sheet. Cells come back raw, so dates stay Excel serials.
func ReadXLSX(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet: %s has no sheets", filepath.Base(path))
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	return toRows(rows), nil
}

func ReadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return toRows(rows), nil
}

func toRows(raw [][]string) []Row {
	if len(raw) == 0 {
		return nil
	}
	header := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		header[i] = NormalizeHeader(h)
	}
	out := make([]Row, 0, len(raw)-1)
	for i, rec := range raw[1:] {
		vals := make(map[string]string, len(header))
		empty := true
		for j, col := range header {
			if col == "" || j >= len(rec) {
				continue
			}
			vals[col] = rec[j]
			if strings.TrimSpace(rec[j]) != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		out = append(out, Row{Line: i + 2, Values: vals})
	}
	return out
}

// NormalizeHeader lower-cases, trims and joins words with underscores, then applies
// column aliases: "Date of Approval" -> "start_date".
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	h = strings.Join(strings.Fields(h), "_")
	if a, ok := aliases[h]; ok {
		return a
	}
	return h
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006",
	"1/2/06",
	"01/02/2006",
	"02-01-2006",
}

// ParseDate accepts ISO dates, month/day/year forms and Excel serial day numbers.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial <= 0 {
			return time.Time{}, fmt.Errorf("invalid date serial %q", s)
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		return dateOnly(t), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseNumber accepts plain numbers with optional thousands separators.
func ParseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, errors.New("empty number")
	}
	return strconv.ParseFloat(s, 64)
}

// ParseID accepts integral values, including spreadsheet floats such as "12.0".
func ParseID(s string) (uint64, error) {
	f, err := ParseNumber(s)
	if err != nil {
		return 0, err
	}
	if f <= 0 || f != float64(uint64(f)) {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint64(f), nil
}
