package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table bitta fayldan o'qilgan jadval: sarlavha va qatorlar
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
	index  map[string]int
}

// Column returns the index of a header (case-insensitive, trimmed) or -1.
func (t *Table) Column(name string) int {
	if t.index == nil {
		t.index = make(map[string]int, len(t.Header))
		for i, h := range t.Header {
			key := normalizeHeader(h)
			if _, exists := t.index[key]; !exists {
				t.index[key] = i
			}
		}
	}
	if i, ok := t.index[normalizeHeader(name)]; ok {
		return i
	}
	return -1
}

// Value returns the trimmed cell of row for column, or "" when absent.
func (t *Table) Value(row []string, column string) string {
	i := t.Column(column)
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Extras returns the non-empty cells of row whose header is not in known.
func (t *Table) Extras(row []string, known ...string) map[string]string {
	skip := make(map[string]struct{}, len(known))
	for _, k := range known {
		skip[normalizeHeader(k)] = struct{}{}
	}
	var out map[string]string
	for i, h := range t.Header {
		if i >= len(row) {
			break
		}
		if _, ok := skip[normalizeHeader(h)]; ok {
			continue
		}
		v := strings.TrimSpace(row[i])
		if v == "" || strings.TrimSpace(h) == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[strings.TrimSpace(h)] = v
	}
	return out
}

var ErrEmptyTable = errors.New("table has no header row")

// ExcelParser CSV va XLSX fayllarni jadvalga aylantiradi
type ExcelParser struct {
	separator rune
}

// NewExcelParser yangi parser; separator CSV uchun (odatda ';')
func NewExcelParser(separator rune) *ExcelParser {
	if separator == 0 {
		separator = ';'
	}
	return &ExcelParser{separator: separator}
}

// ParseFile fayl kengaytmasiga qarab CSV yoki XLSX o'qiydi
func (p *ExcelParser) ParseFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return p.ParseXLSX(f, name)
	default:
		return p.ParseCSV(f, name)
	}
}

// ParseCSV reads a delimited text table. The first non-empty row is the header.
func (p *ExcelParser) ParseCSV(r io.Reader, name string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = p.separator
	reader.FieldsPerRecord = -1 // allow variable columns per row
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		rows = append(rows, record)
	}
	return buildTable(name, rows)
}

// ParseXLSX reads the first sheet of a workbook.
func (p *ExcelParser) ParseXLSX(r io.Reader, name string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%s: open workbook: %w", name, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyTable)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%s: read rows: %w", name, err)
	}
	return buildTable(name, rows)
}

func buildTable(name string, rows [][]string) (*Table, error) {
	start := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyTable)
	}

	header := make([]string, len(rows[start]))
	for i, h := range rows[start] {
		header[i] = strings.TrimSpace(h)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	table := &Table{Name: name, Header: header}
	for _, row := range rows[start+1:] {
		if isBlankRow(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}

// NewTable builds a table from an already split header and rows (e.g. a SQL result set).
func NewTable(name string, header []string, rows [][]string) (*Table, error) {
	all := make([][]string, 0, len(rows)+1)
	all = append(all, header)
	all = append(all, rows...)
	return buildTable(name, all)
}
