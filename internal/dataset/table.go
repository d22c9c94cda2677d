package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format selects how a survey file is decoded.
type Format string

const (
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a user supplied name to a Format. Empty means auto.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "csv", "text", "delimited":
		return FormatCSV, nil
	case "tsv", "tab":
		return FormatTSV, nil
	case "xlsx", "excel", "spreadsheet":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use csv|tsv|xlsx)", s)
	}
}

// LoadOptions controls how a file is read into a Table.
type LoadOptions struct {
	Format Format
	// Delimiter for delimited text. If 0, chosen from the file extension.
	Delimiter rune
	// SheetName picks an XLSX sheet by name (case-insensitive).
	SheetName string
	// SheetIndex is 1-based and used when SheetName is empty.
	SheetIndex int
}

// Table is an in-memory copy of a tabular file. Header names are kept verbatim
// and every row is padded to the header width.
type Table struct {
	Name   string
	Sheet  string
	Header []string
	Rows   [][]string
}

// LoadError reports a file that could not be read or decoded.
type LoadError struct {
	Path string
	Op   string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ErrNoHeader indicates an input without a header row.
var ErrNoHeader = errors.New("no header row")

// Load reads path according to opt. A table is returned only when the whole
// file decoded; no partial results.
func Load(path string, opt LoadOptions) (*Table, error) {
	format := opt.Format
	if format == "" || format == FormatAuto {
		format = detectFormat(path)
	}
	var (
		t   *Table
		err error
	)
	switch format {
	case FormatXLSX:
		t, err = loadXLSX(path, opt.SheetName, opt.SheetIndex)
	case FormatCSV, FormatTSV:
		delim := opt.Delimiter
		if delim == 0 {
			delim = sniffDelimiter(path)
			if format == FormatTSV {
				delim = '\t'
			}
		}
		t, err = loadDelimited(path, delim)
	default:
		return nil, &LoadError{Path: path, Op: "load", Err: fmt.Errorf("unsupported format %q", format)}
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Column returns the index of a header. Exact matches win; otherwise a
// trimmed, case-insensitive match is accepted.
func (t *Table) Column(name string) (int, bool) {
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for i, h := range t.Header {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i, true
		}
	}
	return -1, false
}

func loadDelimited(path string, delim rune) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Op: "open csv", Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Path: path, Op: "read header", Err: ErrNoHeader}
		}
		return nil, &LoadError{Path: path, Op: "read header", Err: err}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	t := &Table{Name: filepath.Base(path), Header: header}
	ncol := len(header)
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &LoadError{Path: path, Op: fmt.Sprintf("read row %d", len(t.Rows)+1), Err: err}
		}
		t.Rows = append(t.Rows, padRow(rec, ncol))
	}
	return t, nil
}

func padRow(rec []string, ncol int) []string {
	n := ncol
	if len(rec) > n {
		n = len(rec)
	}
	row := make([]string, n)
	copy(row, rec)
	return row
}

func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".tsv", ".tab":
		return FormatTSV
	default:
		return FormatCSV
	}
}

func sniffDelimiter(path string) rune {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".tab") {
		return '\t'
	}
	return ','
}
