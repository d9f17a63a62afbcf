package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrEmptyFile = errors.New("file has no header row")

// Row is one data line keyed by normalised header. Number is the
// spreadsheet row: the header is row 1, so the first data line is row 2.
type Row struct {
	Number int
	Values map[string]string
}

// Get returns the trimmed value of a column, or "" when absent.
func (r Row) Get(col string) string {
	return strings.TrimSpace(r.Values[col])
}

// Has reports whether a column holds a non-blank value.
func (r Row) Has(col string) bool {
	return r.Get(col) != ""
}

type Table struct {
	Headers []string
	Rows    []Row
}

// NormalizeHeader lower-cases a header and joins its words with
// underscores, so "Team Name" and " team_name" map to the same column.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.Join(strings.Fields(strings.ToLower(h)), "_")
}

// ReadCSV parses a CSV document whose first line is the header. Rows with
// only blank cells are skipped; row numbers still match the source lines.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	t := &Table{Headers: make([]string, len(header))}
	for i, h := range header {
		t.Headers[i] = NormalizeHeader(h)
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		if blank(rec) {
			continue
		}
		line, _ := cr.FieldPos(0)

		row := Row{Number: line, Values: make(map[string]string, len(t.Headers))}
		for i, col := range t.Headers {
			if i < len(rec) && col != "" {
				row.Values[col] = rec[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
