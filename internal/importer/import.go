// Package importer reads planning data from CSV files. Each row is checked
// against a rule table for its kind; valid rows become domain records.
package importer

import (
	"fmt"
	"io"

	"github.com/alexanderramin/capplan/internal/domain"
)

// DefaultChunkSize is the number of rows processed between progress reports.
const DefaultChunkSize = 1000

// ProgressFunc receives the rows processed so far and the total.
type ProgressFunc func(processed, total int)

type Options struct {
	// AllowPartialImports skips invalid rows instead of aborting on the
	// first one.
	AllowPartialImports bool
	ChunkSize           int
	OnProgress          ProgressFunc
}

func (o Options) chunkSize() int {
	if o.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return o.ChunkSize
}

type Result struct {
	Kind     Kind
	Rows     int
	Imported int
	Skipped  int
	Errors   []Issue
	Warnings []Issue

	// Records holds only the newly created records.
	Records domain.Dataset
}

// ApplyTo appends the imported records to ds.
func (r *Result) ApplyTo(ds *domain.Dataset) {
	ds.People = append(ds.People, r.Records.People...)
	ds.Teams = append(ds.Teams, r.Records.Teams...)
	ds.Projects = append(ds.Projects, r.Records.Projects...)
	ds.Epics = append(ds.Epics, r.Records.Epics...)
	ds.Allocations = append(ds.Allocations, r.Records.Allocations...)
	ds.ActualAllocations = append(ds.ActualAllocations, r.Records.ActualAllocations...)
}

// Import parses r as CSV and converts its rows against ds. ds is not
// modified; apply the result with Result.ApplyTo.
func Import(kind Kind, r io.Reader, ds *domain.Dataset, opts Options) (*Result, error) {
	table, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}
	return ImportTable(kind, table, ds, opts)
}

// ImportTable is Import over an already parsed table. Without
// AllowPartialImports the first invalid row aborts with *ImportError and
// nothing is imported.
func ImportTable(kind Kind, table *Table, ds *domain.Dataset, opts Options) (*Result, error) {
	convert, ok := converters[kind]
	if !ok {
		return nil, fmt.Errorf("unknown import kind %q", kind)
	}

	ref := NewReference(ds)
	res := &Result{Kind: kind, Rows: len(table.Rows)}
	err := eachChunk(table.Rows, opts.chunkSize(), opts.OnProgress, func(row Row) error {
		vr := ValidateRow(kind, row, ref)
		res.Warnings = append(res.Warnings, vr.Warnings...)
		if !vr.IsValid {
			if !opts.AllowPartialImports {
				return &ImportError{Row: row.Number, Issues: vr.Errors}
			}
			res.Errors = append(res.Errors, vr.Errors...)
			res.Skipped++
			return nil
		}
		convert(row, ref, &res.Records)
		res.Imported++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ValidateBatch checks every row and reports all issues without producing
// records. Duplicates within the file are still detected.
func ValidateBatch(kind Kind, table *Table, ds *domain.Dataset, opts Options) (*Result, error) {
	opts.AllowPartialImports = true
	res, err := ImportTable(kind, table, ds, opts)
	if err != nil {
		return nil, err
	}
	res.Records = domain.Dataset{}
	return res, nil
}

func eachChunk(rows []Row, size int, progress ProgressFunc, fn func(Row) error) error {
	total := len(rows)
	for start := 0; start < total; start += size {
		end := min(start+size, total)
		for _, row := range rows[start:end] {
			if err := fn(row); err != nil {
				return err
			}
		}
		if progress != nil {
			progress(end, total)
		}
	}
	return nil
}
