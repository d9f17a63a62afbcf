package service

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/importer"
)

type importService struct {
	scenarios ScenarioService
	chunkSize int
	observer  UseCaseObserver
}

// NewImportService imports into the working set. chunkSize applies when
// the caller's options leave it unset.
func NewImportService(scenarios ScenarioService, chunkSize int, observers ...UseCaseObserver) ImportService {
	return &importService{
		scenarios: scenarios,
		chunkSize: chunkSize,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func readTable(filePath string) (*importer.Table, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	table, err := importer.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}
	return table, nil
}

// ImportFile converts the file against the working set and stores the new
// records in one transaction. When the import aborts nothing is written.
func (s *importService) ImportFile(ctx context.Context, kind importer.Kind, filePath string, opts importer.Options) (result *importer.Result, err error) {
	uc := startUseCase(s.observer, "import-csv")
	uc.fields["kind"] = string(kind)
	uc.fields["partial"] = opts.AllowPartialImports
	defer func() { uc.finish(ctx, err) }()

	table, err := readTable(filePath)
	if err != nil {
		return nil, err
	}
	uc.fields["rows"] = len(table.Rows)
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = s.chunkSize
	}

	err = s.scenarios.UpdateWorkingSet(ctx, func(ds *domain.Dataset) error {
		res, err := importer.ImportTable(kind, table, ds, opts)
		if err != nil {
			return err
		}
		res.ApplyTo(ds)
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.fields["imported"] = result.Imported
	uc.fields["skipped"] = result.Skipped
	return result, nil
}

func (s *importService) ValidateFile(ctx context.Context, kind importer.Kind, filePath string, opts importer.Options) (result *importer.Result, err error) {
	uc := startUseCase(s.observer, "validate-csv")
	uc.fields["kind"] = string(kind)
	defer func() { uc.finish(ctx, err) }()

	table, err := readTable(filePath)
	if err != nil {
		return nil, err
	}
	ds, err := s.scenarios.WorkingSet(ctx)
	if err != nil {
		return nil, err
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = s.chunkSize
	}
	result, err = importer.ValidateBatch(kind, table, ds, opts)
	if err != nil {
		return nil, err
	}
	uc.fields["errors"] = len(result.Errors)
	return result, nil
}
