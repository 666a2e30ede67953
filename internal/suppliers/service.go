package suppliers

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/locagest/locagest/internal/catalog"
	"github.com/locagest/locagest/internal/intake"
	"github.com/locagest/locagest/internal/platform/httpx"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters catalog.ListFilters) ([]Supplier, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Supplier, error) {
	if id <= 0 {
		return Supplier{}, fmt.Errorf("%w: invalid supplier id", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	if err := validate(supplier); err != nil {
		return Supplier{}, err
	}
	return s.repo.Create(ctx, supplier)
}

func (s *Service) Update(ctx context.Context, id int64, supplier Supplier) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid supplier id", httpx.ErrValidation)
	}
	if err := validate(supplier); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, supplier)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid supplier id", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

// ImportCSV reads a header row plus data rows and creates one supplier per
// valid row. A bad row is reported with its line number and skipped; it never
// aborts the rest of the file.
func (s *Service) ImportCSV(ctx context.Context, source io.Reader) (ImportReport, error) {
	reader := csv.NewReader(source)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return ImportReport{}, fmt.Errorf("%w: empty file", httpx.ErrValidation)
	}
	if err != nil {
		return ImportReport{}, fmt.Errorf("%w: unreadable header: %v", httpx.ErrValidation, err)
	}

	fields := intake.MapColumns(header)
	if !hasField(fields, intake.FieldName) {
		return ImportReport{}, fmt.Errorf("%w: no recognized name column", httpx.ErrValidation)
	}

	report := ImportReport{Failures: []RowFailure{}}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Failures = append(report.Failures, RowFailure{Line: line, Reason: err.Error()})
			continue
		}
		supplier := FromRecord(intake.MapRow(fields, row))
		if _, err := s.Create(ctx, supplier); err != nil {
			report.Failures = append(report.Failures, RowFailure{Line: line, Reason: reason(err)})
			continue
		}
		report.Created++
	}
	return report, nil
}

func hasField(fields []string, want string) bool {
	for _, f := range fields {
		if f == want {
			return true
		}
	}
	return false
}

func reason(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

func validate(s Supplier) error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: supplier name is required", httpx.ErrValidation)
	}
	if s.UnitPrice < 0 {
		return fmt.Errorf("%w: unit price cannot be negative", httpx.ErrValidation)
	}
	if s.Quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", httpx.ErrValidation)
	}
	return nil
}
