package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/locagest/locagest/internal/suppliers"
)

// SupplierImportJob replays an uploaded CSV against the supplier service.
type SupplierImportJob struct {
	service *suppliers.Service
	logger  *slog.Logger
}

// NewSupplierImportJob constructs a SupplierImportJob.
func NewSupplierImportJob(service *suppliers.Service, logger *slog.Logger) *SupplierImportJob {
	return &SupplierImportJob{service: service, logger: logger}
}

// Handle processes TaskSupplierImport tasks. Malformed payloads and files that
// cannot be parsed at all are dropped instead of retried.
func (j *SupplierImportJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload SupplierImportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	report, err := j.service.ImportCSV(ctx, bytes.NewReader(payload.CSV))
	if err != nil {
		j.logger.Error("supplier import", slog.Any("error", err))
		return asynq.SkipRetry
	}
	j.logger.Info("supplier import finished",
		slog.Int("created", report.Created),
		slog.Int("failed", len(report.Failures)))
	return nil
}
