package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/locagest/locagest/internal/rentals"
)

// RentalReminderJob pushes reminder notifications for long-running rentals.
type RentalReminderJob struct {
	service *rentals.Service
	logger  *slog.Logger
}

// NewRentalReminderJob constructs a RentalReminderJob.
func NewRentalReminderJob(service *rentals.Service, logger *slog.Logger) *RentalReminderJob {
	return &RentalReminderJob{service: service, logger: logger}
}

// Handle processes TaskRentalReminder tasks.
func (j *RentalReminderJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload RentalReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	age := time.Duration(payload.OlderThanHours) * time.Hour
	if age <= 0 {
		age = 7 * 24 * time.Hour
	}
	reminded, err := j.service.RemindOverdue(ctx, age)
	if err != nil {
		j.logger.Error("rental reminder scan", slog.Any("error", err))
		return err
	}
	j.logger.Info("rental reminders sent", slog.Int("count", reminded))
	return nil
}
