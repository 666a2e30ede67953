package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskRentalReminder is the task type for overdue rental reminders.
	TaskRentalReminder = "rentals:remind"
	// TaskSupplierImport is the task type for CSV supplier imports.
	TaskSupplierImport = "suppliers:import"
)

// RentalReminderPayload bounds which open rentals get a reminder.
type RentalReminderPayload struct {
	OlderThanHours int `json:"olderThanHours"`
}

// NewRentalReminderTask constructs an Asynq task for rental reminders.
func NewRentalReminderTask(payload RentalReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRentalReminder, data), nil
}

// SupplierImportPayload carries the raw CSV handed off by the upload endpoint.
type SupplierImportPayload struct {
	CSV []byte `json:"csv"`
}

// NewSupplierImportTask constructs an Asynq task for a supplier CSV import.
func NewSupplierImportTask(payload SupplierImportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSupplierImport, data), nil
}
