// Package tasks defines the asynq task types exchanged between the API
// process and the background worker.
package tasks

import (
	"encoding/json"
	"time"

	"fuelq/models"

	"github.com/hibiken/asynq"
)

// TypeSendReminder is the task type for slot reminder delivery.
const TypeSendReminder = "reminder:send"

// NewReminderTask builds a reminder delivery task scheduled for fireAt.
// The reminder ID doubles as the task ID so re-scheduling the same reminder
// never enqueues it twice.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}

	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(payload.ReminderID),
		asynq.MaxRetry(3),
	}
	return asynq.NewTask(TypeSendReminder, b), opts, nil
}
