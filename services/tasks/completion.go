package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"slotwise/models"

	"github.com/hibiken/asynq"
)

const TypeCompleteAppointment = "appointment:complete"

// NewCompleteAppointmentTask builds the task that completes a confirmed appointment at fireAt.
// The task id is derived from the appointment so re-confirming never queues a duplicate.
func NewCompleteAppointmentTask(payload models.CompleteAppointmentPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeCompleteAppointment, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("complete:" + payload.AppointmentID),
		asynq.MaxRetry(5),
	}
	return task, opts, nil
}

// ParseCompleteAppointmentPayload decodes the body of a completion task.
func ParseCompleteAppointmentPayload(task *asynq.Task) (models.CompleteAppointmentPayload, error) {
	var p models.CompleteAppointmentPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, err
	}
	if p.AppointmentID == "" {
		return p, errors.New("payload has no appointmentId")
	}
	return p, nil
}

// Scheduler queues follow-up work for appointments.
type Scheduler interface {
	ScheduleCompletion(ctx context.Context, appt *models.Appointment) error
}

// AsynqScheduler enqueues tasks on the asynq queue.
type AsynqScheduler struct {
	Client *asynq.Client
}

func NewAsynqScheduler(client *asynq.Client) *AsynqScheduler {
	return &AsynqScheduler{Client: client}
}

func (s *AsynqScheduler) ScheduleCompletion(ctx context.Context, appt *models.Appointment) error {
	task, opts, err := NewCompleteAppointmentTask(models.CompleteAppointmentPayload{AppointmentID: appt.ID}, appt.EndsAt())
	if err != nil {
		return err
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return err
	}
	return nil
}
