package tasks

import (
	"testing"
	"time"

	"slotwise/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteAppointmentTaskRoundTrip(t *testing.T) {
	fireAt := time.Now().Add(time.Hour)
	task, opts, err := NewCompleteAppointmentTask(models.CompleteAppointmentPayload{AppointmentID: "a1"}, fireAt)
	require.NoError(t, err)
	assert.Equal(t, TypeCompleteAppointment, task.Type())
	assert.Len(t, opts, 3)

	p, err := ParseCompleteAppointmentPayload(task)
	require.NoError(t, err)
	assert.Equal(t, "a1", p.AppointmentID)
}

func TestParseCompleteAppointmentPayload_Rejects(t *testing.T) {
	_, err := ParseCompleteAppointmentPayload(asynq.NewTask(TypeCompleteAppointment, []byte("{")))
	assert.Error(t, err)

	_, err = ParseCompleteAppointmentPayload(asynq.NewTask(TypeCompleteAppointment, []byte(`{}`)))
	assert.Error(t, err)
}
