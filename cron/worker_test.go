package cron

import (
	"context"
	"errors"
	"testing"

	"slotwise/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestHandleCompletionTask(t *testing.T) {
	c := new(mockCompleter)
	c.On("Complete", mock.Anything, "appt-1").Return(nil).Once()
	c.On("Complete", mock.Anything, "appt-2").Return(errors.New("mongo down")).Once()
	handler := handleCompletionTask(c)

	assert.NoError(t, handler(context.Background(), asynq.NewTask(tasks.TypeCompleteAppointment, []byte(`{"appointmentId":"appt-1"}`))))
	assert.Error(t, handler(context.Background(), asynq.NewTask(tasks.TypeCompleteAppointment, []byte(`{"appointmentId":"appt-2"}`))))

	err := handler(context.Background(), asynq.NewTask(tasks.TypeCompleteAppointment, []byte(`not json`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	c.AssertExpectations(t)
}
