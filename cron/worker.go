package cron

import (
	"context"
	"fmt"
	"time"

	"slotwise/config"
	"slotwise/services/tasks"
	"slotwise/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Completer finishes an appointment whose slot has elapsed.
type Completer interface {
	Complete(ctx context.Context, appointmentID string) error
}

// CompletionWorker consumes appointment completion tasks.
type CompletionWorker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

// RedisOpt returns the connection used by both the task client and the worker.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

func NewCompletionWorker(completer Completer) *CompletionWorker {
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger:   utils.GetLogger().Sugar(),
			LogLevel: asynq.WarnLevel,
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeCompleteAppointment, handleCompletionTask(completer))
	return &CompletionWorker{srv: srv, mux: mux}
}

// Start launches the worker, retrying with a growing backoff while Redis is unreachable.
func (w *CompletionWorker) Start() error {
	logger := utils.GetLogger()
	const maxAttempts = 5

	var err error
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = w.srv.Start(w.mux); err == nil {
			logger.Info("Completion worker started")
			return nil
		}
		logger.Warn("Completion worker failed to start",
			zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
		if attempts < maxAttempts {
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}
	return fmt.Errorf("completion worker: %w", err)
}

// Shutdown waits for in-flight tasks and stops the worker.
func (w *CompletionWorker) Shutdown() {
	w.srv.Shutdown()
}

func handleCompletionTask(completer Completer) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseCompleteAppointmentPayload(task)
		if err != nil {
			utils.GetLogger().Error("Invalid completion payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if err := completer.Complete(ctx, p.AppointmentID); err != nil {
			utils.GetLogger().Error("Failed to complete appointment",
				zap.String("appointmentID", p.AppointmentID), zap.Error(err))
			return err
		}
		return nil
	}
}
