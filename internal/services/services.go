// Package services holds the account and planning use cases. Every
// operation on a planning resource is scoped to the calling user.
package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/planwise/engine/internal/queue/tasks"
	"github.com/planwise/engine/pkg/logger"
	"go.uber.org/zap"
)

// Enqueuer is the subset of *asynq.Client the services need.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// enqueuePurge schedules a purge after a cascading delete. It never fails
// the caller; the periodic purge catches anything missed here.
func enqueuePurge(ctx context.Context, q Enqueuer, reason string, id uuid.UUID) {
	if q == nil {
		logger.L().Debug("asynq client not configured, skipping purge enqueue", zap.String("entity_id", id.String()))
		return
	}
	task, err := tasks.NewPurgeTask(reason, id.String())
	if err != nil {
		logger.L().Warn("build purge task failed", zap.Error(err))
		return
	}
	if _, err := q.EnqueueContext(ctx, task); err != nil {
		logger.L().Warn("enqueue purge task failed", zap.Error(err), zap.String("entity_id", id.String()))
	}
}

// set copies a present optional value into an update column map.
func set[T any](fields map[string]any, column string, v *T) {
	if v != nil {
		fields[column] = *v
	}
}
