package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/planwise/engine/internal/repository"
	"github.com/planwise/engine/pkg/logger"
	"go.uber.org/zap"
)

// TypePurge hard-deletes soft-deleted planning rows.
const TypePurge = "maintenance:purge"

// PurgePayload records what triggered a purge. It does not narrow the purge.
type PurgePayload struct {
	Reason   string `json:"reason"`
	EntityID string `json:"entity_id,omitempty"`
}

func NewPurgeTask(reason, entityID string) (*asynq.Task, error) {
	b, err := json.Marshal(PurgePayload{Reason: reason, EntityID: entityID})
	if err != nil {
		return nil, fmt.Errorf("marshal purge payload: %w", err)
	}
	return asynq.NewTask(TypePurge, b, asynq.MaxRetry(5), asynq.Timeout(5*time.Minute)), nil
}

// PurgeTaskHandler removes rows soft-deleted more than `after` ago.
type PurgeTaskHandler struct {
	repo  repository.PurgeRepository
	after time.Duration
	now   func() time.Time
}

func NewPurgeTaskHandler(repo repository.PurgeRepository, after time.Duration) *PurgeTaskHandler {
	return &PurgeTaskHandler{repo: repo, after: after, now: time.Now}
}

func (h *PurgeTaskHandler) HandlePurge(ctx context.Context, t *asynq.Task) error {
	var p PurgePayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			logger.L().Error("invalid purge task payload", zap.Error(err))
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
	}

	cutoff := h.now().Add(-h.after)
	logger.L().Info("handling purge task", zap.String("reason", p.Reason), zap.String("entity_id", p.EntityID), zap.Time("cutoff", cutoff))

	counts, err := h.repo.Purge(ctx, cutoff)
	fields := make([]zap.Field, 0, len(counts)+1)
	for table, n := range counts {
		fields = append(fields, zap.Int64(table, n))
	}
	if err != nil {
		logger.L().Error("purge failed", append(fields, zap.Error(err))...)
		return err
	}
	logger.L().Info("purge completed", fields...)
	return nil
}
