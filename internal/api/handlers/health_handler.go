package handlers

import (
	"context"
	"net/http"

	"github.com/planwise/engine/internal/api/types"
	appErr "github.com/planwise/engine/pkg/errors"
	"github.com/planwise/engine/pkg/logger"
	"go.uber.org/zap"
)

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{}
	ready := true
	for name, ping := range h.checks {
		if err := ping(r.Context()); err != nil {
			logger.L().Warn("readiness check failed", zap.String("check", name), zap.Error(err))
			status[name] = "down"
			ready = false
			continue
		}
		status[name] = "up"
	}

	if !ready {
		writeJSON(w, http.StatusServiceUnavailable, types.APIResponse{
			Success: false,
			Data:    status,
			Error:   &types.APIError{Code: string(appErr.CodeUnavailable), Message: "not ready"},
		})
		return
	}
	status["status"] = "ready"
	writeOK(w, http.StatusOK, status)
}
