package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"go-account-service/internal/model"
)

type pinger interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	db pinger
}

func NewHealthHandler(db pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Health(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(model.APIResponse{
				Success: false,
				Error:   &model.APIError{Code: "unhealthy", Message: "database unreachable"},
			})
			return
		}
	}

	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
