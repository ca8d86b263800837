package rest

import (
	"errors"
	"estatemap/internal/contextkeys"
	"estatemap/internal/core/domain"
	"estatemap/internal/core/port"
	"fmt"
	"net/http"
)

// SeedListings обрабатывает GET /api/seed
func (h *EstateMapHandlers) SeedListings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SeedListings"})

	result, err := h.seedUC.Execute(r.Context())
	if err != nil {
		var batchErr *domain.SeedBatchError
		if errors.As(err, &batchErr) {
			logger.Error("Seed stopped on failed batch", err, port.Fields{"inserted_count": batchErr.InsertedCount})
			writeJSONErrorWith(w, http.StatusInternalServerError, batchErr.Err.Error(),
				map[string]interface{}{"insertedCount": batchErr.InsertedCount})
			return
		}
		logger.Error("Seed use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if result.AlreadySeeded {
		count := result.ExistingCount
		RespondWithJSON(w, http.StatusOK, SeedResponse{Message: "Data already seeded", Count: &count})
		return
	}

	inserted := result.InsertedCount
	RespondWithJSON(w, http.StatusOK, SeedResponse{
		Success:       true,
		Message:       fmt.Sprintf("Seeded %d properties", inserted),
		InsertedCount: &inserted,
	})
}

// Health обрабатывает GET /healthz. Сервис жив и без хранилища (отдает
// встроенный набор), поэтому статус всегда 200.
func (h *EstateMapHandlers) Health(w http.ResponseWriter, r *http.Request) {
	status := h.healthUC.Execute(r.Context())
	if status.StoreReachable {
		RespondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok", Store: "reachable"})
		return
	}
	RespondWithJSON(w, http.StatusOK, HealthResponse{Status: "degraded", Store: "unreachable", StoreError: status.StoreError})
}
