package rest

import (
	"errors"
	"estatemap/internal/contextkeys"
	"estatemap/internal/core/domain"
	"estatemap/internal/core/port"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const degradedHeader = "X-Degraded-Read"

// FindListings обрабатывает GET /api/properties. Ошибка хранилища отдается
// как 500, встроенный набор здесь не подставляется.
func (h *EstateMapHandlers) FindListings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "FindListings"})

	criteria := domain.ParseCriteria(r.URL.Query())
	listings, err := h.findUC.Execute(r.Context(), criteria)
	if err != nil {
		logger.Error("Find listings use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	RespondWithJSON(w, http.StatusOK, toListingResponses(listings))
}

// LoadDashboard обрабатывает GET /api/dashboard - данные первой загрузки
// страницы с флагом деградированного чтения.
func (h *EstateMapHandlers) LoadDashboard(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "LoadDashboard"})

	view, err := h.dashboardUC.Execute(r.Context(), domain.ParseCriteria(r.URL.Query()))
	if err != nil {
		logger.Error("Load dashboard use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to load listings")
		return
	}

	if view.Degraded {
		w.Header().Set(degradedHeader, view.DegradedReason)
	}
	RespondWithJSON(w, http.StatusOK, DashboardResponse{
		Properties:     toListingResponses(view.Listings),
		Degraded:       view.Degraded,
		DegradedReason: view.DegradedReason,
		FilterOptions: FilterOptionsResponse{
			Types:     view.FilterOptions.Types,
			SaleModes: view.FilterOptions.SaleModes,
			Usages:    view.FilterOptions.Usages,
		},
	})
}

// ListMarkers обрабатывает GET /api/markers
func (h *EstateMapHandlers) ListMarkers(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListMarkers"})

	view, err := h.markersUC.Execute(r.Context(), domain.ParseCriteria(r.URL.Query()))
	if err != nil {
		logger.Error("List markers use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to load markers")
		return
	}

	resp := MarkersResponse{
		Markers:        make([]MarkerResponse, 0, len(view.Markers)),
		Skipped:        view.Skipped,
		Viewport:       toViewportResponse(view.Viewport),
		Degraded:       view.Degraded,
		DegradedReason: view.DegradedReason,
	}
	for _, m := range view.Markers {
		resp.Markers = append(resp.Markers, MarkerResponse{
			ID:      m.ID,
			Title:   m.Title,
			Price:   m.Price,
			Type:    m.Type,
			Lat:     m.Lat,
			Lng:     m.Lng,
			Geohash: m.Geohash,
		})
	}
	if view.Degraded {
		w.Header().Set(degradedHeader, view.DegradedReason)
	}
	RespondWithJSON(w, http.StatusOK, resp)
}

// GetListing обрабатывает GET /api/properties/{propertyID}
func (h *EstateMapHandlers) GetListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetListing"})

	idStr := chi.URLParam(r, "propertyID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		logger.Warn("Invalid property id in path", port.Fields{"provided_id": idStr})
		WriteJSONError(w, http.StatusBadRequest, "Invalid property id")
		return
	}

	detail, err := h.getUC.Execute(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			WriteJSONError(w, http.StatusNotFound, "Property not found")
			return
		}
		logger.Error("Get listing use case failed", err, port.Fields{"listing_id": id})
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if detail.Degraded {
		w.Header().Set(degradedHeader, domain.DegradedStoreUnavailable)
	}
	RespondWithJSON(w, http.StatusOK, toListingResponse(detail.Listing))
}
