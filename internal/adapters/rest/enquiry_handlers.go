package rest

import (
	"encoding/json"
	"errors"
	"estatemap/internal/contextkeys"
	"estatemap/internal/contracts"
	"estatemap/internal/core/domain"
	"estatemap/internal/core/port"
	"io"
	"net/http"
)

const maxEnquiryBodyBytes = 64 << 10

// SubmitEnquiry обрабатывает POST /api/enquiry
func (h *EstateMapHandlers) SubmitEnquiry(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SubmitEnquiry"})

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEnquiryBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteJSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		logger.Warn("Failed to read request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Validate(contracts.EnquiryRequest, contracts.V1, body); err != nil {
		var ce *domain.RequestContractError
		if errors.As(err, &ce) {
			logger.Warn("Enquiry body violates request contract", port.Fields{"problems": ce.Problems})
			writeJSONErrorWith(w, http.StatusBadRequest, "Invalid request body", map[string]interface{}{"problems": ce.Problems})
			return
		}
		logger.Error("Enquiry contract check failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	var req EnquiryRequest
	if err := json.Unmarshal(body, &req); err != nil {
		logger.Warn("Failed to decode enquiry body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.enquiryUC.Execute(r.Context(), req.toDomain()); err != nil {
		var ve *domain.EnquiryValidationError
		if errors.As(err, &ve) {
			writeJSONErrorWith(w, http.StatusBadRequest, "Missing required fields", map[string]interface{}{"fields": ve.MissingFields})
			return
		}
		logger.Error("Submit enquiry use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	RespondWithJSON(w, http.StatusOK, EnquiryResponse{Success: true, Message: "Enquiry sent successfully!"})
}
