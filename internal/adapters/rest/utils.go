package rest

import (
	"encoding/json"
	"net/http"
)

// WriteJSONError отправляет {"error": message} с заданным статусом.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	writeJSONErrorWith(w, statusCode, message, nil)
}

// writeJSONErrorWith добавляет к ответу с ошибкой дополнительные поля
// (fields, insertedCount, problems).
func writeJSONErrorWith(w http.ResponseWriter, statusCode int, message string, extra map[string]interface{}) {
	body := make(map[string]interface{}, len(extra)+1)
	for k, v := range extra {
		body[k] = v
	}
	body["error"] = message
	RespondWithJSON(w, statusCode, body)
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(response)
}
