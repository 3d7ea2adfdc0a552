package handlers

import (
	"encoding/json"
	"net/http"
	"taskManager/internal/logger"
)

const msgInternal = "Something went wrong. Please try again."

type Payload struct {
	Key     string
	Payload any
}

func toPayload(key string, pl any) Payload {
	return Payload{Key: key, Payload: pl}
}

func responseWithJSON(w http.ResponseWriter, code int, payload ...Payload) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	body := make(map[string]any, len(payload))
	for _, pl := range payload {
		body[pl.Key] = pl.Payload
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("HTTP: failed to encode response", err)
	}
}

// responseWithSuccess writes the {success, message, data?} envelope.
func responseWithSuccess(w http.ResponseWriter, code int, message string, data any) {
	payload := []Payload{
		toPayload("success", true),
		toPayload("message", message),
	}
	if data != nil {
		payload = append(payload, toPayload("data", data))
	}
	responseWithJSON(w, code, payload...)
}

func responseWithError(w http.ResponseWriter, code int, errCode, message string) {
	responseWithJSON(w, code,
		toPayload("success", false),
		toPayload("error", errCode),
		toPayload("message", message),
	)
}
