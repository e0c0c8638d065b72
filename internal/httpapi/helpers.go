package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"quiz-maker/internal/quiz"
	"quiz-maker/internal/quizform"
)

const maxBodyBytes = 1 << 20

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrQuizNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "quiz not found"})
	case errors.Is(err, quiz.ErrInvalidQuizID):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id must be a positive integer"})
	case errors.Is(err, quizform.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "edit session not found"})
	case errors.Is(err, quizform.ErrSubmitPending):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "submission already in progress"})
	case errors.Is(err, quizform.ErrIndexOutOfRange):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "question or option index out of range"})
	default:
		log.Printf("request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

func parseBoolParam(r *http.Request, key string) bool {
	value := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key)))
	return value == "1" || value == "true" || value == "yes"
}

func parseIntParam(r *http.Request, key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return parsed, nil
}

func parseQuizID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, "quizID")), 10, 64)
	if err != nil || id <= 0 {
		return 0, quiz.ErrInvalidQuizID
	}
	return id, nil
}

// parseIndexParam reads a zero-based position from the route.
func parseIndexParam(r *http.Request, key string) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(chi.URLParam(r, key)))
	if err != nil || idx < 0 {
		return 0, quizform.ErrIndexOutOfRange
	}
	return idx, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

func writeMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
