package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/mind-engage/safety-quiz/internal/bank"
	"github.com/mind-engage/safety-quiz/internal/quiz"
	"github.com/mind-engage/safety-quiz/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, quiz.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, quiz.ErrSessionNotFound),
		errors.Is(err, bank.ErrBankNotFound),
		errors.Is(err, storage.ErrNotFound),
		errors.Is(err, storage.ErrInvalidKey):
		status = http.StatusNotFound
	case errors.Is(err, quiz.ErrWrongState):
		status = http.StatusConflict
	case errors.Is(err, quiz.ErrEmptyPool),
		errors.Is(err, bank.ErrMissingColumns):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		log.Printf("api: %v", err)
	}
	http.Error(w, err.Error(), status)
}
