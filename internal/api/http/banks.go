package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/safety-quiz/internal/bank"
)

// BankSource is the catalog of question banks.
type BankSource interface {
	List() ([]string, error)
	Load(id string) (*bank.Bank, error)
}

// GET /banks
func ListBanksHandler(banks BankSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := banks.List()
		if err != nil {
			writeError(w, err)
			return
		}
		if ids == nil {
			ids = []string{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"banks": ids})
	}
}

// GET /banks/{bankID}/topics
func BankTopicsHandler(banks BankSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := banks.Load(chi.URLParam(r, "bankID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"bank_id":   b.ID,
			"topics":    b.Topics(),
			"questions": len(b.Records),
		})
	}
}
