package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/mind-engage/safety-quiz/internal/auth"
	"github.com/mind-engage/safety-quiz/internal/rbac"
	"github.com/mind-engage/safety-quiz/internal/results"
)

// GET /results?passed=true|false&q=name
// Non-admin users only see rows of their own organization.
func ListResultsHandler(sink results.Sink) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := sink.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		org := auth.OrganizationFromContext(r.Context())
		admin := checker.Has(rbac.RoleFromContext(r.Context()), "*")
		q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
		var passed *bool
		if v := r.URL.Query().Get("passed"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				http.Error(w, "passed must be true or false", http.StatusBadRequest)
				return
			}
			passed = &b
		}

		out := make([]results.Row, 0, len(rows))
		for _, row := range rows {
			if !admin && org != "" && !strings.EqualFold(row.Organization, org) {
				continue
			}
			if passed != nil && row.Passed != *passed {
				continue
			}
			if q != "" && !strings.Contains(strings.ToLower(row.ParticipantName), q) {
				continue
			}
			out = append(out, row)
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"results": out, "count": len(out)})
	}
}
