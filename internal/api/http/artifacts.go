package http

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/safety-quiz/internal/auth"
	"github.com/mind-engage/safety-quiz/internal/quiz"
	"github.com/mind-engage/safety-quiz/internal/rbac"
	"github.com/mind-engage/safety-quiz/internal/storage"
)

var checker = rbac.NewChecker(nil)

// canReadArtifacts lets the session owner through, and anyone who may list
// results even after the session is gone.
func canReadArtifacts(r *http.Request, store quiz.Store, id string) bool {
	if checker.Has(rbac.RoleFromContext(r.Context()), rbac.PermResultsList) {
		return true
	}
	err := store.Update(id, auth.SubjectFromContext(r.Context()), func(*quiz.Session) error { return nil })
	return err == nil
}

// GET /sessions/{id}/artifacts
func ListArtifactsHandler(store quiz.Store, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !canReadArtifacts(r, store, id) {
			writeError(w, quiz.ErrSessionNotFound)
			return
		}
		keys, err := bs.List(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		names := make([]string, 0, len(keys))
		for _, k := range keys {
			names = append(names, path.Base(k))
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"artifacts": names})
	}
}

// GET /sessions/{id}/artifacts/{name}
func DownloadArtifactHandler(store quiz.Store, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, name := chi.URLParam(r, "id"), chi.URLParam(r, "name")
		if !canReadArtifacts(r, store, id) {
			writeError(w, quiz.ErrSessionNotFound)
			return
		}
		if name != path.Base(name) {
			writeError(w, storage.ErrInvalidKey)
			return
		}
		key, err := storage.Key(id, name)
		if err != nil {
			writeError(w, err)
			return
		}
		rc, err := bs.Get(r.Context(), key)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				err = errors.Join(storage.ErrNotFound, err)
			}
			writeError(w, err)
			return
		}
		defer rc.Close()
		ct := "application/octet-stream"
		if path.Ext(name) == ".pdf" {
			ct = "application/pdf"
		}
		w.Header().Set("Content-Type", ct)
		w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(name))
		_, _ = io.Copy(w, rc)
	}
}
