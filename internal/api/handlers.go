// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ManuGH/confj"
	xglog "github.com/ManuGH/confj/internal/log"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"keys":   s.source.Current().Len(),
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

// handleConfig returns the whole document. ?pretty renders it with Format.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeData(w, r, s.source.Current())
}

// handleQuery resolves the rest of the URL as a dotted path.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(chi.URLParam(r, "*"), "/")
	if path == "" {
		writeData(w, r, s.source.Current())
		return
	}

	v, err := s.source.Current().Query(path)
	switch {
	case errors.Is(err, confj.ErrNoOption):
		writeError(w, http.StatusNotFound, "no_such_option", err)
		return
	case err != nil:
		xglog.FromContext(r.Context()).Error().
			Err(err).
			Str(xglog.FieldEvent, "api.query_failed").
			Str(xglog.FieldPath, path).
			Msg("config query failed")
		writeError(w, http.StatusInternalServerError, "query_failed", err)
		return
	}

	if d, ok := v.(*confj.Data); ok {
		writeData(w, r, d)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.reloader.Reload(r.Context()); err != nil {
		s.logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "api.reload_failed").
			Str(xglog.FieldRequestID, xglog.RequestIDFromContext(r.Context())).
			Msg("reload requested over HTTP failed")
		writeError(w, http.StatusUnprocessableEntity, "reload_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "reloaded",
		"keys":   s.source.Current().Len(),
	})
}

func writeData(w http.ResponseWriter, r *http.Request, d *confj.Data) {
	if _, ok := r.URL.Query()["pretty"]; ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = d.Print(w)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
