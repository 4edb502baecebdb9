package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/and161185/paperless-mirror/internal/api"
	"github.com/and161185/paperless-mirror/internal/convert"
	"github.com/and161185/paperless-mirror/internal/errs"
	"github.com/and161185/paperless-mirror/internal/paperless"
)

// statusClientClosedRequest is reported when the caller went away mid-request.
const statusClientClosedRequest = 499

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListInstances(w http.ResponseWriter, r *http.Request) {
	list, err := s.instances.List(r.Context())
	if err != nil {
		s.fail(w, err, "list instances")
		return
	}
	s.respondJSON(w, http.StatusOK, api.ListInstancesResponse{Instances: convert.ToAPIInstances(list)})
}

func (s *Server) handleSetFilterTags(w http.ResponseWriter, r *http.Request) {
	id, err := convert.ParseID("instance id", chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err, "set filter tags")
		return
	}
	var body struct {
		Tags []int `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.instances.SetFilterTags(r.Context(), id, body.Tags); err != nil {
		s.fail(w, err, "set filter tags")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	id, err := convert.ParseID("instance id", chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err, "sync")
		return
	}
	sum, err := s.sync.Sync(r.Context(), id)
	if err != nil {
		s.fail(w, err, "sync")
		return
	}
	s.respondJSON(w, http.StatusOK, convert.ToAPISummary(sum))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, err := convert.ParseID("instance id", chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err, "history")
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil {
			s.respondError(w, http.StatusBadRequest, "bad limit")
			return
		}
	}
	runs, err := s.sync.History(r.Context(), id, limit)
	if err != nil {
		s.fail(w, err, "history")
		return
	}
	s.respondJSON(w, http.StatusOK, api.ListHistoryResponse{Runs: convert.ToAPIHistory(runs)})
}

func (s *Server) handleSubmitResult(w http.ResponseWriter, r *http.Request) {
	docID, err := convert.ParseID("document id", chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err, "submit result")
		return
	}
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	changes, err := convert.FromAPIChanges(raw)
	if err != nil {
		s.fail(w, err, "submit result")
		return
	}
	res, err := s.suggestions.Submit(r.Context(), docID, changes)
	if err != nil {
		s.fail(w, err, "submit result")
		return
	}
	s.respondJSON(w, http.StatusCreated, api.SubmitResultResponse{ID: res.ID.String(), CreatedAt: res.CreatedAt})
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	docID, err := convert.ParseID("document id", chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err, "get result")
		return
	}
	res, err := s.suggestions.Get(r.Context(), docID)
	if err != nil {
		s.fail(w, err, "get result")
		return
	}
	out, err := convert.ToAPIResult(res)
	if err != nil {
		s.fail(w, err, "get result")
		return
	}
	s.respondJSON(w, http.StatusOK, out)
}

// fail maps service errors to HTTP statuses.
func (s *Server) fail(w http.ResponseWriter, err error, op string) {
	var perr *paperless.Error
	switch {
	case errors.Is(err, errs.ErrInvalidArgument):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, errs.ErrAlreadyExists):
		s.respondError(w, http.StatusConflict, "already exists")
	case errors.Is(err, errs.ErrRateLimited):
		s.respondError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, context.Canceled):
		s.logger.Debug(op+" canceled", zap.Error(err))
		s.respondError(w, statusClientClosedRequest, op+": canceled")
	case errors.Is(err, context.DeadlineExceeded):
		s.respondError(w, http.StatusGatewayTimeout, op+": deadline exceeded")
	case errors.As(err, &perr):
		s.logger.Warn(op+" failed", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, op+": remote: "+err.Error())
	default:
		s.logger.Error(op+" failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, op+" failed")
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
