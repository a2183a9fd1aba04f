package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/flaphand/internal/store"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// RunsHandler serves /api/runs, /api/runs/best and /api/runs/{id}.
type RunsHandler struct {
	store *store.Store
}

func NewRunsHandler(s *store.Store) *RunsHandler {
	return &RunsHandler{store: s}
}

func (h *RunsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/runs"), "/")
	switch rest {
	case "":
		h.list(w, r)
	case "best":
		h.best(w)
	default:
		h.get(w, rest)
	}
}

type runResponse struct {
	*store.Run
	DurationMS int64 `json:"duration_ms"`
}

type listRunsResponse struct {
	Runs  []runResponse `json:"runs"`
	Total int           `json:"total"`
}

func toResponse(run *store.Run) runResponse {
	return runResponse{Run: run, DurationMS: run.Duration().Milliseconds()}
}

func (h *RunsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxListLimit)
	}

	runs, err := h.store.Runs().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}
	total, err := h.store.Runs().Count()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count runs")
		return
	}

	resp := listRunsResponse{Runs: make([]runResponse, 0, len(runs)), Total: total}
	for _, run := range runs {
		resp.Runs = append(resp.Runs, toResponse(run))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RunsHandler) best(w http.ResponseWriter) {
	run, err := h.store.Runs().Best()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No runs recorded")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get best run")
		return
	}
	writeJSON(w, http.StatusOK, toResponse(run))
}

func (h *RunsHandler) get(w http.ResponseWriter, id string) {
	run, err := h.store.Runs().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Run not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get run")
		return
	}
	writeJSON(w, http.StatusOK, toResponse(run))
}
