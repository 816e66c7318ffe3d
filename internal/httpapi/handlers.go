// Package httpapi exposes the task store over HTTP/JSON.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"tasklist/internal/store"
)

const (
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"

	errInvalidBody = "invalid request body"
	errInvalidID   = "invalid task id"
	errEmptyPatch  = "no fields to update"
	errNotFound    = "task not found"
)

// Handler serves task requests against a store.
// Request-scoped logging comes from the request context.
type Handler struct {
	st store.TaskStore
}

// NewHandler creates a Handler.
func NewHandler(st store.TaskStore) *Handler {
	return &Handler{st: st}
}

type createRequest struct {
	Title string `json:"title"`
}

type statusResponse struct {
	State string `json:"state"`
	Tasks int    `json:"tasks"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ListTasks handles GET /tasks. It reads the current collection without latency.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.st.Snapshot())
}

// GetTask handles GET /tasks/{taskID}.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	task, found := h.st.Find(id)
	if !found {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// LoadTasks handles POST /tasks/load.
func (h *Handler) LoadTasks(w http.ResponseWriter, r *http.Request) {
	h.await(w, r, http.StatusOK, h.st.Load())
}

// CreateTask handles POST /tasks.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decode(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}
	title, err := store.NormalizeTitle(req.Title)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.await(w, r, http.StatusCreated, h.st.Create(title))
}

// UpdateTask handles PUT and PATCH /tasks/{taskID}.
// Only the supplied fields change; an unknown id leaves the list unchanged.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	var patch store.Patch
	if err := decode(r.Body, &patch); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}
	if patch.Empty() {
		writeError(w, http.StatusBadRequest, errEmptyPatch)
		return
	}
	if patch.Title != nil {
		title, err := store.NormalizeTitle(*patch.Title)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		patch.Title = &title
	}
	h.await(w, r, http.StatusOK, h.st.Update(id, patch))
}

// DeleteTask handles DELETE /tasks/{taskID}. Deleting an unknown id is not an error.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	h.await(w, r, http.StatusOK, h.st.Remove(id))
}

// Status handles GET /status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		State: h.st.State().String(),
		Tasks: len(h.st.Snapshot()),
	})
}

// await blocks until f resolves and writes the collection. If the client goes
// away first nothing is written; the operation still completes.
func (h *Handler) await(w http.ResponseWriter, r *http.Request, status int, f *store.Future) {
	tasks, err := f.Wait(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("client left before operation completed")
		return
	}
	writeJSON(w, status, tasks)
}

func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["taskID"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errInvalidID)
		return 0, false
	}
	return id, true
}

func decode(body io.Reader, v any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data")
	}
	return nil
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set(headerContentType, contentTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
