package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"taskflow/internal/analytics"
	"taskflow/internal/store"
	"taskflow/internal/task"
	"taskflow/internal/view"
)

// TaskHandler serves the task routes.
type TaskHandler struct {
	store  *store.Store
	now    func() time.Time
	logger *slog.Logger
}

func NewTaskHandler(st *store.Store, now func() time.Time, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{store: st, now: now, logger: logger}
}

type healthResponse struct {
	Status string `json:"status"`
	Tasks  int    `json:"tasks"`
}

type listResponse struct {
	Tasks []task.Task `json:"tasks"`
	Count int         `json:"count"`
}

type createRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *task.Date `json:"dueDate"`
	Priority    string     `json:"priority"`
}

type updateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type resultResponse struct {
	Applied bool       `json:"applied"`
	Task    *task.Task `json:"task,omitempty"`
	Count   int        `json:"count,omitempty"`
}

func newResultResponse(res store.Result) resultResponse {
	resp := resultResponse{Applied: res.Applied, Count: res.Count}
	if res.Applied && res.Task.ID != "" {
		t := res.Task
		resp.Task = &t
	}
	return resp
}

// Health handles GET /health
func (h *TaskHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Tasks: h.store.Len()})
}

// List handles GET /tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	priority, err := view.ParsePriorityFilter(q.Get("priority"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	status, err := view.ParseStatusFilter(q.Get("status"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sortKey, err := view.ParseSortKey(q.Get("sort"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := view.Filter{Search: q.Get("search"), Priority: priority, Status: status}
	tasks := view.Sort(filter.Apply(h.store.Tasks()), sortKey)
	if tasks == nil {
		tasks = []task.Task{}
	}
	writeJSON(w, http.StatusOK, listResponse{Tasks: tasks, Count: len(tasks)})
}

// Create handles POST /tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	title, err := task.ValidateTitle(req.Title)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cmd := store.AddTask{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		DueDate:     req.DueDate,
	}
	if req.Priority != "" {
		if cmd.Priority, err = task.ParsePriority(req.Priority); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	res := h.store.Dispatch(r.Context(), cmd)
	writeJSON(w, http.StatusCreated, res.Task)
}

// Get handles GET /tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, ok := h.store.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Update handles PATCH /tasks/{id}
// Omitted fields keep their current values.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	current, _ := h.store.Get(id)
	cmd := store.UpdateTask{ID: id, Title: current.Title, Description: current.Description}
	if req.Title != nil {
		title, err := task.ValidateTitle(*req.Title)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		cmd.Title = title
	}
	if req.Description != nil {
		cmd.Description = strings.TrimSpace(*req.Description)
	}

	writeJSON(w, http.StatusOK, newResultResponse(h.store.Dispatch(r.Context(), cmd)))
}

// ChangeStatus handles PUT /tasks/{id}/status
func (h *TaskHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	status, err := task.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cmd := store.ChangeStatus{ID: chi.URLParam(r, "id"), Status: status}
	writeJSON(w, http.StatusOK, newResultResponse(h.store.Dispatch(r.Context(), cmd)))
}

// Delete handles DELETE /tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cmd := store.DeleteTask{ID: chi.URLParam(r, "id")}
	writeJSON(w, http.StatusOK, newResultResponse(h.store.Dispatch(r.Context(), cmd)))
}

// Dispatch handles POST /dispatch with a {"type": ..., "payload": ...} envelope.
func (h *TaskHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	cmd, err := store.DecodeCommand(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Blank titles are rejected here; the store accepts whatever it is given.
	switch c := cmd.(type) {
	case store.AddTask:
		if c.Title, err = task.ValidateTitle(c.Title); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		cmd = c
	case store.UpdateTask:
		if c.Title, err = task.ValidateTitle(c.Title); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		cmd = c
	}

	res := h.store.Dispatch(r.Context(), cmd)
	h.logger.Debug("dispatched", "type", cmd.Type(), "applied", res.Applied, "request_id", RequestIDFrom(r.Context()))

	status := http.StatusOK
	if cmd.Type() == store.TypeAddTask {
		status = http.StatusCreated
	}
	writeJSON(w, status, newResultResponse(res))
}

// Stats handles GET /stats
func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, analytics.Compute(h.store.Tasks(), h.now()))
}
