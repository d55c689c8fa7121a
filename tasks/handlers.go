package tasks

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/taskmaster-go/apperror"
	"github.com/user/taskmaster-go/auth"
	"github.com/user/taskmaster-go/respond"
	"github.com/user/taskmaster-go/validation"
)

// Handlers exposes the task Service over HTTP. Every route expects the
// identity placed in the request context by auth.RequireToken.
type Handlers struct {
	service *Service
}

// NewHandlers creates Handlers for service.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the task routes on r, which is normally the router
// mounted at /tasks.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList())
	r.Post("/", h.HandleCreate())
	r.Get("/{id}", h.HandleGet())
	r.Put("/{id}", h.HandleUpdate())
	r.Delete("/{id}", h.HandleDelete())
}

// HandleList godoc
// @Summary List tasks
// @Description Returns every task of the authenticated user, newest first.
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} respond.Envelope{data=tasks.TaskListData}
// @Failure 401 {object} apperror.ErrorResponse "Unauthenticated."
// @Failure 500 {object} apperror.ErrorResponse
// @Router /tasks [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		list, err := h.service.List(r.Context(), ownerID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.OK(w, http.StatusOK, "", TaskListData{Tasks: list})
	}
}

// HandleCreate godoc
// @Summary Create a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param task body tasks.TaskRequest true "Task fields"
// @Success 201 {object} respond.Envelope{data=tasks.TaskData} "Task created successfully"
// @Failure 401 {object} apperror.ErrorResponse "Unauthenticated."
// @Failure 422 {object} apperror.ErrorResponse "Validation failed"
// @Failure 500 {object} apperror.ErrorResponse
// @Router /tasks [post]
func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		var req TaskRequest
		if err := validation.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}

		task, err := h.service.Create(r.Context(), ownerID, req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.OK(w, http.StatusCreated, msgCreated, TaskData{Task: task})
	}
}

// HandleGet godoc
// @Summary Get a task
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} respond.Envelope{data=tasks.TaskData}
// @Failure 401 {object} apperror.ErrorResponse "Unauthenticated."
// @Failure 404 {object} apperror.ErrorResponse "Task not found"
// @Router /tasks/{id} [get]
func (h *Handlers) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := taskIDFromRequest(w, r)
		if !ok {
			return
		}

		task, err := h.service.Get(r.Context(), ownerID, id)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.OK(w, http.StatusOK, "", TaskData{Task: task})
	}
}

// HandleUpdate godoc
// @Summary Replace a task
// @Description Overwrites title, description, due date and status.
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param task body tasks.TaskRequest true "Task fields"
// @Success 200 {object} respond.Envelope{data=tasks.TaskData} "Task updated successfully"
// @Failure 401 {object} apperror.ErrorResponse "Unauthenticated."
// @Failure 404 {object} apperror.ErrorResponse "Task not found"
// @Failure 422 {object} apperror.ErrorResponse "Validation failed"
// @Router /tasks/{id} [put]
func (h *Handlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		// The body is validated before the id so that a bad body on a
		// missing task still reports 422.
		var req TaskRequest
		if err := validation.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}

		id, err := parseTaskID(r)
		if err != nil {
			if _, verr := h.service.validate(&req); verr != nil {
				respond.Error(w, r, verr)
				return
			}
			respond.Error(w, r, err)
			return
		}

		task, err := h.service.Update(r.Context(), ownerID, id, req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.OK(w, http.StatusOK, msgUpdated, TaskData{Task: task})
	}
}

// HandleDelete godoc
// @Summary Delete a task
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} respond.Envelope "Task deleted successfully"
// @Failure 401 {object} apperror.ErrorResponse "Unauthenticated."
// @Failure 404 {object} apperror.ErrorResponse "Task not found"
// @Router /tasks/{id} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := taskIDFromRequest(w, r)
		if !ok {
			return
		}

		if err := h.service.Delete(r.Context(), ownerID, id); err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.OK(w, http.StatusOK, msgDeleted, nil)
	}
}

func ownerFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, r, apperror.NewUnauthenticatedError(auth.MsgUnauthenticated, nil))
		return 0, false
	}
	return identity.UserID, true
}

func taskIDFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := parseTaskID(r)
	if err != nil {
		respond.Error(w, r, err)
		return 0, false
	}
	return id, true
}

// parseTaskID reads {id}. Anything that is not a positive integer cannot
// name a task and is reported as not found.
func parseTaskID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewNotFoundError(msgNotFound, nil)
	}
	return id, nil
}
