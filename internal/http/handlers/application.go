package handlers

import (
	"net/http"
	"strings"
	"time"

	"placement/internal/app"
	"placement/internal/common"
	"placement/internal/domain/application"
	"placement/internal/http/middleware"
	"placement/internal/http/response"
	"placement/internal/security"
)

type ApplicationHandler struct {
	applications *app.ApplicationService
	limiter      middleware.Limiter
	applyLimit   int
}

// NewApplicationHandler limits applies per student and job to applyLimit a
// minute. A nil limiter or a zero limit disables the check.
func NewApplicationHandler(applications *app.ApplicationService, limiter middleware.Limiter, applyLimit int) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, limiter: limiter, applyLimit: applyLimit}
}

type applyRequest struct {
	JobID      string `json:"job_id"`
	ResumeLink string `json:"resume_link"`
}

func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req applyRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if strings.TrimSpace(req.JobID) == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"job_id": "job_id is required"}))
		return
	}
	jobID := common.ID(strings.TrimSpace(req.JobID))
	if h.limiter != nil && h.applyLimit > 0 {
		key := "apply:" + jobID.String() + ":" + p.UserID.String()
		if !h.limiter.Allow(key, h.applyLimit, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "apply rate limit exceeded", nil))
			return
		}
	}
	created, err := h.applications.Apply(r.Context(), p.UserID, jobID, req.ResumeLink)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

// List returns the student's own applications, or for a recruiter every
// application to their jobs with job and applicant attached.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	switch p.Role {
	case security.RoleStudent:
		items, err := h.applications.ListByStudent(r.Context(), p.UserID)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.JSON(w, http.StatusOK, items)
	case security.RoleRecruiter:
		items, err := h.applications.ListForRecruiter(r.Context(), p.UserID)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.JSON(w, http.StatusOK, items)
	default:
		response.Error(w, common.NewError(common.CodeForbidden, "insufficient role", nil))
	}
}

func (h *ApplicationHandler) ListByJob(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	jobID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.applications.ListByJobForRecruiter(r.Context(), p.UserID, jobID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

// RebuildReferences recomputes a job's advisory application list. Only the
// job owner may trigger it.
func (h *ApplicationHandler) RebuildReferences(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	jobID, err := idFromPath(r, 3)
	if err != nil {
		response.Error(w, err)
		return
	}
	if _, err := h.applications.ListByJobForRecruiter(r.Context(), p.UserID, jobID); err != nil {
		response.Error(w, err)
		return
	}
	if err := h.applications.RebuildReferences(r.Context(), "", jobID); err != nil {
		response.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	applicationID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.applications.UpdateStatus(r.Context(), applicationID, application.Status(req.Status), p.UserID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}
