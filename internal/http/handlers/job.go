package handlers

import (
	"net/http"
	"strings"

	"placement/internal/app"
	"placement/internal/common"
	"placement/internal/domain/job"
	"placement/internal/http/response"
)

type JobHandler struct {
	jobs *app.JobService
}

func NewJobHandler(jobs *app.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

type jobRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Company          string   `json:"company"`
	Type             string   `json:"type"`
	MinCGPA          float64  `json:"min_cgpa"`
	MinExperience    int      `json:"min_experience"`
	RequiredBranches []string `json:"required_branches"`
	Location         string   `json:"location"`
	Salary           string   `json:"salary"`
}

func (req jobRequest) toJob(id, postedBy common.ID) job.Job {
	return job.Job{
		ID:               id,
		Title:            req.Title,
		Description:      req.Description,
		Company:          req.Company,
		Type:             job.Type(req.Type),
		MinCGPA:          req.MinCGPA,
		MinExperience:    req.MinExperience,
		RequiredBranches: req.RequiredBranches,
		Location:         req.Location,
		Salary:           req.Salary,
		PostedBy:         postedBy,
	}
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req jobRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.jobs.Create(r.Context(), req.toJob("", p.UserID))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	jobID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req jobRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.jobs.Update(r.Context(), req.toJob(jobID, p.UserID))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	jobID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.jobs.Get(r.Context(), jobID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.jobs.List(r.Context(), job.Filter{Type: job.Type(r.URL.Query().Get("type"))})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *JobHandler) ListByRecruiter(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.jobs.ListByRecruiter(r.Context(), p.UserID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *JobHandler) ListEligible(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	query := r.URL.Query()
	eligibleOnly, err := queryBool(r, "eligibleOnly")
	if err != nil {
		response.Error(w, err)
		return
	}
	sortBy := strings.TrimSpace(query.Get("sortBy"))
	switch sortBy {
	case "":
		sortBy = app.SortByCreatedAt
	case app.SortByCreatedAt, app.SortByEligibility, app.SortBySalary:
	default:
		response.Error(w, common.NewValidationError("invalid query", map[string]string{"sortBy": "must be createdAt, eligibility or salary"}))
		return
	}
	ascending := false
	switch strings.ToLower(strings.TrimSpace(query.Get("orderBy"))) {
	case "", "desc":
	case "asc":
		ascending = true
	default:
		response.Error(w, common.NewValidationError("invalid query", map[string]string{"orderBy": "must be asc or desc"}))
		return
	}
	items, err := h.jobs.ListEligible(r.Context(), p.UserID, app.EligibleQuery{
		EligibleOnly: eligibleOnly,
		SortBy:       sortBy,
		Ascending:    ascending,
		Type:         job.Type(query.Get("type")),
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}
