package handlers

import (
	"net/http"

	"placement/internal/app"
	"placement/internal/domain/profile"
	"placement/internal/http/response"
)

type ProfileHandler struct {
	profiles *app.ProfileService
}

func NewProfileHandler(profiles *app.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type studentProfileRequest struct {
	Email         string   `json:"email"`
	Name          string   `json:"name"`
	CGPA          float64  `json:"cgpa"`
	Experience    int      `json:"experience"`
	Branch        string   `json:"branch"`
	YearOfPassing int      `json:"year_of_passing"`
	Resumes       []string `json:"resumes"`
}

type recruiterProfileRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Company string `json:"company"`
}

type resumeRequest struct {
	ResumeLink string `json:"resume_link"`
}

type resumesResponse struct {
	Resumes []string `json:"resumes"`
}

func (h *ProfileHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.profiles.GetStudent(r.Context(), p.UserID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *ProfileHandler) UpsertStudent(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req studentProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.profiles.UpsertStudent(r.Context(), profile.Student{
		ID:            p.UserID,
		Email:         req.Email,
		Name:          req.Name,
		CGPA:          req.CGPA,
		Experience:    req.Experience,
		Branch:        req.Branch,
		YearOfPassing: req.YearOfPassing,
		Resumes:       req.Resumes,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *ProfileHandler) ListResumes(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	resumes, err := h.profiles.ListResumes(r.Context(), p.UserID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, resumesResponse{Resumes: resumes})
}

func (h *ProfileHandler) AddResume(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req resumeRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	resumes, err := h.profiles.AddResume(r.Context(), p.UserID, req.ResumeLink)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, resumesResponse{Resumes: resumes})
}

// RemoveResume takes the link from the resume_link query parameter, falling
// back to a JSON body.
func (h *ProfileHandler) RemoveResume(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	link := r.URL.Query().Get("resume_link")
	if link == "" {
		var req resumeRequest
		if err := decodeJSON(r, &req); err != nil {
			response.Error(w, err)
			return
		}
		link = req.ResumeLink
	}
	resumes, err := h.profiles.RemoveResume(r.Context(), p.UserID, link)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, resumesResponse{Resumes: resumes})
}

func (h *ProfileHandler) GetRecruiter(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.profiles.GetRecruiter(r.Context(), p.UserID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *ProfileHandler) UpsertRecruiter(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req recruiterProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.profiles.UpsertRecruiter(r.Context(), profile.Recruiter{
		ID:      p.UserID,
		Email:   req.Email,
		Name:    req.Name,
		Company: req.Company,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}
