package http

import (
	"net/http"
	"strings"
	"time"

	"placement/internal/http/handlers"
	"placement/internal/http/metrics"
	httpmw "placement/internal/http/middleware"
	"placement/internal/security"
)

type RouterDependencies struct {
	JobHandler         *handlers.JobHandler
	ProfileHandler     *handlers.ProfileHandler
	ApplicationHandler *handlers.ApplicationHandler
	MetricsHandler     *handlers.MetricsHandler
	AuthMiddleware     *httpmw.AuthMiddleware
	Metrics            *metrics.Collector
	RequestTimeout     time.Duration
}

type Router struct {
	deps    RouterDependencies
	handler http.Handler
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	r := &Router{deps: deps}
	r.handler = httpmw.Chain(r.baseHandler(), httpmw.RequestID, httpmw.Logging, httpmw.BodyLimit(maxBodyBytes), httpmw.Recover, httpmw.Metrics(deps.Metrics), httpmw.Timeout(deps.RequestTimeout))
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := strings.TrimSuffix(req.URL.Path, "/")

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			r.deps.MetricsHandler.Get(w, req)
			return
		case req.Method == http.MethodGet && path == "/jobs":
			r.deps.JobHandler.List(w, req)
			return
		case req.Method == http.MethodGet && segmentCount(path) == 2 && strings.HasPrefix(path, "/jobs/"):
			r.deps.JobHandler.Get(w, req)
			return
		}

		if strings.HasPrefix(path, "/jobs") || strings.HasPrefix(path, "/students") || strings.HasPrefix(path, "/recruiters") || strings.HasPrefix(path, "/applications") {
			protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req, path)
			}))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request, path string) {
	student := httpmw.RequireRole(security.RoleStudent)
	recruiter := httpmw.RequireRole(security.RoleRecruiter)

	switch {
	case req.Method == http.MethodGet && path == "/students/profile":
		student(http.HandlerFunc(r.deps.ProfileHandler.GetStudent)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPut && path == "/students/profile":
		student(http.HandlerFunc(r.deps.ProfileHandler.UpsertStudent)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/students/resumes":
		student(http.HandlerFunc(r.deps.ProfileHandler.ListResumes)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/students/resumes":
		student(http.HandlerFunc(r.deps.ProfileHandler.AddResume)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodDelete && path == "/students/resumes":
		student(http.HandlerFunc(r.deps.ProfileHandler.RemoveResume)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/students/jobs/eligible":
		student(http.HandlerFunc(r.deps.JobHandler.ListEligible)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/recruiters/profile":
		recruiter(http.HandlerFunc(r.deps.ProfileHandler.GetRecruiter)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPut && path == "/recruiters/profile":
		recruiter(http.HandlerFunc(r.deps.ProfileHandler.UpsertRecruiter)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/recruiters/jobs":
		recruiter(http.HandlerFunc(r.deps.JobHandler.ListByRecruiter)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/jobs":
		recruiter(http.HandlerFunc(r.deps.JobHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPut && segmentCount(path) == 2 && strings.HasPrefix(path, "/jobs/"):
		recruiter(http.HandlerFunc(r.deps.JobHandler.Update)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && segmentCount(path) == 3 && strings.HasPrefix(path, "/jobs/") && strings.HasSuffix(path, "/applications"):
		recruiter(http.HandlerFunc(r.deps.ApplicationHandler.ListByJob)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && segmentCount(path) == 4 && strings.HasPrefix(path, "/jobs/") && strings.HasSuffix(path, "/applications/rebuild"):
		recruiter(http.HandlerFunc(r.deps.ApplicationHandler.RebuildReferences)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/applications":
		student(http.HandlerFunc(r.deps.ApplicationHandler.Apply)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/applications":
		r.deps.ApplicationHandler.List(w, req)
		return
	case req.Method == http.MethodPatch && segmentCount(path) == 3 && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/status"):
		recruiter(http.HandlerFunc(r.deps.ApplicationHandler.UpdateStatus)).ServeHTTP(w, req)
		return
	}

	http.NotFound(w, req)
}

func segmentCount(path string) int {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return 0
	}
	return strings.Count(trimmed, "/") + 1
}
