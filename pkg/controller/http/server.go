package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/service/worker"
	"github.com/secmon-lab/grcboard/pkg/usecase"
	"github.com/secmon-lab/grcboard/pkg/utils/logging"
)

// RefreshReporter exposes the outcome of periodic store refreshes
type RefreshReporter interface {
	Status() worker.RefreshStatus
}

// NotificationLister exposes the recent user-visible notifications
type NotificationLister interface {
	List() []model.Notification
}

type Server struct {
	router        *chi.Mux
	uc            *usecase.UseCases
	notifications NotificationLister
	refresh       RefreshReporter
	maxUploadSize int64
}

type Options func(*Server)

// WithNotifications serves the notifications of l on GET /api/notifications
func WithNotifications(l NotificationLister) Options {
	return func(s *Server) {
		s.notifications = l
	}
}

// WithRefreshStatus reports the refresh worker state on GET /api/status
func WithRefreshStatus(rr RefreshReporter) Options {
	return func(s *Server) {
		s.refresh = rr
	}
}

// WithMaxUploadSize limits the size of evidence uploads in bytes
func WithMaxUploadSize(n int64) Options {
	return func(s *Server) {
		s.maxUploadSize = n
	}
}

const defaultMaxUploadSize = 10 << 20

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:        r,
		uc:            uc,
		maxUploadSize: defaultMaxUploadSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		// Answered while the platform initializes
		r.Get("/status", s.statusHandler)
		r.Get("/notifications", s.notificationsHandler)

		r.Group(func(r chi.Router) {
			r.Use(readyOnly(uc.App()))

			r.Post("/refresh", s.refreshHandler)

			r.Route("/views", func(r chi.Router) {
				r.Get("/dashboard", s.dashboardView)
				r.Get("/frameworks", view(uc.Framework.View))
				r.Get("/control-mapping", view(uc.Control.MappingView))
				r.Get("/policies", view(uc.Policy.View))
				r.Get("/control-testing", view(uc.Testing.View))
				r.Get("/evidence", view(uc.Evidence.View))
				r.Get("/issues", view(uc.Issue.Board))
				r.Get("/risks", view(uc.Risk.View))
				r.Get("/kris", view(uc.KRI.Board))
				r.Get("/kcis", view(uc.KCI.Board))
			})

			r.Patch("/frameworks/{id}/toggle", s.toggleFramework)
			r.Post("/frameworks/controls/load", s.loadFrameworkControls)

			r.Post("/unified-controls", post(&uc.Control.Form, uc.Control.CreateUnifiedControl))
			r.Post("/policies", post(&uc.Policy.Form, uc.Policy.CreatePolicy))
			r.Post("/control-tests", post(&uc.Testing.Form, uc.Testing.SubmitTest))
			r.Post("/issues", post(&uc.Issue.Form, uc.Issue.CreateIssue))
			r.Post("/risks", post(&uc.Risk.Form, uc.Risk.CreateRisk))
			r.Post("/kris", post(&uc.KRI.Form, uc.KRI.CreateKRI))
			r.Post("/kcis", post(&uc.KCI.Form, uc.KCI.CreateKCI))

			r.Route("/forms", func(r chi.Router) {
				r.Route("/unified-controls", formRoutes(&uc.Control.Form, uc.Control.SubmitForm))
				r.Route("/policies", formRoutes(&uc.Policy.Form, uc.Policy.SubmitForm))
				r.Route("/control-tests", formRoutes(&uc.Testing.Form, uc.Testing.SubmitForm))
				r.Route("/issues", formRoutes(&uc.Issue.Form, uc.Issue.SubmitForm))
				r.Route("/risks", formRoutes(&uc.Risk.Form, uc.Risk.SubmitForm))
				r.Route("/kris", formRoutes(&uc.KRI.Form, uc.KRI.SubmitForm))
				r.Route("/kcis", formRoutes(&uc.KCI.Form, uc.KCI.SubmitForm))
			})
			r.Post("/evidence/upload", s.uploadEvidence)

			r.Patch("/issues/{id}/status", s.updateIssueStatus)
			r.Post("/issues/{id}/advance", s.advanceIssue)
			r.Patch("/issues/{id}/exception", s.grantException)

			r.Post("/risks/ai-suggest", s.suggestRisks)
			r.Post("/risks/suggestions/{index}/use", s.useSuggestion)
			r.Get("/analysis/{type}", s.analysisPanel)
			r.Post("/analysis/{type}/{id}", s.analyze)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
