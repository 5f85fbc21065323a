package http

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
	"github.com/secmon-lab/grcboard/pkg/service/worker"
	"github.com/secmon-lab/grcboard/pkg/usecase"
	"github.com/secmon-lab/grcboard/pkg/utils/safe"
)

const (
	statusReady        = "ready"
	statusInitializing = "initializing"
)

type statusResponse struct {
	Status     string `json:"status"`
	Loading    bool   `json:"loading"`
	Version    uint64 `json:"version"`
	APIBaseURL string `json:"api_base_url,omitempty"`
	Variant    string `json:"variant,omitempty"`

	Refresh *worker.RefreshStatus `json:"refresh,omitempty"`
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	app := s.uc.App()
	resp := statusResponse{
		Status:     statusInitializing,
		Loading:    app.Loading(),
		Version:    app.Version(),
		APIBaseURL: app.APIBaseURL(),
		Variant:    s.uc.Variant().String(),
	}
	if app.Ready() {
		resp.Status = statusReady
	}
	if s.refresh != nil {
		status := s.refresh.Status()
		resp.Refresh = &status
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) notificationsHandler(w http.ResponseWriter, r *http.Request) {
	list := []model.Notification{}
	if s.notifications != nil {
		list = append(list, s.notifications.List()...)
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"notifications": list})
}

func (s *Server) refreshHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.App().RefreshAll(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) dashboardView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.uc.Dashboard.Overview(r.Context()))
}

// view serves the page model built by fn
func view[T any](fn func() T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, fn())
	}
}

// post decodes a draft from the body and submits it through the page form
func post[T any](form *usecase.Form[T], fn func(ctx context.Context, draft T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft T
		if err := decodeJSON(r, &draft); err != nil {
			handleError(w, r, err)
			return
		}
		if err := form.Post(r.Context(), draft, fn); err != nil {
			handleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

// formRoutes serves the state of a page form. PUT replaces the draft and opens the form,
// DELETE closes it and POST /submit sends the kept draft.
func formRoutes[T any](form *usecase.Form[T], submit func(ctx context.Context) error) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, r, http.StatusOK, form.State())
		})
		r.Put("/", func(w http.ResponseWriter, r *http.Request) {
			var draft T
			if err := decodeJSON(r, &draft); err != nil {
				handleError(w, r, err)
				return
			}
			form.Edit(draft)
			form.Open()
			writeJSON(w, r, http.StatusOK, form.State())
		})
		r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
			form.Close()
			w.WriteHeader(http.StatusNoContent)
		})
		r.Post("/submit", func(w http.ResponseWriter, r *http.Request) {
			if err := submit(r.Context()); err != nil {
				handleError(w, r, err)
				return
			}
			w.WriteHeader(http.StatusCreated)
		})
	}
}

func (s *Server) toggleFramework(w http.ResponseWriter, r *http.Request) {
	enabled, err := strconv.ParseBool(r.URL.Query().Get("enabled"))
	if err != nil {
		handleError(w, r, goerr.Wrap(errBadRequest, "invalid enabled parameter", goerr.V("enabled", r.URL.Query().Get("enabled"))))
		return
	}
	if err := s.uc.Framework.Toggle(r.Context(), chi.URLParam(r, "id"), enabled); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) loadFrameworkControls(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Framework.LoadFrameworkControls(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) uploadEvidence(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)
	if err := r.ParseMultipartForm(s.maxUploadSize); err != nil {
		handleError(w, r, goerr.Wrap(errBadRequest, "invalid multipart form", goerr.V("error", err.Error())))
		return
	}

	upload := model.EvidenceUpload{
		UnifiedControlID: r.FormValue("unified_control_id"),
		Description:      r.FormValue("description"),
	}

	// A missing file is reported by Upload
	if file, header, err := r.FormFile("file"); err == nil {
		defer safe.Close(r.Context(), file)
		content, err := io.ReadAll(file)
		if err != nil {
			handleError(w, r, goerr.Wrap(errBadRequest, "failed to read uploaded file"))
			return
		}
		upload.FileName = header.Filename
		upload.Content = content
	}

	if err := s.uc.Evidence.Upload(r.Context(), upload); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) updateIssueStatus(w http.ResponseWriter, r *http.Request) {
	status, err := types.ParseIssueStatus(r.URL.Query().Get("status"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.uc.Issue.Transition(r.Context(), chi.URLParam(r, "id"), status); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) advanceIssue(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Issue.Advance(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) grantException(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ExceptionDetails model.ExceptionDetails `json:"exception_details"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.uc.Issue.GrantException(r.Context(), chi.URLParam(r, "id"), body.ExceptionDetails); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) suggestRisks(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.uc.Risk.Suggest(r.Context(), r.URL.Query().Get("industry"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"risks": suggestions})
}

func (s *Server) useSuggestion(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		handleError(w, r, goerr.Wrap(errBadRequest, "invalid suggestion index", goerr.V("index", chi.URLParam(r, "index"))))
		return
	}
	if _, ok := s.uc.Risk.UseSuggestion(index); !ok {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, s.uc.Risk.Form.State())
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	kind, err := types.ParseAnalysisType(chi.URLParam(r, "type"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	panel, err := s.uc.Analysis.Analyze(r.Context(), kind, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, panel)
}

func (s *Server) analysisPanel(w http.ResponseWriter, r *http.Request) {
	kind, err := types.ParseAnalysisType(chi.URLParam(r, "type"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	panel, ok := s.uc.Analysis.Panel(kind)
	if !ok {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, panel)
}
