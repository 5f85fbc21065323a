package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/secmon-lab/grcboard/pkg/controller/http"
	"github.com/secmon-lab/grcboard/pkg/service/grcapi"
	"github.com/secmon-lab/grcboard/pkg/service/notify"
	"github.com/secmon-lab/grcboard/pkg/service/worker"
	"github.com/secmon-lab/grcboard/pkg/usecase"
)

// backend is a fake GRC backend speaking the enterprise API
type backend struct {
	mu       sync.Mutex
	policies []map[string]any
	uploads  []string
	analyzed []string
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()
	list := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, body)
		}
	}
	ok := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{}`)
	}

	mux.HandleFunc("POST /api/seed-production-data", ok)
	mux.HandleFunc("GET /api/frameworks", list(`[{"id":"fw-iso","name":"ISO 27001","enabled":true,"total_controls":93}]`))
	mux.HandleFunc("GET /api/unified-controls", list(`[{"id":"uc-1","ccf_id":"CCF-AC-01","name":"Access Review","health_score":80,"control_type":"Detective","frequency":"Quarterly"}]`))
	mux.HandleFunc("GET /api/policies", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		out := b.policies
		if out == nil {
			out = []map[string]any{}
		}
		_ = json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("GET /api/control-tests", list(`[]`))
	mux.HandleFunc("GET /api/evidence", list(`[]`))
	mux.HandleFunc("GET /api/issues", list(`[{"id":"issue-1","title":"Stale accounts","unified_control_id":"uc-1","severity":"High","status":"Open","has_exception":false}]`))
	mux.HandleFunc("GET /api/risks", list(`[{"id":"risk-1","name":"Data Breach","category":"Cyber","inherent_risk_score":9,"residual_risk_score":4.5,"linked_controls":["uc-1"],"kris":[]}]`))
	mux.HandleFunc("GET /api/kris", list(`[]`))
	mux.HandleFunc("GET /api/kcis", list(`[]`))
	mux.HandleFunc("GET /api/dashboard/stats", list(`{"total_frameworks":1,"enabled_frameworks":1}`))

	mux.HandleFunc("POST /api/policies", func(w http.ResponseWriter, r *http.Request) {
		var p map[string]any
		_ = json.NewDecoder(r.Body).Decode(&p)
		p["id"] = "pol-new"
		b.mu.Lock()
		b.policies = append(b.policies, p)
		b.mu.Unlock()
		ok(w, r)
	})
	mux.HandleFunc("PATCH /api/issues/{id}/status", ok)
	mux.HandleFunc("POST /api/risks/ai-suggest", list(`[{"name":"Ransomware","description":"Encrypting malware","category":"Cyber","inherent_score":8}]`))
	mux.HandleFunc("POST /api/risks", ok)
	mux.HandleFunc("POST /api/evidence/upload", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		_, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "no file", http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		b.uploads = append(b.uploads, header.Filename+"@"+r.FormValue("control_test_id"))
		b.mu.Unlock()
		ok(w, r)
	})
	mux.HandleFunc("POST /api/ai/analyze", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			AnalysisType string `json:"analysis_type"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		b.analyzed = append(b.analyzed, req.AnalysisType)
		b.mu.Unlock()
		list(`{"analysis":"Map to ISO A.5.15","recommendations":["Automate"]}`)(w, r)
	})
	return mux
}

type testServer struct {
	backend  *backend
	uc       *usecase.UseCases
	recorder *notify.Recorder
	srv      *httptest.Server
}

func newTestServer(t *testing.T, initialize bool, opts ...httpctrl.Options) *testServer {
	t.Helper()
	b := &backend{}
	api := httptest.NewServer(b.handler())
	t.Cleanup(api.Close)

	client, err := grcapi.New(api.URL)
	gt.NoError(t, err).Required()

	rec := notify.NewRecorder(20)
	uc := usecase.New(client, usecase.WithNotifier(rec))
	if initialize {
		gt.NoError(t, uc.Bootstrap.Initialize(context.Background())).Required()
	}

	srv := httptest.NewServer(httpctrl.New(uc, append([]httpctrl.Options{httpctrl.WithNotifications(rec)}, opts...)...))
	t.Cleanup(srv.Close)

	return &testServer{backend: b, uc: uc, recorder: rec, srv: srv}
}

func (ts *testServer) do(t *testing.T, method, path string, body io.Reader, contentType string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, ts.srv.URL+path, body)
	gt.NoError(t, err).Required()
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	gt.NoError(t, err).Required()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	gt.NoError(t, err).Required()
	return resp.StatusCode, string(data)
}

func TestServer_ReadinessGate(t *testing.T) {
	ts := newTestServer(t, false)

	code, body := ts.do(t, http.MethodGet, "/api/status", nil, "")
	gt.Value(t, code).Equal(http.StatusOK)
	gt.String(t, body).Contains(`"status":"initializing"`)

	code, body = ts.do(t, http.MethodGet, "/api/views/risks", nil, "")
	gt.Value(t, code).Equal(http.StatusServiceUnavailable)
	gt.String(t, body).Contains(`"status":"initializing"`)

	code, _ = ts.do(t, http.MethodGet, "/api/notifications", nil, "")
	gt.Value(t, code).Equal(http.StatusOK)

	gt.NoError(t, ts.uc.Bootstrap.Initialize(context.Background())).Required()

	code, body = ts.do(t, http.MethodGet, "/api/status", nil, "")
	gt.Value(t, code).Equal(http.StatusOK)
	gt.String(t, body).Contains(`"status":"ready"`)

	code, body = ts.do(t, http.MethodGet, "/api/views/risks", nil, "")
	gt.Value(t, code).Equal(http.StatusOK)
	gt.String(t, body).Contains(`"Data Breach"`)
}

func TestServer_Views(t *testing.T) {
	ts := newTestServer(t, true)

	for _, name := range []string{
		"dashboard", "frameworks", "control-mapping", "policies", "control-testing",
		"evidence", "issues", "risks", "kris", "kcis",
	} {
		t.Run(name, func(t *testing.T) {
			code, body := ts.do(t, http.MethodGet, "/api/views/"+name, nil, "")
			gt.Value(t, code).Equal(http.StatusOK)
			gt.B(t, json.Valid([]byte(body))).True()
		})
	}

	_, body := ts.do(t, http.MethodGet, "/api/views/dashboard", nil, "")
	gt.String(t, body).Contains(`"stats_source":"backend"`)
}

func TestServer_CreatePolicy(t *testing.T) {
	ts := newTestServer(t, true)

	code, _ := ts.do(t, http.MethodPost, "/api/policies",
		strings.NewReader(`{"policy_id":"POL-SEC-100","name":"Secrets Handling","category":"Security","owner":"CISO"}`),
		"application/json")
	gt.Value(t, code).Equal(http.StatusCreated)

	ts.backend.mu.Lock()
	gt.Array(t, ts.backend.policies).Length(1).Required()
	gt.Value(t, ts.backend.policies[0]["status"]).Equal("Active")
	ts.backend.mu.Unlock()

	_, body := ts.do(t, http.MethodGet, "/api/views/policies", nil, "")
	gt.String(t, body).Contains("POL-SEC-100")

	_, body = ts.do(t, http.MethodGet, "/api/notifications", nil, "")
	gt.String(t, body).Contains(usecase.MsgPolicyCreated)

	_, body = ts.do(t, http.MethodGet, "/api/forms/policies", nil, "")
	gt.String(t, body).Contains(`"open":false`)

	code, _ = ts.do(t, http.MethodPost, "/api/policies", strings.NewReader(`{"name":"incomplete"}`), "application/json")
	gt.Value(t, code).Equal(http.StatusBadRequest)

	// A rejected draft stays in the open form
	_, body = ts.do(t, http.MethodGet, "/api/forms/policies", nil, "")
	gt.String(t, body).Contains(`"open":true`)
	gt.String(t, body).Contains(`"incomplete"`)

	code, _ = ts.do(t, http.MethodPost, "/api/policies", strings.NewReader(`{`), "application/json")
	gt.Value(t, code).Equal(http.StatusBadRequest)
}

func TestServer_IssueLifecycle(t *testing.T) {
	ts := newTestServer(t, true)

	code, _ := ts.do(t, http.MethodPatch, "/api/issues/issue-1/status?status=Resolved", nil, "")
	gt.Value(t, code).Equal(http.StatusConflict)

	code, _ = ts.do(t, http.MethodPatch, "/api/issues/issue-1/status?status=Reopened", nil, "")
	gt.Value(t, code).Equal(http.StatusBadRequest)

	code, _ = ts.do(t, http.MethodPost, "/api/issues/issue-1/advance", nil, "")
	gt.Value(t, code).Equal(http.StatusNoContent)

	i, _ := ts.uc.App().Snapshot().IssueByID("issue-1")
	gt.Value(t, i.Status.String()).Equal("In Progress")

	code, _ = ts.do(t, http.MethodPost, "/api/issues/issue-404/advance", nil, "")
	gt.Value(t, code).Equal(http.StatusNotFound)
}

func TestServer_UploadEvidence(t *testing.T) {
	ts := newTestServer(t, true)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	gt.NoError(t, mw.WriteField("unified_control_id", "uc-1")).Required()
	fw, err := mw.CreateFormFile("file", "access-review.csv")
	gt.NoError(t, err).Required()
	_, err = fw.Write([]byte("user,reviewed\nalice,yes\n"))
	gt.NoError(t, err).Required()
	gt.NoError(t, mw.Close()).Required()

	code, _ := ts.do(t, http.MethodPost, "/api/evidence/upload", &buf, mw.FormDataContentType())
	gt.Value(t, code).Equal(http.StatusCreated)

	ts.backend.mu.Lock()
	gt.Value(t, ts.backend.uploads).Equal([]string{"access-review.csv@manual-upload"})
	ts.backend.mu.Unlock()

	// Without a file nothing reaches the backend
	var empty bytes.Buffer
	mw = multipart.NewWriter(&empty)
	gt.NoError(t, mw.WriteField("unified_control_id", "uc-1")).Required()
	gt.NoError(t, mw.Close()).Required()

	code, _ = ts.do(t, http.MethodPost, "/api/evidence/upload", &empty, mw.FormDataContentType())
	gt.Value(t, code).Equal(http.StatusBadRequest)
	gt.Value(t, ts.recorder.List()[0].Message).Equal(usecase.MsgSelectFile)
}

func TestServer_Analysis(t *testing.T) {
	ts := newTestServer(t, true)

	code, _ := ts.do(t, http.MethodGet, "/api/analysis/ccf_mapping", nil, "")
	gt.Value(t, code).Equal(http.StatusNotFound)

	code, body := ts.do(t, http.MethodPost, "/api/analysis/ccf_mapping/uc-1", nil, "")
	gt.Value(t, code).Equal(http.StatusOK)
	gt.String(t, body).Contains("Map to ISO A.5.15")

	code, body = ts.do(t, http.MethodGet, "/api/analysis/ccf_mapping", nil, "")
	gt.Value(t, code).Equal(http.StatusOK)
	gt.String(t, body).Contains(`"subject_id":"uc-1"`)

	code, _ = ts.do(t, http.MethodPost, "/api/analysis/sentiment/uc-1", nil, "")
	gt.Value(t, code).Equal(http.StatusBadRequest)

	code, _ = ts.do(t, http.MethodPost, "/api/analysis/risk_kri_mapping/risk-404", nil, "")
	gt.Value(t, code).Equal(http.StatusNotFound)

	ts.backend.mu.Lock()
	gt.Value(t, ts.backend.analyzed).Equal([]string{"ccf_mapping"})
	ts.backend.mu.Unlock()
}

func TestServer_ToggleFrameworkBadParam(t *testing.T) {
	ts := newTestServer(t, true)

	code, _ := ts.do(t, http.MethodPatch, "/api/frameworks/fw-iso/toggle?enabled=maybe", nil, "")
	gt.Value(t, code).Equal(http.StatusBadRequest)
}

func TestServer_Forms(t *testing.T) {
	ts := newTestServer(t, true)

	code, body := ts.do(t, http.MethodPut, "/api/forms/policies",
		strings.NewReader(`{"policy_id":"POL-SEC-200","name":"Vendor Access"}`), "application/json")
	gt.Value(t, code).Equal(http.StatusOK)
	gt.String(t, body).Contains(`"open":true`)
	gt.String(t, body).Contains(`"submitting":false`)

	code, _ = ts.do(t, http.MethodPost, "/api/forms/policies/submit", nil, "")
	gt.Value(t, code).Equal(http.StatusBadRequest)

	_, body = ts.do(t, http.MethodGet, "/api/forms/policies", nil, "")
	gt.String(t, body).Contains("POL-SEC-200")

	code, _ = ts.do(t, http.MethodPut, "/api/forms/policies",
		strings.NewReader(`{"policy_id":"POL-SEC-200","name":"Vendor Access","category":"Access Control","owner":"CISO"}`), "application/json")
	gt.Value(t, code).Equal(http.StatusOK)

	code, _ = ts.do(t, http.MethodPost, "/api/forms/policies/submit", nil, "")
	gt.Value(t, code).Equal(http.StatusCreated)

	_, body = ts.do(t, http.MethodGet, "/api/forms/policies", nil, "")
	gt.String(t, body).Contains(`"open":false`)
	gt.String(t, body).NotContains("POL-SEC-200")

	ts.backend.mu.Lock()
	gt.Array(t, ts.backend.policies).Length(1)
	ts.backend.mu.Unlock()

	code, _ = ts.do(t, http.MethodPut, "/api/forms/issues", strings.NewReader(`{"title":"Drift"}`), "application/json")
	gt.Value(t, code).Equal(http.StatusOK)
	code, _ = ts.do(t, http.MethodDelete, "/api/forms/issues", nil, "")
	gt.Value(t, code).Equal(http.StatusNoContent)
	_, body = ts.do(t, http.MethodGet, "/api/forms/issues", nil, "")
	gt.String(t, body).Contains(`"open":false`)
	gt.String(t, body).Contains("Drift")

	code, _ = ts.do(t, http.MethodPut, "/api/forms/kris", strings.NewReader(`{`), "application/json")
	gt.Value(t, code).Equal(http.StatusBadRequest)
}

func TestServer_UseSuggestion(t *testing.T) {
	ts := newTestServer(t, true)

	code, _ := ts.do(t, http.MethodPost, "/api/risks/suggestions/0/use", nil, "")
	gt.Value(t, code).Equal(http.StatusNotFound)

	code, body := ts.do(t, http.MethodPost, "/api/risks/ai-suggest?industry=Finance", nil, "")
	gt.Value(t, code).Equal(http.StatusOK)
	gt.String(t, body).Contains("Ransomware")

	code, body = ts.do(t, http.MethodPost, "/api/risks/suggestions/0/use", nil, "")
	gt.Value(t, code).Equal(http.StatusOK)
	gt.String(t, body).Contains(`"open":true`)
	gt.String(t, body).Contains("Ransomware")

	code, _ = ts.do(t, http.MethodPost, "/api/risks/suggestions/x/use", nil, "")
	gt.Value(t, code).Equal(http.StatusBadRequest)

	code, _ = ts.do(t, http.MethodPost, "/api/forms/risks/submit", nil, "")
	gt.Value(t, code).Equal(http.StatusCreated)
	_, body = ts.do(t, http.MethodGet, "/api/forms/risks", nil, "")
	gt.String(t, body).Contains(`"open":false`)
}

type fixedRefresh worker.RefreshStatus

func (f fixedRefresh) Status() worker.RefreshStatus { return worker.RefreshStatus(f) }

func TestServer_StatusReportsRefresh(t *testing.T) {
	ts := newTestServer(t, true)
	_, body := ts.do(t, http.MethodGet, "/api/status", nil, "")
	gt.String(t, body).NotContains(`"refresh"`)

	ts = newTestServer(t, true, httpctrl.WithRefreshStatus(fixedRefresh{Attempts: 4, Failures: 1}))
	_, body = ts.do(t, http.MethodGet, "/api/status", nil, "")
	gt.String(t, body).Contains(`"attempts":4`)
	gt.String(t, body).Contains(`"failures":1`)
}
