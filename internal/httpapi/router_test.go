package httpapi

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"evidence-platform/internal/audit"
	"evidence-platform/internal/auth"
	"evidence-platform/internal/cases"
	"evidence-platform/internal/config"
	"evidence-platform/internal/evidence"
	"evidence-platform/internal/identity"
	"evidence-platform/internal/rbac"
	"evidence-platform/internal/search"
	"evidence-platform/internal/submission"
)

type apiFixture struct {
	router *gin.Engine
	tokens *auth.Manager
	audits *audit.MemoryRepo
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewManager(config.AuthConfig{
		JWTSecret:      "router-test-secret-keep-it-long-enough",
		AccessTokenTTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	auditRepo := audit.NewMemoryRepo()
	auditor := audit.NewService(auditRepo, nil)

	caseSvc := cases.NewService(cases.NewMemoryRepo(), auditor)
	blobs, err := evidence.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	evSvc := evidence.NewService(evidence.NewMemoryRepo(), blobs, caseSvc, auditor, nil, 1<<20)
	subSvc := submission.NewService(submission.NewMemoryRepo(), auditor)
	searchSvc := search.NewService(search.NewMemoryRepo(), caseSvc, evSvc, subSvc, auditor, 100)
	idSvc := identity.NewService(identity.NewMemoryRepo(), tokens, auditor)

	h := &Handlers{
		Identity:    idSvc,
		Cases:       caseSvc,
		Evidence:    evSvc,
		Submissions: subSvc,
		Search:      searchSvc,
		Audit:       auditor,
	}
	return &apiFixture{
		router: NewRouter(h, tokens, nil, nil),
		tokens: tokens,
		audits: auditRepo,
	}
}

func (fx *apiFixture) tokenFor(t *testing.T, role string) string {
	t.Helper()
	tok, err := fx.tokens.Issue(time.Now(), "user-"+role, role+"-user", role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func (fx *apiFixture) do(t *testing.T, method, path, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)
	return w
}

func (fx *apiFixture) doJSON(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	return fx.do(t, method, path, token, &buf, "application/json")
}

func TestHealthz(t *testing.T) {
	fx := newAPIFixture(t)
	if w := fx.do(t, http.MethodGet, "/healthz", "", nil, ""); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	fx := newAPIFixture(t)
	for _, path := range []string{"/v1/cases", "/v1/search?q=x", "/v1/audit"} {
		if w := fx.do(t, http.MethodGet, path, "", nil, ""); w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s anonymous: status = %d, want 401", path, w.Code)
		}
	}
}

func TestRoleEnforcementOnRoutes(t *testing.T) {
	fx := newAPIFixture(t)
	viewer := fx.tokenFor(t, rbac.RoleViewer)

	w := fx.doJSON(t, http.MethodPost, "/v1/cases", viewer, map[string]string{
		"case_number": "CASE-1", "title": "Something substantial",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("viewer create case: status = %d, want 403", w.Code)
	}

	investigator := fx.tokenFor(t, rbac.RoleInvestigator)
	if w := fx.do(t, http.MethodGet, "/v1/audit", investigator, nil, ""); w.Code != http.StatusForbidden {
		t.Errorf("investigator audit query: status = %d, want 403", w.Code)
	}
	admin := fx.tokenFor(t, rbac.RoleAdmin)
	if w := fx.do(t, http.MethodGet, "/v1/audit", admin, nil, ""); w.Code != http.StatusOK {
		t.Errorf("admin audit query: status = %d, want 200", w.Code)
	}
}

func TestViewerCannotSearchOrExport(t *testing.T) {
	fx := newAPIFixture(t)
	viewer := fx.tokenFor(t, rbac.RoleViewer)

	for _, path := range []string{
		"/v1/search?q=x",
		"/v1/search/export?kind=evidence",
		"/v1/submissions",
	} {
		if w := fx.do(t, http.MethodGet, path, viewer, nil, ""); w.Code != http.StatusForbidden {
			t.Errorf("viewer GET %s: status = %d, want 403", path, w.Code)
		}
	}

	// The viewer role is read-only on cases, not locked out.
	for _, path := range []string{"/v1/cases", "/v1/cases/nope/evidence"} {
		if w := fx.do(t, http.MethodGet, path, viewer, nil, ""); w.Code == http.StatusForbidden || w.Code == http.StatusUnauthorized {
			t.Errorf("viewer GET %s: status = %d, want access", path, w.Code)
		}
	}
}

func TestRegisterLoginAndUseToken(t *testing.T) {
	fx := newAPIFixture(t)

	w := fx.doJSON(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "correct-horse",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status = %d, body %s", w.Code, w.Body)
	}

	w = fx.doJSON(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"username": "alice", "password": "correct-horse",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body %s", w.Code, w.Body)
	}
	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &loginResp); err != nil || loginResp.Token == "" {
		t.Fatalf("login response missing token: %s", w.Body)
	}

	if w := fx.do(t, http.MethodGet, "/v1/cases", loginResp.Token, nil, ""); w.Code != http.StatusOK {
		t.Errorf("list cases with fresh token: status = %d", w.Code)
	}

	w = fx.doJSON(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"username": "alice", "password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad login: status = %d, want 401", w.Code)
	}
}

func TestEvidenceUploadFlow(t *testing.T) {
	fx := newAPIFixture(t)
	investigator := fx.tokenFor(t, rbac.RoleInvestigator)

	w := fx.doJSON(t, http.MethodPost, "/v1/cases", investigator, map[string]string{
		"case_number": "CASE-9", "title": "Server room break-in",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create case: status = %d, body %s", w.Code, w.Body)
	}
	var created cases.Case
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode case: %v", err)
	}

	content := []byte("syslog line one\nsyslog line two\n")
	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("file", "syslog.txt")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	part.Write(content)
	mw.WriteField("case_id", created.ID)
	mw.Close()

	w = fx.do(t, http.MethodPost, "/v1/evidence", investigator, &form, mw.FormDataContentType())
	if w.Code != http.StatusCreated {
		t.Fatalf("upload: status = %d, body %s", w.Code, w.Body)
	}
	var ev evidence.Evidence
	if err := json.Unmarshal(w.Body.Bytes(), &ev); err != nil {
		t.Fatalf("decode evidence: %v", err)
	}
	if ev.Size != int64(len(content)) {
		t.Errorf("size = %d, want %d", ev.Size, len(content))
	}

	w = fx.do(t, http.MethodGet, "/v1/evidence/"+ev.ID+"/download", investigator, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("download: status = %d", w.Code)
	}
	if !bytes.Equal(w.Body.Bytes(), content) {
		t.Errorf("downloaded bytes differ from upload")
	}
	if got := w.Header().Get("X-Content-Sha256"); got != ev.DigestHex {
		t.Errorf("digest header = %q, want %q", got, ev.DigestHex)
	}

	// Upload against a case that does not exist is a client error.
	var badForm bytes.Buffer
	mw = multipart.NewWriter(&badForm)
	part, _ = mw.CreateFormFile("file", "x.bin")
	part.Write([]byte("x"))
	mw.WriteField("case_id", "missing")
	mw.Close()
	w = fx.do(t, http.MethodPost, "/v1/evidence", investigator, &badForm, mw.FormDataContentType())
	if w.Code != http.StatusBadRequest {
		t.Errorf("upload to missing case: status = %d, want 400", w.Code)
	}
}

func TestPublicSubmissionEndpoint(t *testing.T) {
	fx := newAPIFixture(t)

	w := fx.doJSON(t, http.MethodPost, "/v1/submissions", "", map[string]any{
		"name": "Dana Reyes", "email": "dana@example.com", "age": 41,
		"role": "witness", "recommend": "yes",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("submission: status = %d, body %s", w.Code, w.Body)
	}

	w = fx.doJSON(t, http.MethodPost, "/v1/submissions", "", map[string]any{"name": ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid submission: status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "fields") {
		t.Errorf("validation body missing field map: %s", w.Body)
	}
}
