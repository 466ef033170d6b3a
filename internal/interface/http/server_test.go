package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fnb-insights/internal/infrastructure/config"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer() *Server {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := config.Config{
		Auth: config.AuthConfig{
			TokenTTL:      time.Hour,
			Secret:        "test-secret",
			AdminEmail:    "admin@example.com",
			AdminPassword: "admin123",
		},
		Upload: config.UploadConfig{MaxSizeMB: 8},
	}
	return NewServer(cfg, nil, log)
}

func doJSON(t *testing.T, s *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func login(t *testing.T, s *Server, email, password string) string {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.AccessToken == "" {
		t.Fatal("empty access token")
	}
	return resp.AccessToken
}

// reportCSV builds a monthly report with one bill per day over the given
// months so the summary sees a usable series.
func reportCSV(months int) string {
	var b strings.Builder
	b.WriteString("Sales Date,Nama Cabang,Bill Number,Nett Sales,Menu,Qty,Visit Purpose\n")
	for m := 0; m < months; m++ {
		for d := 1; d <= 10; d++ {
			fmt.Fprintf(&b, "2024-%02d-%02d,Central,B-%d-%d,%d,Nasi Goreng,1,Dine-In\n",
				m+1, d, m, d, 100000+m*10000)
		}
	}
	return b.String()
}

func uploadReport(t *testing.T, s *Server, token, csvBody string) string {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "report.csv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(csvBody)); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Dataset struct {
			ID   string `json:"id"`
			Rows int    `json:"rows"`
		} `json:"dataset"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Dataset.ID == "" {
		t.Fatal("empty dataset id")
	}
	return resp.Dataset.ID
}

func TestPing(t *testing.T) {
	s := newTestServer()
	w := doJSON(t, s, http.MethodGet, "/api/ping", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "pong") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestHealth_NoDatabase(t *testing.T) {
	s := newTestServer()
	w := doJSON(t, s, http.MethodGet, "/api/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not_configured") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	s := newTestServer()
	w := doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "admin@example.com",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), errCodeInvalidCredentials) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestDatasets_RequireAuth(t *testing.T) {
	s := newTestServer()
	w := doJSON(t, s, http.MethodGet, "/api/datasets", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	w = doJSON(t, s, http.MethodGet, "/api/datasets", "not-a-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestUpload_ViewerForbidden(t *testing.T) {
	s := newTestServer()
	token := login(t, s, "viewer@example.com", "viewer123")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "report.csv")
	fw.Write([]byte(reportCSV(2)))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestUploadAndSummary(t *testing.T) {
	s := newTestServer()
	token := login(t, s, "admin@example.com", "admin123")
	id := uploadReport(t, s, token, reportCSV(6))

	w := doJSON(t, s, http.MethodGet, "/api/datasets/"+id+"/summary", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("summary status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Monthly []struct {
			Month        string  `json:"month"`
			Transactions int     `json:"transactions"`
			Sales        float64 `json:"sales"`
		} `json:"monthly"`
		Trends map[string]struct {
			Usable    bool   `json:"usable"`
			Direction string `json:"direction"`
			Narrative string `json:"narrative"`
		} `json:"trends"`
		Health *struct {
			Status    string `json:"status"`
			Composite int    `json:"composite"`
		} `json:"health"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Monthly) != 6 {
		t.Fatalf("expected 6 months, got %d", len(resp.Monthly))
	}
	if resp.Monthly[0].Transactions != 10 {
		t.Fatalf("unexpected monthly row: %+v", resp.Monthly[0])
	}
	salesTrend, ok := resp.Trends["sales"]
	if !ok || !salesTrend.Usable || salesTrend.Direction != "increasing" {
		t.Fatalf("unexpected sales trend: %+v", resp.Trends)
	}
	if resp.Health == nil {
		t.Fatal("expected a health score with 6 months")
	}
}

func TestSummary_BranchFilterQuery(t *testing.T) {
	s := newTestServer()
	token := login(t, s, "admin@example.com", "admin123")
	id := uploadReport(t, s, token, reportCSV(4))

	w := doJSON(t, s, http.MethodGet, "/api/datasets/"+id+"/summary?branches=NoSuchBranch", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Monthly []json.RawMessage `json:"monthly"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Monthly) != 0 {
		t.Fatalf("filter must exclude all rows, got %d months", len(resp.Monthly))
	}
}

func TestTrends_MetricParam(t *testing.T) {
	s := newTestServer()
	token := login(t, s, "admin@example.com", "admin123")
	id := uploadReport(t, s, token, reportCSV(5))

	w := doJSON(t, s, http.MethodGet, "/api/datasets/"+id+"/trends?metric=aov", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"metric":"aov"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	w = doJSON(t, s, http.MethodGet, "/api/datasets/"+id+"/trends?metric=revenue", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown metric must 400, got %d", w.Code)
	}
}

func TestBranches(t *testing.T) {
	s := newTestServer()
	token := login(t, s, "admin@example.com", "admin123")
	id := uploadReport(t, s, token, reportCSV(3))

	w := doJSON(t, s, http.MethodGet, "/api/datasets/"+id+"/branches", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Central") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestOperations_NoTimestamps(t *testing.T) {
	s := newTestServer()
	token := login(t, s, "admin@example.com", "admin123")
	id := uploadReport(t, s, token, reportCSV(3))

	w := doJSON(t, s, http.MethodGet, "/api/datasets/"+id+"/operations", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestDataset_NotFound(t *testing.T) {
	s := newTestServer()
	token := login(t, s, "admin@example.com", "admin123")

	w := doJSON(t, s, http.MethodGet, "/api/datasets/missing/summary", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}
