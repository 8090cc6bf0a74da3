package movie

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"moviehub/pkg/models"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Repo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := NewRepo(testDB(t))
	router := gin.New()
	NewHandler(repo).RegisterRoutes(router.Group("/movies"))
	return router, repo
}

func doGet(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListEndpoint(t *testing.T) {
	router, repo := newTestRouter(t)
	seed(t, repo)

	w := doGet(t, router, "/movies?q=cameron&order_by=revenue_musd")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Total int            `json:"total"`
		Items []models.Movie `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 || len(resp.Items) != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Items[0].ID != 19995 {
		t.Errorf("first item = %d, want highest revenue", resp.Items[0].ID)
	}
}

func TestGetEndpoint(t *testing.T) {
	router, repo := newTestRouter(t)
	seed(t, repo)

	w := doGet(t, router, "/movies/597")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var m models.Movie
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	if m.Title != "Titanic" {
		t.Errorf("title = %q", m.Title)
	}
}

func TestGetEndpointErrors(t *testing.T) {
	router, repo := newTestRouter(t)
	seed(t, repo)

	if w := doGet(t, router, "/movies/notanumber"); w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d", w.Code)
	}
	if w := doGet(t, router, "/movies/42"); w.Code != http.StatusNotFound {
		t.Errorf("missing id status = %d", w.Code)
	}
}

func TestSearchEndpointUsesRichPredicates(t *testing.T) {
	router, repo := newTestRouter(t)
	seed(t, repo)

	w := doGet(t, router, "/movies/search?director=cameron&min_roi=10&franchise_only=true")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Total int            `json:"total"`
		Items []models.Movie `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Items[0].ID != 19995 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestSearchEndpointEmptyResult(t *testing.T) {
	router, repo := newTestRouter(t)
	seed(t, repo)

	w := doGet(t, router, "/movies/search?title=nonexistent")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 0 {
		t.Errorf("total = %d, want 0", resp.Total)
	}
}
