package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/madrona-research/madrona/internal/config"
	"github.com/madrona-research/madrona/internal/db"
	"github.com/madrona-research/madrona/internal/preprints"
)

func TestPreprintSummaryHandler(t *testing.T) {
	setupHandlerTest(t)

	if _, err := preprints.CreateProvider(db.GetDB(), "arxiv", ""); err != nil {
		t.Fatalf("CreateProvider failed: %v", err)
	}

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hits":{"total":5}}`))
	}))
	defer backend.Close()
	config.SetTransient("analytics.search_url", backend.URL)

	router := gin.New()
	router.GET("/api/v1/analytics/preprints", PreprintSummaryHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/analytics/preprints?date=2026-03-14", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Events []struct {
			Provider struct {
				Name  string `json:"name"`
				Total int    `json:"total"`
			} `json:"provider"`
		} `json:"events"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(resp.Events))
	}
	if resp.Events[0].Provider.Name != "arxiv" || resp.Events[0].Provider.Total != 5 {
		t.Errorf("Unexpected event: %+v", resp.Events[0])
	}
}

func TestPreprintSummaryHandlerBadDate(t *testing.T) {
	setupHandlerTest(t)

	router := gin.New()
	router.GET("/api/v1/analytics/preprints", PreprintSummaryHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/analytics/preprints?date=14-03-2026", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestPreprintSummaryHandlerBackendDown(t *testing.T) {
	setupHandlerTest(t)

	if _, err := preprints.CreateProvider(db.GetDB(), "arxiv", ""); err != nil {
		t.Fatalf("CreateProvider failed: %v", err)
	}

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer backend.Close()
	config.SetTransient("analytics.search_url", backend.URL)

	router := gin.New()
	router.GET("/api/v1/analytics/preprints", PreprintSummaryHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/analytics/preprints?date=2026-03-14", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected 502, got %d", w.Code)
	}
}
