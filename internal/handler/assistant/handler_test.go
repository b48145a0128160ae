package assistant

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/somaarjun/portfolio/backend/internal/assistant"
)

func TestManifestEndpoint(t *testing.T) {
	r := chi.NewRouter()
	New(assistant.NewHolder(assistant.Default())).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/assistant", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var m assistant.Manifest
	if err := json.Unmarshal(resp.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if m.Greeting == "" || len(m.QuickActions) != 5 {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	if m.Actions["show_contact"] != "contact" {
		t.Fatalf("unexpected actions: %v", m.Actions)
	}
}
