package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/somaarjun/portfolio/backend/internal/model/contact"
	contactService "github.com/somaarjun/portfolio/backend/internal/service/contact"
	"github.com/somaarjun/portfolio/backend/pkg/utils"
)

type failingSink struct{}

func (failingSink) Deliver(context.Context, model.Submission) error {
	return errors.New("stream unavailable")
}

func setupRouter(sink contactService.Sink) *chi.Mux {
	r := chi.NewRouter()
	r.MethodNotAllowed(utils.MethodNotAllowed)
	New(contactService.NewService(sink)).RegisterRoutes(r)
	return r
}

func post(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestContactSuccess(t *testing.T) {
	resp := post(setupRouter(nil), `{"name":"Ada","email":"ada@example.com","subject":"Hi","message":"Hello there"}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, successMessage, payload["message"])
	assert.NotEmpty(t, payload["submissionId"])
}

func TestContactValidationFailures(t *testing.T) {
	cases := map[string]struct {
		body string
		want string
	}{
		"missing subject": {`{"name":"Ada","email":"ada@example.com","subject":"","message":"x"}`, "All fields are required"},
		"empty body":      {`{}`, "All fields are required"},
		"bad email":       {`{"name":"Ada","email":"ada@example","subject":"Hi","message":"x"}`, "Invalid email format"},
		"invalid json":    {`{"name":`, "Invalid request body"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resp := post(setupRouter(nil), tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
			assert.JSONEq(t, `{"success":false,"error":"`+tc.want+`"}`, resp.Body.String())
		})
	}
}

func TestContactSinkFailure(t *testing.T) {
	resp := post(setupRouter(failingSink{}), `{"name":"Ada","email":"ada@example.com","subject":"Hi","message":"Hello"}`)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), `"success":false`)
}

func TestContactMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/contact", nil)
	resp := httptest.NewRecorder()
	setupRouter(nil).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)
}
