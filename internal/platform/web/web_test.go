package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestParseID(t *testing.T) {
	testCases := []struct {
		name       string
		path       string
		expectedID int64
		expectOK   bool
	}{
		{name: "positive id", path: "/items/42", expectedID: 42, expectOK: true},
		{name: "zero", path: "/items/0"},
		{name: "negative", path: "/items/-1"},
		{name: "not a number", path: "/items/abc"},
		{name: "overflow", path: "/items/99999999999999999999"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var gotID int64
			var gotOK bool
			r := chi.NewRouter()
			r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
				gotID, gotOK = ParseID(w, r, discard)
			})
			rr := httptest.NewRecorder()

			// when
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))

			// then
			assert.Equal(t, tc.expectOK, gotOK)
			assert.Equal(t, tc.expectedID, gotID)
			if !tc.expectOK {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
				assert.Contains(t, rr.Body.String(), `"error":"Invalid ID:`)
			}
		})
	}
}

func TestParseValidateGte(t *testing.T) {
	testCases := []struct {
		name     string
		query    string
		expected int32
		expectOK bool
	}{
		{name: "absent uses default", query: "", expected: 10, expectOK: true},
		{name: "empty uses default", query: "?size=", expected: 10, expectOK: true},
		{name: "valid", query: "?size=3", expected: 3, expectOK: true},
		{name: "at minimum", query: "?size=1", expected: 1, expectOK: true},
		{name: "below minimum", query: "?size=0"},
		{name: "not a number", query: "?size=ten"},
		{name: "overflows int32", query: "?size=3000000000"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)

			got, ok := ParseValidateGte(req, rr, discard, "size", 1, 10)

			assert.Equal(t, tc.expectOK, ok)
			assert.Equal(t, tc.expected, got)
			if !tc.expectOK {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
			}
		})
	}
}

func TestRespondJSON(t *testing.T) {
	t.Run("payload", func(t *testing.T) {
		rr := httptest.NewRecorder()
		RespondJSON(rr, discard, http.StatusCreated, map[string]int{"id": 1})
		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"id":1}`, rr.Body.String())
	})

	t.Run("nil payload writes status only", func(t *testing.T) {
		rr := httptest.NewRecorder()
		RespondJSON(rr, discard, http.StatusNoContent, nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
	})

	t.Run("validation errors", func(t *testing.T) {
		rr := httptest.NewRecorder()
		RespondValidationErrors(rr, discard, map[string]string{"Name": "failed on rule: required"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"validation_errors":{"Name":"failed on rule: required"}}`, rr.Body.String())
	})
}

func TestRequestIDInjector(t *testing.T) {
	var seen string
	handler := RequestIDInjector(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = middleware.GetReqID(r.Context())
	}))

	t.Run("generates an id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NotEmpty(t, seen)
		assert.Equal(t, seen, rr.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("reuses the incoming header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.RequestIDHeader, "abc-123")
		handler.ServeHTTP(rr, req)
		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rr.Header().Get(middleware.RequestIDHeader))
	})
}

func TestRecoverer(t *testing.T) {
	handler := Recoverer(discard)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rr.Body.String())
}
