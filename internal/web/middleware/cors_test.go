package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsHandler(origins []string) http.Handler {
	return CORS(origins)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCORS_ConfiguredOriginAllowed(t *testing.T) {
	handler := corsHandler([]string{"https://kiosk.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://kiosk.example.com")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if got := recorder.Header().Get("Access-Control-Allow-Origin"); got != "https://kiosk.example.com" {
		t.Errorf("expected configured origin to be allowed, got %q", got)
	}
}

func TestCORS_UnlistedOriginGetsNoAllowHeader(t *testing.T) {
	handler := corsHandler([]string{"https://kiosk.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if got := recorder.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no allow-origin header for unlisted origin, got %q", got)
	}
}

func TestCORS_LocalhostAlwaysAllowed(t *testing.T) {
	handler := corsHandler(nil)

	for _, origin := range []string{"http://localhost:3000", "https://localhost:8443", "http://localhost"} {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("Origin", origin)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if got := recorder.Header().Get("Access-Control-Allow-Origin"); got != origin {
			t.Errorf("expected localhost origin %q to be allowed, got %q", origin, got)
		}
	}
}

func TestCORS_AdvertisesOnlyServedMethods(t *testing.T) {
	handler := corsHandler(nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/verify-face", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Errorf("expected preflight to return 200, got %d", recorder.Code)
	}
	if got := recorder.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, OPTIONS" {
		t.Errorf("expected only GET, POST and OPTIONS to be advertised, got %q", got)
	}
}

func TestCORS_OriginSetTrimsEntries(t *testing.T) {
	handler := corsHandler([]string{" https://a.example.com ", "", "https://b.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://a.example.com")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if got := recorder.Header().Get("Access-Control-Allow-Origin"); got != "https://a.example.com" {
		t.Errorf("expected trimmed origin to be allowed, got %q", got)
	}
}
