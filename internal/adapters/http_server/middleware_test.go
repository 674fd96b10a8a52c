package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func TestLogger_LineShapeAndHealthSkip(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(Logger(zerolog.New(&buf)))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Get("/v1/hotels/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("down"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if buf.Len() != 0 {
		t.Fatalf("health probe logged: %s", buf.String())
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/hotels/7", nil))
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if line["route"] != "/v1/hotels/{id}" || line["level"] != "warn" {
		t.Fatalf("unexpected line: %v", line)
	}
	if line["bytes"] != float64(4) || line["status"] != float64(503) {
		t.Fatalf("unexpected size/status: %v", line)
	}
	if id, _ := line["request_id"].(string); id == "" {
		t.Fatalf("request id missing: %v", line)
	}
}

func TestRemoteIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:5555"
	if got := remoteIP(req); got != "10.0.0.9" {
		t.Fatalf("got %q", got)
	}
	req.Header.Set("X-Forwarded-For", " 203.0.113.4 , 10.0.0.1")
	if got := remoteIP(req); got != "203.0.113.4" {
		t.Fatalf("got %q", got)
	}
}
