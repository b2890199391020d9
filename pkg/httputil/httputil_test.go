package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/itsuki/garden/pkg/errors"
	"github.com/itsuki/garden/pkg/observability"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidInput, http.StatusBadRequest},
		{errors.ErrCodeInvalidSchema, http.StatusBadRequest},
		{errors.ErrCodeNotFound, http.StatusNotFound},
		{errors.ErrCodeToolNotFound, http.StatusNotFound},
		{errors.ErrCodeBusy, http.StatusConflict},
		{errors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{errors.ErrCodeUnsupported, http.StatusNotImplemented},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.code); got != tt.want {
			t.Errorf("StatusFor(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	err := fmt.Errorf("load: %w", errors.New(errors.ErrCodeNotFound, "no entry %q", "x"))
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), err)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	var body ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code != errors.ErrCodeNotFound || body.Message != `no entry "x"` {
		t.Errorf("body = %+v", body)
	}
}

func TestWriteErrorHidesInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, nil, fmt.Errorf("dial tcp 10.0.0.1: refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.1") {
		t.Errorf("internal detail leaked: %s", rec.Body)
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]int{"n": 1})
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	path   string
	status int
}

func (h *recordingHooks) OnResponse(_ context.Context, _, path string, status int, _ time.Duration) {
	h.path, h.status = path, status
}

func TestRequestLogger(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	r := chi.NewRouter()
	r.Use(RequestLogger(logger))
	r.Get("/content/{collection}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/content/blog", nil))

	if hooks.path != "/content/{collection}" || hooks.status != http.StatusTeapot {
		t.Errorf("hooks saw %q %d", hooks.path, hooks.status)
	}
	out := buf.String()
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "path=/content/blog") {
		t.Errorf("log line = %q", out)
	}
}
