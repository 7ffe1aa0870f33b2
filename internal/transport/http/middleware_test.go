package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), logger)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/brew", nil)
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status passthrough, got %d", rr.Code)
	}

	out := buf.String()
	for _, want := range []string{`"method":"GET"`, `"path":"/brew"`, `"status":418`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected log to contain %s, got %s", want, out)
		}
	}
}

func TestRequestLoggerDefaultsTo200(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}), logger)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), `"status":200`) {
		t.Fatalf("expected implicit 200 in log, got %s", buf.String())
	}
}
