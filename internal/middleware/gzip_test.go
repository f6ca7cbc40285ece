package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestAcceptsGzip(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{header: "", want: false},
		{header: "gzip", want: true},
		{header: "GZIP", want: true},
		{header: "deflate, gzip;q=0.8", want: true},
		{header: "gzip;q=0", want: false},
		{header: "gzip; q=0.0", want: false},
		{header: "br, deflate", want: false},
		{header: "*", want: true},
		{header: "*;q=0", want: false},
		{header: "gzip;q=0, *", want: false},
		{header: "identity, *;q=0.5", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			if got := acceptsGzip(tt.header); got != tt.want {
				t.Fatalf("acceptsGzip(%q) = %v, want %v", tt.header, got, tt.want)
			}
		})
	}
}

func TestGzipMiddleware_ByStatus(t *testing.T) {
	type want struct {
		encoding string
		body     string
	}

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    want
	}{
		{
			name: "json greeting is compressed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"message":"Hello World"}`))
			},
			want: want{encoding: "gzip", body: `{"message":"Hello World"}`},
		},
		{
			name: "validation error is compressed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"a et b doivent être des nombres"}`))
			},
			want: want{encoding: "gzip", body: `{"error":"a et b doivent être des nombres"}`},
		},
		{
			name: "logout without body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			},
			want: want{encoding: "", body: ""},
		},
		{
			name: "guard redirect",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
			},
			want: want{encoding: "", body: "See Other"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Accept-Encoding", "gzip")

			w := httptest.NewRecorder()
			GzipMiddleware(tt.handler).ServeHTTP(w, req)

			if ce := w.Header().Get("Content-Encoding"); ce != tt.want.encoding {
				t.Fatalf("content-encoding: got %q want %q", ce, tt.want.encoding)
			}

			body := w.Body.Bytes()
			if tt.want.encoding == "gzip" {
				zr, err := gzip.NewReader(bytes.NewReader(body))
				if err != nil {
					t.Fatalf("new gzip reader: %v", err)
				}
				if body, err = io.ReadAll(zr); err != nil {
					t.Fatalf("read gzip body: %v", err)
				}
			}

			if !strings.Contains(string(body), tt.want.body) {
				t.Fatalf("body %q does not contain %q", body, tt.want.body)
			}
			if tt.want.body == "" && len(body) != 0 {
				t.Fatalf("expected empty body, got %d bytes", len(body))
			}
		})
	}
}

func TestGzipMiddleware_CompressedLoginBody(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(`{"email":"jean@example.com","password":"secret1"}`)); err != nil {
		t.Fatalf("write gzip: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/login", &buf)
	req.Header.Set("Content-Encoding", "gzip")

	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Encoding") != "" {
			t.Fatalf("Content-Encoding must be removed after decoding")
		}
		b, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		got = string(b)
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	GzipMiddleware(next).ServeHTTP(w, req)

	if got != `{"email":"jean@example.com","password":"secret1"}` {
		t.Fatalf("unexpected decoded body %q", got)
	}
	if ce := w.Header().Get("Content-Encoding"); ce != "" {
		t.Fatalf("response must not be compressed without Accept-Encoding, got %q", ce)
	}
}

func TestGzipMiddleware_BrokenRequestBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/calculate", strings.NewReader("not gzip at all"))
	req.Header.Set("Content-Encoding", "gzip")

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	w := httptest.NewRecorder()
	GzipMiddleware(next).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want %d", w.Code, http.StatusBadRequest)
	}
	if called {
		t.Fatalf("next handler must not run for a broken body")
	}
}
