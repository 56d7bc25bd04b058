package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidToken(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		header string
		want   bool
	}{
		{"match", "s3cret", "Bearer s3cret", true},
		{"wrong token", "s3cret", "Bearer nope", false},
		{"missing scheme", "s3cret", "s3cret", false},
		{"lowercase scheme", "s3cret", "bearer s3cret", false},
		{"empty header", "s3cret", "", false},
		{"empty secret", "", "Bearer ", false},
		{"prefix of secret", "s3cret", "Bearer s3c", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validToken(tt.secret, tt.header); got != tt.want {
				t.Errorf("validToken(%q, %q) = %v, want %v", tt.secret, tt.header, got, tt.want)
			}
		})
	}
}

func TestRequireToken_PassesThrough(t *testing.T) {
	called := false
	h := requireToken("s3cret", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/jsonrpc", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if !called || rr.Code != http.StatusNoContent {
		t.Fatalf("called=%v code=%d", called, rr.Code)
	}

	called = false
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/jsonrpc", nil))
	if called {
		t.Fatal("handler ran without a token")
	}
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}
