package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func serve(h Headers, req *http.Request) http.Header {
	handler := h.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr.Result().Header
}

func TestHeadersMiddlewareSetsSecurityHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "https://example.com/api/v1/quotes", nil)
	req.TLS = &tls.ConnectionState{}

	headers := serve(Headers{Enable: true, EnableHSTS: true, NoStore: true}, req)
	if got := headers.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected nosniff header, got %q", got)
	}
	if got := headers.Get("Strict-Transport-Security"); got != "max-age=31536000" {
		t.Fatalf("unexpected hsts header %q", got)
	}
	if got := headers.Get("Cache-Control"); got != "no-store" {
		t.Fatalf("expected no-store, got %q", got)
	}
}

func TestHeadersMiddlewareSkipsHSTSWithoutTLS(t *testing.T) {
	headers := serve(Headers{Enable: true, EnableHSTS: true, HSTSMaxAge: 60}, httptest.NewRequest(http.MethodGet, "http://example.com", nil))
	if headers.Get("Strict-Transport-Security") != "" {
		t.Fatal("expected no hsts header over plain http")
	}
	if headers.Get("Cache-Control") != "" {
		t.Fatal("expected no cache-control header when NoStore is off")
	}
}

func TestHeadersMiddlewareDisabled(t *testing.T) {
	headers := serve(Headers{Enable: false, EnableHSTS: true}, httptest.NewRequest(http.MethodGet, "http://example.com", nil))
	if headers.Get("X-Content-Type-Options") != "" {
		t.Fatal("expected no security headers when disabled")
	}
}
