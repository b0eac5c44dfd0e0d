package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func newFormRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestCSRFMiddleware_GETRequest_SetsCookieAndContextToken(t *testing.T) {
	var ctxToken string
	handler := NewCSRFMiddleware(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxToken = CSRFTokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var csrfCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == csrfCookieName {
			csrfCookie = c
		}
	}
	if csrfCookie == nil {
		t.Fatal("expected csrf_token cookie to be set")
	}
	if len(csrfCookie.Value) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(csrfCookie.Value))
	}
	if !csrfCookie.HttpOnly {
		t.Error("csrf cookie should be HttpOnly")
	}
	if ctxToken != csrfCookie.Value {
		t.Errorf("context token = %q, want cookie value %q", ctxToken, csrfCookie.Value)
	}
}

func TestCSRFMiddleware_GETRequest_ExistingCookie_DoesNotReplace(t *testing.T) {
	var ctxToken string
	handler := NewCSRFMiddleware(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxToken = CSRFTokenFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/signup", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "existing-token"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == csrfCookieName {
			t.Errorf("existing csrf cookie should not be replaced, got %q", c.Value)
		}
	}
	if ctxToken != "existing-token" {
		t.Errorf("context token = %q, want %q", ctxToken, "existing-token")
	}
}

func TestCSRFMiddleware_POST(t *testing.T) {
	tests := []struct {
		name       string
		cookie     string
		formToken  string
		header     string
		wantStatus int
	}{
		{name: "Cookie無しは拒否", cookie: "", formToken: "tok", wantStatus: http.StatusForbidden},
		{name: "送信トークン無しは拒否", cookie: "tok", wantStatus: http.StatusForbidden},
		{name: "不一致は拒否", cookie: "tok", formToken: "other", wantStatus: http.StatusForbidden},
		{name: "フォームのトークン一致は通過", cookie: "tok", formToken: "tok", wantStatus: http.StatusOK},
		{name: "ヘッダーのトークン一致は通過", cookie: "tok", header: "tok", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCSRFMiddleware(CSRFConfig{})(okHandler())

			form := url.Values{"username": {"alice"}}
			if tt.formToken != "" {
				form.Set(CSRFFormField, tt.formToken)
			}
			req := newFormRequest(http.MethodPost, "/login", form)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(csrfHeaderName, tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestCSRFMiddleware_AllStateMutatingMethods_RequireToken(t *testing.T) {
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			handler := NewCSRFMiddleware(CSRFConfig{})(okHandler())
			req := httptest.NewRequest(method, "/signup", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != http.StatusForbidden {
				t.Errorf("%s status = %d, want %d", method, w.Code, http.StatusForbidden)
			}
		})
	}
}

func TestCSRFTokenFromContext_Missing_ReturnsEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := CSRFTokenFromContext(req.Context()); got != "" {
		t.Errorf("token = %q, want empty", got)
	}
}
