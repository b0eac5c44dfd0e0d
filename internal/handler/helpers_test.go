package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/storefront/internal/cart"
	"github.com/hitoshi/storefront/internal/catalog"
	"github.com/hitoshi/storefront/internal/model"
	"github.com/hitoshi/storefront/internal/session"
	"github.com/hitoshi/storefront/internal/view"
)

// --- モック定義 ---

type mockCatalogService struct {
	listFn func(ctx context.Context) ([]model.Product, error)
	getFn  func(ctx context.Context, id int64) (*model.Product, error)
}

func (m *mockCatalogService) List(ctx context.Context) ([]model.Product, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return catalog.DefaultProducts(), nil
}

func (m *mockCatalogService) Get(ctx context.Context, id int64) (*model.Product, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	for _, p := range catalog.DefaultProducts() {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

type mockAuthService struct {
	signupFn func(ctx context.Context, username, password string) error
	loginFn  func(ctx context.Context, username, password string) (*model.User, error)
}

func (m *mockAuthService) Signup(ctx context.Context, username, password string) error {
	if m.signupFn != nil {
		return m.signupFn(ctx, username, password)
	}
	return nil
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*model.User, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, username, password)
	}
	return &model.User{ID: "user-1", Username: username}, nil
}

type mockRecorder struct {
	cartOps   []string
	checkouts []string
	signups   []string
	logins    []string
	statuses  []int
}

func (m *mockRecorder) RecordCartOperation(op string) { m.cartOps = append(m.cartOps, op) }
func (m *mockRecorder) RecordCheckout(outcome string) { m.checkouts = append(m.checkouts, outcome) }
func (m *mockRecorder) RecordSignup(outcome string) { m.signups = append(m.signups, outcome) }
func (m *mockRecorder) RecordLogin(outcome string) { m.logins = append(m.logins, outcome) }
func (m *mockRecorder) RecordHTTPRequest(statusCode int, d time.Duration) {
	m.statuses = append(m.statuses, statusCode)
}

// --- テスト用ルーター ---

const (
	testSessionSecret = "handler-test-session-secret-32bytes!"
	testCSRFToken     = "test-csrf-token"
)

type testEnv struct {
	router  http.Handler
	store   *session.Store
	metrics *mockRecorder
}

type testOptions struct {
	catalog CatalogService
	auth    AuthServiceInterface
	health  HealthChecker
}

// newTestEnv は実際のセッションストアとテンプレートを使うルーターを構築する。
// authがnilの場合はアカウント機能なしのモードになる。
func newTestEnv(t *testing.T, opts testOptions) *testEnv {
	t.Helper()

	store, err := session.NewStore(session.StoreConfig{Secret: testSessionSecret, MaxAge: 3600})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	renderer, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	catalogService := opts.catalog
	if catalogService == nil {
		catalogService = &mockCatalogService{}
	}

	recorder := &mockRecorder{}
	deps := &RouterDeps{
		Sessions:      store,
		Metrics:       recorder,
		HealthChecker: opts.health,
		Renderer:      renderer,
		Catalog:       catalogService,
		Cart: cart.NewService(catalogService, cart.ServiceConfig{
			RequireAuthForCheckout: opts.auth != nil,
		}),
	}
	if opts.auth != nil {
		deps.Auth = opts.auth
	}

	return &testEnv{router: NewRouter(deps), store: store, metrics: recorder}
}

// get はセッションを付与してGETリクエストを送る。
func (e *testEnv) get(t *testing.T, target string, sess *session.Session) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	e.attachSession(t, req, sess)
	return serve(e.router, req)
}

// postForm はCSRFトークンとセッションを付与してフォームをPOSTする。
func (e *testEnv) postForm(t *testing.T, target string, form url.Values, sess *session.Session) *httptest.ResponseRecorder {
	t.Helper()
	form.Set("csrf_token", testCSRFToken)
	req := newFormRequest(http.MethodPost, target, form)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: testCSRFToken})
	e.attachSession(t, req, sess)
	return serve(e.router, req)
}

func (e *testEnv) attachSession(t *testing.T, req *http.Request, sess *session.Session) {
	t.Helper()
	if sess == nil {
		return
	}
	w := httptest.NewRecorder()
	if err := e.store.Save(w, sess); err != nil {
		t.Fatalf("failed to encode session: %v", err)
	}
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
}

// sessionOf はレスポンスのSet-Cookieからセッションを復元する。
// セッションCookieが設定されていない場合はnilを返す。
func (e *testEnv) sessionOf(t *testing.T, w *httptest.ResponseRecorder) *session.Session {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	found := false
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			req.AddCookie(c)
			found = true
		}
	}
	if !found {
		return nil
	}
	return e.store.Load(req)
}

func assertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusSeeOther)
	}
	if got := w.Header().Get("Location"); got != location {
		t.Errorf("Location = %q, want %q", got, location)
	}
}

func assertBodyContains(t *testing.T, w *httptest.ResponseRecorder, substrings ...string) {
	t.Helper()
	body := w.Body.String()
	for _, s := range substrings {
		if !strings.Contains(body, s) {
			t.Errorf("body does not contain %q", s)
		}
	}
}

func newFormRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
