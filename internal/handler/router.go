package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/storefront/internal/metrics"
	"github.com/hitoshi/storefront/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger          *slog.Logger
	Sessions        SessionStore
	CSRF            middleware.CSRFConfig
	SecurityHeaders middleware.SecurityHeadersConfig
	Metrics         metrics.Recorder

	// 運用エンドポイント
	HealthChecker  HealthChecker
	MetricsHandler http.Handler
	StaticDir      string

	// ページ
	Renderer PageRenderer
	Catalog  CatalogService
	Cart     CartService

	// アカウント。nilの場合はサインアップ・ログイン・ログアウトを提供しない
	Auth AuthServiceInterface
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Recovery → SecurityHeaders → Metrics → Session → Logging → CSRF（ページのみ）
//
// /health, /metrics, /static/* はCSRFミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	recorder := deps.Metrics
	if recorder == nil {
		recorder = metrics.NopRecorder{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pages := &pageWriter{
		sessions:    deps.Sessions,
		renderer:    deps.Renderer,
		authEnabled: deps.Auth != nil,
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.NewRecoveryMiddleware(pages.internalError))
	r.Use(middleware.NewSecurityHeadersMiddleware(deps.SecurityHeaders))
	r.Use(middleware.NewMetricsMiddleware(recorder))
	r.Use(middleware.NewSessionMiddleware(deps.Sessions))
	r.Use(middleware.NewLoggingMiddleware(logger))

	r.NotFound(pages.notFound)

	// --- 運用エンドポイント ---
	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}
	if deps.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(deps.StaticDir))))
	}

	// --- ページ ---
	shop := NewShopHandler(deps.Catalog, deps.Cart, recorder, pages)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRFMiddleware(deps.CSRF))

		r.Get("/", shop.Home)
		r.Get("/product/{id}", shop.Product)
		r.Get("/add_to_cart/{id}", shop.AddToCart)
		r.Get("/remove_from_cart/{id}", shop.RemoveFromCart)
		r.Get("/cart", shop.Cart)
		r.Get("/checkout", shop.Checkout)

		if deps.Auth == nil {
			return
		}

		account := NewAuthHandler(deps.Auth, recorder, pages)
		r.Get("/signup", account.SignupForm)
		r.Post("/signup", account.Signup)
		r.Get("/login", account.LoginForm)
		r.Post("/login", account.Login)
		r.Get("/logout", account.Logout)
	})

	return r
}
