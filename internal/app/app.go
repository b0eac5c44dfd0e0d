// Package app はストアフロントの起動と依存関係の組み立てを行う。
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/storefront/internal/auth"
	"github.com/hitoshi/storefront/internal/cart"
	"github.com/hitoshi/storefront/internal/catalog"
	"github.com/hitoshi/storefront/internal/config"
	"github.com/hitoshi/storefront/internal/database"
	"github.com/hitoshi/storefront/internal/handler"
	"github.com/hitoshi/storefront/internal/logger"
	"github.com/hitoshi/storefront/internal/metrics"
	"github.com/hitoshi/storefront/internal/middleware"
	"github.com/hitoshi/storefront/internal/model"
	"github.com/hitoshi/storefront/internal/repository"
	"github.com/hitoshi/storefront/internal/security"
	"github.com/hitoshi/storefront/internal/session"
	"github.com/hitoshi/storefront/internal/view"
)

// backendTimeout は起動時のバックエンド疎通確認とシードの上限時間。
const backendTimeout = 10 * time.Second

// Init はアプリケーションの初期化を行う。
// .envと環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. .envの読み込み（既存の環境変数は上書きしない）
	if err := config.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	// 2. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, logger.ParseLevel(os.Getenv("LOG_LEVEL")))

	// 3. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd, err := ParseCommand(args)
	if err != nil {
		fmt.Fprintln(w, Usage())
		return err
	}

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("mode", string(cfg.Mode)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// backends はモードごとに選択したストレージ実装をまとめたもの。
type backends struct {
	products repository.ProductRepository
	// users はanonymousモードではnil
	users  repository.UserRepository
	health handler.HealthChecker
	close  func() error
}

// openBackends は設定のモードに応じてカタログとアカウントのストアを開く。
// postgresモードでは商品テーブルにカタログを投入する。
func openBackends(ctx context.Context, cfg *config.Config, products []model.Product) (*backends, error) {
	static := repository.NewStaticProductRepo(products)
	noClose := func() error { return nil }

	switch cfg.Mode {
	case config.ModeAnonymous:
		return &backends{products: static, close: noClose}, nil

	case config.ModeMemory:
		return &backends{products: static, users: repository.NewMemoryUserRepo(), close: noClose}, nil

	case config.ModeRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		slog.Info("redis connection established", slog.String("addr", opts.Addr))

		return &backends{
			products: static,
			users:    repository.NewRedisUserRepo(client),
			health: handler.HealthCheckFunc(func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			}),
			close: client.Close,
		}, nil

	case config.ModePostgres:
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.Ping(ctx, db, backendTimeout); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		slog.Info("database connection established")

		if err := database.CheckSchema(cfg.DatabaseURL); err != nil {
			db.Close()
			return nil, err
		}

		productRepo := repository.NewPostgresProductRepo(db)
		if err := productRepo.Seed(ctx, products); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
		slog.Info("catalog seeded", slog.Int("products", len(products)))

		return &backends{
			products: productRepo,
			users:    repository.NewPostgresUserRepo(db),
			health:   handler.HealthCheckFunc(db.PingContext),
			close:    db.Close,
		}, nil
	}

	return nil, fmt.Errorf("unsupported mode %q", cfg.Mode)
}

// newRouter はバックエンドと設定から全依存関係をワイヤリングしたルーターを構築する。
func newRouter(cfg *config.Config, b *backends, reg *prometheus.Registry) (http.Handler, error) {
	sessions, err := session.NewStore(session.StoreConfig{
		Secret:          cfg.SessionSecret,
		PreviousSecrets: cfg.SessionPreviousSecrets,
		MaxAge:          cfg.SessionMaxAge,
		CookieSecure:    cfg.CookieSecure,
		CookieDomain:    cfg.CookieDomain,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	catalogService := catalog.NewService(b.products)
	cartService := cart.NewService(catalogService, cart.ServiceConfig{
		RequireAuthForCheckout: cfg.Mode.RequiresAuth(),
	})

	deps := &handler.RouterDeps{
		Logger:   slog.Default(),
		Sessions: sessions,
		CSRF: middleware.CSRFConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		},
		SecurityHeaders: middleware.SecurityHeadersConfig{HTTPS: cfg.CookieSecure},
		Metrics:        metrics.NewCollector(reg),
		HealthChecker:  b.health,
		MetricsHandler: metrics.Handler(reg),
		StaticDir:      cfg.StaticDir,
		Renderer:       renderer,
		Catalog:        catalogService,
		Cart:           cartService,
	}

	if b.users != nil {
		authService, err := auth.NewService(b.users, auth.ServiceConfig{})
		if err != nil {
			return nil, fmt.Errorf("failed to create auth service: %w", err)
		}
		deps.Auth = authService
	}

	return handler.NewRouter(deps), nil
}

// newRegistry はアプリケーションとランタイムのメトリクスを登録するレジストリを生成する。
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// runServe はHTTPサーバーモードで起動する。
// モードに応じたストアを開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. カタログの読み込み
	products, err := catalog.LoadFile(cfg.CatalogFile, security.NewContentSanitizer())
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	// 2. ストアの初期化
	ctx, cancel := context.WithTimeout(context.Background(), backendTimeout)
	b, err := openBackends(ctx, cfg, products)
	cancel()
	if err != nil {
		return err
	}
	defer b.close()

	// 3. ルーターの構築
	router, err := newRouter(cfg, b, newRegistry())
	if err != nil {
		return err
	}

	// 4. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting",
			slog.String("addr", server.Addr),
			slog.Bool("accounts", cfg.Mode.RequiresAuth()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-stop:
	case err := <-serverErr:
		return fmt.Errorf("server listen error: %w", err)
	}
	slog.Info("shutting down HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("HTTP server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required for migrate")
	}

	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	version, err := database.RunMigrations(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully", slog.Uint64("version", uint64(version)))
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	endpoint := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(endpoint)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLのパスワードをマスクする。
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	return u.Redacted()
}
