package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Mode はストアフロントの動作モード。カタログとアカウントの保存先を決める。
type Mode string

const (
	// ModeAnonymous は固定カタログのみで、アカウント機能を持たない。
	ModeAnonymous Mode = "anonymous"
	// ModePostgres はカタログとアカウントをPostgreSQLに保存する。
	ModePostgres Mode = "postgres"
	// ModeMemory は固定カタログとプロセス内のアカウントストアを使う。
	ModeMemory Mode = "memory"
	// ModeRedis は固定カタログとRedisのアカウントストアを使う。
	ModeRedis Mode = "redis"
)

// minSessionSecretLength はSESSION_SECRETの最小バイト数。
const minSessionSecretLength = 32

// RequiresAuth はチェックアウトにログインが必要なモードかどうかを返す。
func (m Mode) RequiresAuth() bool {
	return m != ModeAnonymous
}

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	Mode Mode

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Session
	SessionSecret          string
	SessionPreviousSecrets []string
	SessionMaxAge          int

	// Catalog
	CatalogFile string

	// Server
	ServerPort string
	BaseURL    string
	StaticDir  string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// Logging
	LogLevel string
}

// LoadDotEnv は.envファイルを環境変数に読み込む。
// ファイルが存在しない場合は何もしない。既存の環境変数は上書きしない。
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Mode = Mode(strings.ToLower(getEnvString("STOREFRONT_MODE", string(ModeMemory))))
	switch cfg.Mode {
	case ModeAnonymous, ModePostgres, ModeMemory, ModeRedis:
	default:
		return nil, fmt.Errorf("unknown STOREFRONT_MODE %q: must be one of anonymous, postgres, memory, redis", cfg.Mode)
	}

	// Required fields
	var missing []string

	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	if cfg.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.Mode == ModePostgres && cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.RedisURL = os.Getenv("REDIS_URL")
	if cfg.Mode == ModeRedis && cfg.RedisURL == "" {
		missing = append(missing, "REDIS_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	if len(cfg.SessionSecret) < minSessionSecretLength {
		return nil, fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSessionSecretLength)
	}

	// Optional fields with defaults
	cfg.SessionPreviousSecrets = getEnvList("SESSION_SECRET_PREVIOUS")
	for _, s := range cfg.SessionPreviousSecrets {
		if len(s) < minSessionSecretLength {
			return nil, fmt.Errorf("SESSION_SECRET_PREVIOUS entries must be at least %d bytes", minSessionSecretLength)
		}
	}
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400)
	cfg.CatalogFile = getEnvString("CATALOG_FILE", "")
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.BaseURL = getEnvString("BASE_URL", "http://localhost:8080")
	cfg.StaticDir = getEnvString("STATIC_DIR", "static")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// getEnvList はカンマ区切りの環境変数を空要素を除いて分割する。
func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
