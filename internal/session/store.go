package session

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/securecookie"
)

// CookieName はセッションCookieの名前。
const CookieName = "storefront_session"

// minSecretLength は署名鍵に要求する最小バイト数。
const minSecretLength = 32

// StoreConfig はセッションストアの設定。
type StoreConfig struct {
	// Secret は新しいCookieの署名に使う鍵。
	Secret string
	// PreviousSecrets はローテーション前の鍵。検証のみに使う。
	PreviousSecrets []string
	MaxAge          int // Cookieの有効期間（秒）
	CookieSecure    bool
	CookieDomain    string
}

// Store は署名付きCookieとセッションの相互変換を行う。
type Store struct {
	codecs []securecookie.Codec
	config StoreConfig
}

// NewStore はStoreを生成する。
// 現在の鍵が先頭になるようにコーデックを並べ、古い鍵のCookieも読み取れるようにする。
func NewStore(config StoreConfig) (*Store, error) {
	if len(config.Secret) < minSecretLength {
		return nil, fmt.Errorf("session secret must be at least %d bytes", minSecretLength)
	}

	secrets := append([]string{config.Secret}, config.PreviousSecrets...)
	codecs := make([]securecookie.Codec, 0, len(secrets))
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		sc := securecookie.New([]byte(secret), nil)
		sc.SetSerializer(securecookie.JSONEncoder{})
		sc.MaxAge(config.MaxAge)
		codecs = append(codecs, sc)
	}

	return &Store{codecs: codecs, config: config}, nil
}

// Load はリクエストのCookieからセッションを復元する。
// Cookieが無い、または署名検証に失敗した場合は空のセッションを返す。
func (s *Store) Load(r *http.Request) *Session {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return New()
	}

	sess := New()
	if err := securecookie.DecodeMulti(CookieName, cookie.Value, sess, s.codecs...); err != nil {
		slog.Warn("discarding invalid session cookie",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		return New()
	}
	return sess
}

// Save はセッションを署名してSet-Cookieヘッダーに書き込む。
// レスポンスボディの書き込み前に呼び出す必要がある。
func (s *Store) Save(w http.ResponseWriter, sess *Session) error {
	if sess == nil {
		return errors.New("session is nil")
	}

	encoded, err := securecookie.EncodeMulti(CookieName, sess, s.codecs...)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    encoded,
		Path:     "/",
		Domain:   s.config.CookieDomain,
		MaxAge:   s.config.MaxAge,
		HttpOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
