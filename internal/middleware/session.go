// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/hitoshi/storefront/internal/session"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// sessionContextKey はリクエストコンテキストにセッションを格納するためのキー。
var sessionContextKey = contextKey("session")

// ErrNoSession はコンテキストにセッションが無いことを示す。
var ErrNoSession = errors.New("session not found in context")

// SessionLoader はCookieからセッションを復元するインターフェース。
// session.Storeの部分集合として定義する。
type SessionLoader interface {
	Load(r *http.Request) *session.Session
}

// NewSessionMiddleware は署名付きCookieからセッションを読み取り、
// リクエストコンテキストに注入するミドルウェアを返す。
// 未認証のリクエストも拒否せず、空のセッションを注入する。
func NewSessionMiddleware(loader SessionLoader) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := loader.Load(r)
			ctx := ContextWithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext はリクエストコンテキストからセッションを取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func SessionFromContext(ctx context.Context) (*session.Session, error) {
	sess, ok := ctx.Value(sessionContextKey).(*session.Session)
	if !ok || sess == nil {
		return nil, ErrNoSession
	}
	return sess, nil
}

// ContextWithSession はコンテキストにセッションを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// UsernameFromContext はセッションの認証済みユーザー名を返す。未認証の場合は空文字列。
func UsernameFromContext(ctx context.Context) string {
	sess, err := SessionFromContext(ctx)
	if err != nil {
		return ""
	}
	return sess.Username
}
