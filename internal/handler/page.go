package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/storefront/internal/middleware"
	"github.com/hitoshi/storefront/internal/session"
	"github.com/hitoshi/storefront/internal/view"
)

// SessionStore はセッションCookieの読み書きを行うインターフェース。
type SessionStore interface {
	// Load はリクエストのCookieからセッションを復元する。
	Load(r *http.Request) *session.Session
	// Save はセッションを署名付きCookieとしてレスポンスに設定する。
	Save(w http.ResponseWriter, sess *session.Session) error
}

// PageRenderer はHTMLページを描画するインターフェース。
type PageRenderer interface {
	Render(w http.ResponseWriter, status int, name string, page *view.Page) error
}

// pageWriter はセッションの保存とページ描画をまとめて行う。
// Cookieはボディより先に書く必要があるため、描画・リダイレクトの直前に必ず保存する。
type pageWriter struct {
	sessions    SessionStore
	renderer    PageRenderer
	authEnabled bool
}

// render はセッションの通知とレイアウト情報をページに詰めて描画する。
func (p *pageWriter) render(w http.ResponseWriter, r *http.Request, sess *session.Session, status int, name string, page *view.Page) {
	page.AuthEnabled = p.authEnabled
	page.CSRFField = middleware.CSRFFormField
	page.CSRFToken = middleware.CSRFTokenFromContext(r.Context())
	if sess != nil {
		page.Username = sess.Username
		page.CartCount = sess.Cart.Count()
		page.Flashes = append(sess.PopFlashes(), page.Flashes...)

		if err := p.sessions.Save(w, sess); err != nil {
			slog.Error("failed to save session", slog.String("error", err.Error()))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}

	if err := p.renderer.Render(w, status, name, page); err != nil {
		slog.Error("failed to render page",
			slog.String("page", name),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// redirect はセッションを保存してから303でリダイレクトする。
func (p *pageWriter) redirect(w http.ResponseWriter, r *http.Request, sess *session.Session, url string) {
	if err := p.sessions.Save(w, sess); err != nil {
		slog.Error("failed to save session", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// renderError はエラーページを描画する。セッションが無い場合もレイアウトなしの情報で描画する。
func (p *pageWriter) renderError(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	sess, _ := middleware.SessionFromContext(r.Context())
	p.render(w, r, sess, status, view.PageError, &view.Page{
		Title:   title,
		Message: message,
	})
}

func (p *pageWriter) notFound(w http.ResponseWriter, r *http.Request) {
	p.renderError(w, r, http.StatusNotFound, "Page not found", "The page you are looking for does not exist.")
}

func (p *pageWriter) internalError(w http.ResponseWriter, r *http.Request) {
	p.renderError(w, r, http.StatusInternalServerError, "Something went wrong", "Please try again later.")
}

// currentSession はコンテキストのセッションを返す。
// セッションミドルウェアを通過していない場合は500を返してfalseを返す。
func (p *pageWriter) currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		slog.Error("session missing from request context", slog.String("path", r.URL.Path))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}

// productIDParam はURLパラメータの商品IDを正の整数として解釈する。
func productIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
