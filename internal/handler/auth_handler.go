// Package handler はストアフロントのHTTPハンドラーを提供する。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/storefront/internal/metrics"
	"github.com/hitoshi/storefront/internal/model"
	"github.com/hitoshi/storefront/internal/view"
)

// AuthServiceInterface はアカウントハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Signup はアカウントを作成する。ユーザー名が使用済みの場合はmodel.ErrUsernameTakenを返す。
	Signup(ctx context.Context, username, password string) error
	// Login は資格情報を検証する。失敗時は理由を区別せずmodel.ErrInvalidCredentialsを返す。
	Login(ctx context.Context, username, password string) (*model.User, error)
}

// AuthHandler はサインアップ・ログイン・ログアウトのHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	metrics metrics.Recorder
	pages   *pageWriter
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, recorder metrics.Recorder, pages *pageWriter) *AuthHandler {
	return &AuthHandler{
		service: service,
		metrics: recorder,
		pages:   pages,
	}
}

// SignupForm はサインアップフォームを表示する。
// GET /signup
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.pages.currentSession(w, r)
	if !ok {
		return
	}
	h.pages.render(w, r, sess, http.StatusOK, view.PageSignup, &view.Page{Title: "Sign up"})
}

// Signup はアカウントを作成してログインページへリダイレクトする。
// 作成後もログイン状態にはしない。
// POST /signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.pages.currentSession(w, r)
	if !ok {
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	err := h.service.Signup(r.Context(), username, password)
	switch {
	case err == nil:
		h.metrics.RecordSignup("success")
		sess.AddFlash(model.NewSignedUpNotice())
		h.pages.redirect(w, r, sess, "/login")
	case errors.Is(err, model.ErrUsernameTaken):
		h.metrics.RecordSignup("taken")
		h.pages.render(w, r, sess, http.StatusConflict, view.PageSignup, &view.Page{
			Title:        "Sign up",
			FormUsername: username,
			Flashes:      []model.Notice{*model.NewUsernameTakenNotice()},
		})
	case errors.Is(err, model.ErrUsernameRequired):
		h.metrics.RecordSignup("invalid")
		h.pages.render(w, r, sess, http.StatusBadRequest, view.PageSignup, &view.Page{
			Title:   "Sign up",
			Flashes: []model.Notice{*model.NewUsernameRequiredNotice()},
		})
	case errors.Is(err, model.ErrPasswordTooLong):
		h.metrics.RecordSignup("invalid")
		h.pages.render(w, r, sess, http.StatusBadRequest, view.PageSignup, &view.Page{
			Title:        "Sign up",
			FormUsername: username,
			Flashes:      []model.Notice{*model.NewPasswordTooLongNotice()},
		})
	default:
		h.metrics.RecordSignup("error")
		slog.Error("failed to sign up", slog.String("error", err.Error()))
		h.pages.internalError(w, r)
	}
}

// LoginForm はログインフォームを表示する。
// GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.pages.currentSession(w, r)
	if !ok {
		return
	}
	h.pages.render(w, r, sess, http.StatusOK, view.PageLogin, &view.Page{Title: "Log in"})
}

// Login は資格情報を検証し、成功時はセッションを認証済みにしてトップへリダイレクトする。
// 失敗時は未登録とパスワード誤りを区別しない通知とともにフォームを再表示する。
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.pages.currentSession(w, r)
	if !ok {
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.service.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			h.metrics.RecordLogin("failure")
			h.pages.render(w, r, sess, http.StatusUnauthorized, view.PageLogin, &view.Page{
				Title:        "Log in",
				FormUsername: username,
				Flashes:      []model.Notice{*model.NewInvalidCredentialsNotice()},
			})
			return
		}
		h.metrics.RecordLogin("error")
		slog.Error("failed to log in", slog.String("error", err.Error()))
		h.pages.internalError(w, r)
		return
	}

	h.metrics.RecordLogin("success")
	sess.Authenticate(user.Username)
	sess.AddFlash(model.NewLoggedInNotice(user.Username))
	h.pages.redirect(w, r, sess, "/")
}

// Logout は認証状態を解除してトップへリダイレクトする。未ログインでも成功する。
// GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.pages.currentSession(w, r)
	if !ok {
		return
	}

	if sess.IsAuthenticated() {
		sess.AddFlash(model.NewLoggedOutNotice())
	}
	sess.Logout()
	h.pages.redirect(w, r, sess, "/")
}
