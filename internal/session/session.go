// Package session はクライアント側Cookieに保持するセッション状態を提供する。
//
// セッションはカートと認証済みユーザー名、フラッシュ通知のみを持ち、
// サーバー側には何も保存しない。Cookieは設定から渡された秘密鍵で署名される。
package session

import (
	"github.com/hitoshi/storefront/internal/model"
)

// Session は1つのブラウザセッションに紐づく状態を表す。
type Session struct {
	Cart     model.Cart     `json:"cart,omitempty"`
	Username string         `json:"username,omitempty"`
	Flashes  []model.Notice `json:"flashes,omitempty"`
}

// New は空のセッションを生成する。
func New() *Session {
	return &Session{}
}

// CartForUpdate は変更用のカートを返す。未作成の場合は空のカートを作成する。
func (s *Session) CartForUpdate() model.Cart {
	if s.Cart == nil {
		s.Cart = model.Cart{}
	}
	return s.Cart
}

// ClearCart はカート全体を削除する。
func (s *Session) ClearCart() {
	s.Cart = nil
}

// IsAuthenticated は認証済みユーザー名を持つかどうかを返す。
func (s *Session) IsAuthenticated() bool {
	return s.Username != ""
}

// Authenticate はセッションを指定ユーザーの認証済み状態にする。
func (s *Session) Authenticate(username string) {
	s.Username = username
}

// Logout は認証済みユーザー名を削除する。未認証でも何もせずに成功する。
func (s *Session) Logout() {
	s.Username = ""
}

// AddFlash は次に描画されるページで表示する通知を追加する。
func (s *Session) AddFlash(n *model.Notice) {
	s.Flashes = append(s.Flashes, *n)
}

// PopFlashes は保留中の通知をすべて取り出して削除する。
func (s *Session) PopFlashes() []model.Notice {
	flashes := s.Flashes
	s.Flashes = nil
	return flashes
}
