package model

import (
	"errors"
	"fmt"
)

// ドメインエラー
var (
	// ErrUsernameTaken はユーザー名が既に登録済みであることを示す。
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials はユーザー名またはパスワードが誤っていることを示す。
	// 未登録ユーザーとパスワード誤りを区別しない。
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUsernameRequired はユーザー名が空であることを示す。
	ErrUsernameRequired = errors.New("username is required")
	// ErrPasswordTooLong はパスワードがハッシュ化できる長さを超えていることを示す。
	ErrPasswordTooLong = errors.New("password is too long")
)

// Notice は次に描画されるページで一度だけ表示されるフラッシュ通知を表す。
type Notice struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"` // info, error
}

// Error はerrorインターフェースを実装する。
func (n *Notice) Error() string {
	return fmt.Sprintf("[%s] %s", n.Code, n.Message)
}

// 定義済み通知コード
const (
	NoticeCodeUsernameTaken      = "USERNAME_TAKEN"
	NoticeCodeUsernameRequired   = "USERNAME_REQUIRED"
	NoticeCodePasswordTooLong    = "PASSWORD_TOO_LONG"
	NoticeCodeInvalidCredentials = "INVALID_CREDENTIALS"
	NoticeCodeLoginRequired      = "LOGIN_REQUIRED"
	NoticeCodeSignedUp           = "SIGNED_UP"
	NoticeCodeLoggedIn           = "LOGGED_IN"
	NoticeCodeLoggedOut          = "LOGGED_OUT"
)

// NewUsernameTakenNotice はユーザー名重複の通知を生成する。
func NewUsernameTakenNotice() *Notice {
	return &Notice{
		Code:     NoticeCodeUsernameTaken,
		Message:  "Username already exists.",
		Category: "error",
	}
}

// NewUsernameRequiredNotice はユーザー名未入力の通知を生成する。
func NewUsernameRequiredNotice() *Notice {
	return &Notice{
		Code:     NoticeCodeUsernameRequired,
		Message:  "Username is required.",
		Category: "error",
	}
}

// NewPasswordTooLongNotice はパスワード長超過の通知を生成する。
func NewPasswordTooLongNotice() *Notice {
	return &Notice{
		Code:     NoticeCodePasswordTooLong,
		Message:  "Password must be at most 72 bytes.",
		Category: "error",
	}
}

// NewInvalidCredentialsNotice は認証失敗の通知を生成する。
// どちらが誤っていたかは明かさない。
func NewInvalidCredentialsNotice() *Notice {
	return &Notice{
		Code:     NoticeCodeInvalidCredentials,
		Message:  "Invalid username or password.",
		Category: "error",
	}
}

// NewLoginRequiredNotice は未ログインでのチェックアウト時の通知を生成する。
func NewLoginRequiredNotice() *Notice {
	return &Notice{
		Code:     NoticeCodeLoginRequired,
		Message:  "Please log in to checkout.",
		Category: "error",
	}
}

// NewSignedUpNotice はサインアップ完了の通知を生成する。
func NewSignedUpNotice() *Notice {
	return &Notice{
		Code:     NoticeCodeSignedUp,
		Message:  "Signup successful. Please log in.",
		Category: "info",
	}
}

// NewLoggedInNotice はログイン完了の通知を生成する。
func NewLoggedInNotice(username string) *Notice {
	return &Notice{
		Code:     NoticeCodeLoggedIn,
		Message:  fmt.Sprintf("Welcome, %s!", username),
		Category: "info",
	}
}

// NewLoggedOutNotice はログアウト完了の通知を生成する。
func NewLoggedOutNotice() *Notice {
	return &Notice{
		Code:     NoticeCodeLoggedOut,
		Message:  "You have been logged out.",
		Category: "info",
	}
}
