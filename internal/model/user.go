package model

import "time"

// User はストアのアカウントを表す。
// パスワードはソルト付きハッシュとしてのみ保持し、平文は保存しない。
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"password_hash"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
