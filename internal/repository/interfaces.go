// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/storefront/internal/model"
)

// ProductRepository は商品カタログの読み取りインターフェース。
// カタログは読み取り専用で、更新・削除の操作は持たない。
type ProductRepository interface {
	// List は全商品をID昇順で返す。
	List(ctx context.Context) ([]model.Product, error)

	// FindByID は指定IDの商品を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Product, error)
}

// ProductSeeder は起動時の商品投入に使うインターフェース。
type ProductSeeder interface {
	// Seed は未登録の商品のみを投入する。既存の行は変更しない。
	Seed(ctx context.Context, products []model.Product) error
}

// UserRepository はアカウントの永続化インターフェース。
// 実装は同一ユーザー名の同時登録を自身の排他制御で直列化しなければならない。
type UserRepository interface {
	// FindByUsername はユーザー名でアカウントを検索する。見つからない場合はnilを返す。
	// ユーザー名は大文字小文字を区別して完全一致で比較する。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// InsertIfAbsent はユーザー名が未登録の場合のみアカウントを作成する。
	// 作成した場合はtrue、既に存在した場合はfalseを返し、既存のアカウントは変更しない。
	InsertIfAbsent(ctx context.Context, user *model.User) (bool, error)
}
