// Package model はドメインモデルを定義する。
package model

import "github.com/shopspring/decimal"

// Product は販売商品を表す。
// 起動時に一度だけ投入され、実行中に変更・削除されることはない。
type Product struct {
	ID          int64           `db:"id" yaml:"id"`
	Name        string          `db:"name" yaml:"name"`
	Price       decimal.Decimal `db:"price" yaml:"price"`
	Image       string          `db:"image" yaml:"image"`
	Description string          `db:"description" yaml:"description"` // サニタイズ済みHTML
}
