package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Cart は商品IDから数量へのマッピング。
// キーは常にint64の商品IDで、数量は1以上に保たれる。
type Cart map[int64]int

// Add は指定商品の数量を1増やす。未登録の場合は1で作成する。
func (c Cart) Add(productID int64) {
	c[productID]++
}

// Remove は指定商品をカートから削除する。存在しない場合は何もしない。
func (c Cart) Remove(productID int64) {
	delete(c, productID)
}

// Count はカート内の総数量を返す。
func (c Cart) Count() int {
	n := 0
	for _, qty := range c {
		n += qty
	}
	return n
}

// ProductIDs はカート内の商品IDを昇順で返す。
func (c Cart) ProductIDs() []int64 {
	ids := make([]int64, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CartLine はカート表示用の1行を表す。
type CartLine struct {
	Product  Product
	Quantity int
	Subtotal decimal.Decimal
}

// CartView はカートの表示内容と合計金額を表す。
// 解決できなかった商品は Lines と Total のどちらにも含まれない。
type CartView struct {
	Lines []CartLine
	Total decimal.Decimal
	Count int
}
