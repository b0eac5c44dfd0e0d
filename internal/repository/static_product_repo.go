package repository

import (
	"context"
	"sort"

	"github.com/hitoshi/storefront/internal/model"
)

// StaticProductRepo は起動時に渡された固定リストを保持する商品リポジトリ。
type StaticProductRepo struct {
	products []model.Product
}

// NewStaticProductRepo はStaticProductRepoを生成する。
// 渡されたスライスはコピーしてID昇順に並べ替える。
func NewStaticProductRepo(products []model.Product) *StaticProductRepo {
	cp := make([]model.Product, len(products))
	copy(cp, products)
	sort.Slice(cp, func(i, j int) bool { return cp[i].ID < cp[j].ID })
	return &StaticProductRepo{products: cp}
}

// List は全商品をID昇順で返す。
func (r *StaticProductRepo) List(ctx context.Context) ([]model.Product, error) {
	cp := make([]model.Product, len(r.products))
	copy(cp, r.products)
	return cp, nil
}

// FindByID は線形探索で商品を取得する。見つからない場合はnilを返す。
func (r *StaticProductRepo) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

// compile-time interface check
var _ ProductRepository = (*StaticProductRepo)(nil)
