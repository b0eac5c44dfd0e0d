// Package cart はセッションに保持するカートの集計とチェックアウトを提供する。
package cart

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/storefront/internal/model"
	"github.com/hitoshi/storefront/internal/session"
)

// ProductFinder はカート集計に必要な商品取得のインターフェース。
// 見つからない場合はnil, nilを返す。
type ProductFinder interface {
	Get(ctx context.Context, id int64) (*model.Product, error)
}

// Outcome はチェックアウトの結果を表す。
type Outcome string

const (
	// OutcomeCompleted はカートを空にしてチェックアウトが完了したことを示す。
	OutcomeCompleted Outcome = "completed"
	// OutcomeLoginRequired は未認証のためカートを変更せずに中断したことを示す。
	OutcomeLoginRequired Outcome = "login_required"
)

// ServiceConfig はカートサービスの設定。
type ServiceConfig struct {
	// RequireAuthForCheckout はチェックアウトに認証を要求するかどうか。
	RequireAuthForCheckout bool
}

// Service はカートの参照とチェックアウトを提供する。
type Service struct {
	products ProductFinder
	config   ServiceConfig
}

// NewService はServiceを生成する。
func NewService(products ProductFinder, config ServiceConfig) *Service {
	return &Service{products: products, config: config}
}

// Add は商品を1つカートに追加する。
func (s *Service) Add(sess *session.Session, productID int64) {
	sess.CartForUpdate().Add(productID)
}

// Remove は商品をカートから削除する。カートに無い場合は何もしない。
func (s *Service) Remove(sess *session.Session, productID int64) {
	if sess.Cart == nil {
		return
	}
	sess.Cart.Remove(productID)
}

// View はカートの内容を商品情報で解決し、小計と合計を計算する。
// 解決できない商品は一覧と合計の両方から除外する。
func (s *Service) View(ctx context.Context, c model.Cart) (*model.CartView, error) {
	view := &model.CartView{
		Lines: []model.CartLine{},
		Total: decimal.Zero,
	}

	for _, id := range c.ProductIDs() {
		qty := c[id]
		product, err := s.products.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve cart product %d: %w", id, err)
		}
		if product == nil {
			continue
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(int64(qty)))
		view.Lines = append(view.Lines, model.CartLine{
			Product:  *product,
			Quantity: qty,
			Subtotal: subtotal,
		})
		view.Total = view.Total.Add(subtotal)
		view.Count += qty
	}

	return view, nil
}

// Checkout はカートを確定して空にする。
// 認証が必要な設定で未認証の場合は、カートを変更せず通知を積んでOutcomeLoginRequiredを返す。
// 注文レコードは作成しない。
func (s *Service) Checkout(sess *session.Session) Outcome {
	if s.config.RequireAuthForCheckout && !sess.IsAuthenticated() {
		sess.AddFlash(model.NewLoginRequiredNotice())
		return OutcomeLoginRequired
	}

	items := sess.Cart.Count()
	sess.ClearCart()

	slog.Info("checkout completed",
		slog.String("username", sess.Username),
		slog.Int("items", items),
	)
	return OutcomeCompleted
}
