package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/storefront/internal/cart"
	"github.com/hitoshi/storefront/internal/metrics"
	"github.com/hitoshi/storefront/internal/model"
	"github.com/hitoshi/storefront/internal/session"
	"github.com/hitoshi/storefront/internal/view"
)

// CatalogService は商品カタログの参照インターフェース。
type CatalogService interface {
	// List は全商品をID順に返す。
	List(ctx context.Context) ([]model.Product, error)
	// Get は商品を返す。見つからない場合はnil, nilを返す。
	Get(ctx context.Context, id int64) (*model.Product, error)
}

// CartService はセッションのカート操作とチェックアウトのインターフェース。
type CartService interface {
	Add(sess *session.Session, productID int64)
	Remove(sess *session.Session, productID int64)
	View(ctx context.Context, c model.Cart) (*model.CartView, error)
	Checkout(sess *session.Session) cart.Outcome
}

// ShopHandler は商品一覧・カート・チェックアウトのHTTPハンドラー。
type ShopHandler struct {
	catalog CatalogService
	cart    CartService
	metrics metrics.Recorder
	pages   *pageWriter
}

// NewShopHandler はShopHandlerを生成する。
func NewShopHandler(catalog CatalogService, cartService CartService, recorder metrics.Recorder, pages *pageWriter) *ShopHandler {
	return &ShopHandler{
		catalog: catalog,
		cart:    cartService,
		metrics: recorder,
		pages:   pages,
	}
}

// Home は商品一覧を表示する。
// GET /
func (h *ShopHandler) Home(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.pages.currentSession(w, r)
	if !ok {
		return
	}

	products, err := h.catalog.List(r.Context())
	if err != nil {
		slog.Error("failed to list products", slog.String("error", err.Error()))
		h.pages.internalError(w, r)
		return
	}

	h.pages.render(w, r, sess, http.StatusOK, view.PageHome, &view.Page{
		Title:    "Products",
		Products: products,
	})
}

// Product は商品詳細を表示する。未知のIDの場合は404で未検出ページを表示する。
// GET /product/{id}
func (h *ShopHandler) Product(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.pages.currentSession(w, r)
	if !ok {
		return
	}

	id, ok := productIDParam(r)
	if !ok {
		h.pages.notFound(w, r)
		return
	}

	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		slog.Error("failed to get product",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
		h.pages.internalError(w, r)
		return
	}

	if product == nil {
		h.pages.render(w, r, sess, http.StatusNotFound, view.PageProduct, &view.Page{
			Title: "Product not found",
		})
		return
	}

	h.pages.render(w, r, sess, http.StatusOK, view.PageProduct, &view.Page{
		Title:   product.Name,
		Product: product,
	})
}

// AddToCart は商品を1つカートに追加してカートへリダイレクトする。
// GET /add_to_cart/{id}
func (h *ShopHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.pages.currentSession(w, r)
	if !ok {
		return
	}

	id, ok := productIDParam(r)
	if !ok {
		h.pages.notFound(w, r)
		return
	}

	h.cart.Add(sess, id)
	h.metrics.RecordCartOperation("add")

	h.pages.redirect(w, r, sess, "/cart")
}

// RemoveFromCart は商品をカートから削除してカートへリダイレクトする。
// GET /remove_from_cart/{id}
func (h *ShopHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.pages.currentSession(w, r)
	if !ok {
		return
	}

	id, ok := productIDParam(r)
	if !ok {
		h.pages.notFound(w, r)
		return
	}

	h.cart.Remove(sess, id)
	h.metrics.RecordCartOperation("remove")

	h.pages.redirect(w, r, sess, "/cart")
}

// Cart はカートの内容と合計を表示する。
// GET /cart
func (h *ShopHandler) Cart(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.pages.currentSession(w, r)
	if !ok {
		return
	}

	cartView, err := h.cart.View(r.Context(), sess.Cart)
	if err != nil {
		slog.Error("failed to build cart view", slog.String("error", err.Error()))
		h.pages.internalError(w, r)
		return
	}

	h.pages.render(w, r, sess, http.StatusOK, view.PageCart, &view.Page{
		Title: "Cart",
		Cart:  cartView,
	})
}

// Checkout はカートを確定する。
// 認証が必要なモードで未ログインの場合はカートを残したままログインページへリダイレクトする。
// GET /checkout
func (h *ShopHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.pages.currentSession(w, r)
	if !ok {
		return
	}

	outcome := h.cart.Checkout(sess)
	h.metrics.RecordCheckout(string(outcome))

	if outcome == cart.OutcomeLoginRequired {
		h.pages.redirect(w, r, sess, "/login")
		return
	}

	h.pages.render(w, r, sess, http.StatusOK, view.PageCheckout, &view.Page{
		Title: "Order confirmed",
	})
}
