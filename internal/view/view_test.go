package view

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/storefront/internal/model"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	return r
}

func TestNewRenderer_ParsesAllPages(t *testing.T) {
	r := newTestRenderer(t)
	for _, name := range pageNames {
		if _, ok := r.pages[name]; !ok {
			t.Errorf("page %q not parsed", name)
		}
	}
}

func TestRender_HomeListsProducts(t *testing.T) {
	r := newTestRenderer(t)
	w := httptest.NewRecorder()

	page := &Page{
		Title: "Products",
		Products: []model.Product{
			{ID: 1, Name: "Smartphone", Price: decimal.NewFromInt(250), Image: "images/phone.jpg"},
			{ID: 2, Name: "Headphones", Price: decimal.NewFromInt(50)},
		},
		CartCount: 3,
	}
	if err := r.Render(w, http.StatusOK, PageHome, page); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	body := w.Body.String()
	for _, want := range []string{"Smartphone", "$250.00", "/add_to_cart/2", "/static/images/phone.jpg", "Cart (3)"} {
		if !strings.Contains(body, want) {
			t.Errorf("body does not contain %q", want)
		}
	}
}

func TestRender_LayoutShowsLoginState(t *testing.T) {
	tests := []struct {
		name    string
		page    *Page
		want    []string
		notWant []string
	}{
		{
			name:    "アカウント機能なし",
			page:    &Page{Title: "Products"},
			notWant: []string{"/login", "/logout"},
		},
		{
			name:    "未ログイン",
			page:    &Page{Title: "Products", AuthEnabled: true},
			want:    []string{"/login", "/signup"},
			notWant: []string{"/logout"},
		},
		{
			name:    "ログイン済み",
			page:    &Page{Title: "Products", AuthEnabled: true, Username: "alice"},
			want:    []string{"Logged in as alice", "/logout"},
			notWant: []string{`href="/login"`},
		},
	}

	r := newTestRenderer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			if err := r.Render(w, http.StatusOK, PageHome, tt.page); err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			body := w.Body.String()
			for _, s := range tt.want {
				if !strings.Contains(body, s) {
					t.Errorf("body does not contain %q", s)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(body, s) {
					t.Errorf("body should not contain %q", s)
				}
			}
		})
	}
}

func TestRender_FlashesAreEscaped(t *testing.T) {
	r := newTestRenderer(t)
	w := httptest.NewRecorder()

	page := &Page{
		Title:   "Log in",
		Flashes: []model.Notice{*model.NewLoggedInNotice("<script>x</script>")},
	}
	if err := r.Render(w, http.StatusOK, PageHome, page); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	body := w.Body.String()
	if strings.Contains(body, "<script>x</script>") {
		t.Error("flash message should be HTML escaped")
	}
	if !strings.Contains(body, "flash-info") {
		t.Error("flash category class missing")
	}
}

func TestRender_ProductNotFound(t *testing.T) {
	r := newTestRenderer(t)
	w := httptest.NewRecorder()

	if err := r.Render(w, http.StatusNotFound, PageProduct, &Page{Title: "Product not found"}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if !strings.Contains(w.Body.String(), "Product not found") {
		t.Error("not-found message missing")
	}
}

func TestRender_ProductDescriptionKeepsSanitizedHTML(t *testing.T) {
	r := newTestRenderer(t)
	w := httptest.NewRecorder()

	page := &Page{
		Title: "Smartwatch",
		Product: &model.Product{
			ID: 3, Name: "Smartwatch", Price: decimal.NewFromInt(120),
			Description: "<p>Tracks <strong>steps</strong></p>",
		},
	}
	if err := r.Render(w, http.StatusOK, PageProduct, page); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(w.Body.String(), "<strong>steps</strong>") {
		t.Error("sanitized description markup should be rendered as HTML")
	}
}

func TestRender_CartShowsTotal(t *testing.T) {
	r := newTestRenderer(t)
	w := httptest.NewRecorder()

	phone := model.Product{ID: 1, Name: "Smartphone", Price: decimal.NewFromInt(250)}
	page := &Page{
		Title: "Cart",
		Cart: &model.CartView{
			Lines: []model.CartLine{
				{Product: phone, Quantity: 2, Subtotal: decimal.NewFromInt(500)},
			},
			Total: decimal.NewFromInt(500),
			Count: 2,
		},
	}
	if err := r.Render(w, http.StatusOK, PageCart, page); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	body := w.Body.String()
	for _, want := range []string{"Total: $500.00", "/remove_from_cart/1", "/checkout"} {
		if !strings.Contains(body, want) {
			t.Errorf("body does not contain %q", want)
		}
	}
}

func TestRender_EmptyCart(t *testing.T) {
	r := newTestRenderer(t)
	w := httptest.NewRecorder()

	page := &Page{Title: "Cart", Cart: &model.CartView{Total: decimal.Zero}}
	if err := r.Render(w, http.StatusOK, PageCart, page); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(w.Body.String(), "Your cart is empty.") {
		t.Error("empty cart message missing")
	}
}

func TestRender_FormsCarryCSRFToken(t *testing.T) {
	r := newTestRenderer(t)

	for _, name := range []string{PageSignup, PageLogin} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			page := &Page{Title: name, CSRFField: "csrf_token", CSRFToken: "tok123", FormUsername: "alice"}
			if err := r.Render(w, http.StatusOK, name, page); err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			body := w.Body.String()
			if !strings.Contains(body, `name="csrf_token" value="tok123"`) {
				t.Error("csrf hidden field missing")
			}
			if !strings.Contains(body, `value="alice"`) {
				t.Error("username should be prefilled")
			}
		})
	}
}

func TestRender_UnknownPage_ReturnsError(t *testing.T) {
	r := newTestRenderer(t)
	w := httptest.NewRecorder()

	if err := r.Render(w, http.StatusOK, "missing", &Page{}); err == nil {
		t.Fatal("expected error for unknown page")
	}
	if w.Body.Len() != 0 {
		t.Error("nothing should be written on error")
	}
}

func TestFormatMoney(t *testing.T) {
	if got := formatMoney(decimal.RequireFromString("19.5")); got != "$19.50" {
		t.Errorf("formatMoney = %q, want $19.50", got)
	}
}
