// Package view はHTMLページのテンプレートと描画を提供する。
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/storefront/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// ページ名
const (
	PageHome     = "home"
	PageProduct  = "product"
	PageCart     = "cart"
	PageCheckout = "checkout"
	PageSignup   = "signup"
	PageLogin    = "login"
	PageError    = "error"
)

var pageNames = []string{
	PageHome, PageProduct, PageCart, PageCheckout, PageSignup, PageLogin, PageError,
}

// Page はレイアウトと各ページのテンプレートに渡すデータ。
type Page struct {
	Title string

	// レイアウト
	Username    string
	AuthEnabled bool
	CartCount   int
	Flashes     []model.Notice
	CSRFField   string
	CSRFToken   string

	// ページ固有
	Products     []model.Product
	Product      *model.Product
	Cart         *model.CartView
	FormUsername string
	Message      string
}

// Renderer は埋め込みテンプレートからページを描画する。
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer は埋め込みテンプレートを解析してRendererを生成する。
func NewRenderer() (*Renderer, error) {
	return newRenderer(templatesFS)
}

func newRenderer(fsys fs.FS) (*Renderer, error) {
	funcs := template.FuncMap{
		"money":       formatMoney,
		"description": description,
	}

	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(fsys, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout template: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		base, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout template: %w", err)
		}
		tpl, err := base.ParseFS(fsys, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = tpl
	}

	return &Renderer{pages: pages}, nil
}

// Render はページをバッファに描画してからステータスコードとともに書き出す。
// 描画に失敗した場合はレスポンスに何も書かずにエラーを返す。
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page *Page) error {
	tpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func formatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// description はカタログ読み込み時にサニタイズ済みの説明文をHTMLとして扱う。
func description(s string) template.HTML {
	return template.HTML(s)
}
