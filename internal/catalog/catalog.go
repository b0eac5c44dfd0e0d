// Package catalog は商品カタログの提供を行う。
package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/hitoshi/storefront/internal/model"
	"github.com/hitoshi/storefront/internal/repository"
	"github.com/hitoshi/storefront/internal/security"
)

// DefaultProducts は起動時に投入する既定の商品一覧を返す。
func DefaultProducts() []model.Product {
	return []model.Product{
		{ID: 1, Name: "Smartphone", Price: decimal.NewFromInt(250), Image: "images/phone.jpg"},
		{ID: 2, Name: "Headphones", Price: decimal.NewFromInt(50), Image: "images/headphones.jpg"},
		{ID: 3, Name: "Smartwatch", Price: decimal.NewFromInt(120), Image: "images/watch.jpg"},
	}
}

// catalogFile はYAMLカタログファイルの構造。
type catalogFile struct {
	Products []model.Product `yaml:"products"`
}

// LoadFile はYAMLカタログファイルを読み込み、説明文をサニタイズした商品一覧を返す。
// pathが空の場合は既定の商品一覧を返す。
func LoadFile(path string, sanitizer security.ContentSanitizer) ([]model.Product, error) {
	if path == "" {
		return DefaultProducts(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data, sanitizer)
}

// Parse はYAMLのカタログ定義を解析する。
// 商品名はタグを除いたプレーンテキストに、説明文は許可タグのみのHTMLに正規化する。
// IDの重複、非正のID、空の商品名、負の価格はエラーとする。
func Parse(data []byte, sanitizer security.ContentSanitizer) ([]model.Product, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	seen := make(map[int64]bool, len(f.Products))
	for i := range f.Products {
		p := &f.Products[i]
		if p.ID <= 0 {
			return nil, fmt.Errorf("invalid product id %d at index %d", p.ID, i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		seen[p.ID] = true
		p.Name = sanitizer.PlainText(p.Name)
		if p.Name == "" {
			return nil, fmt.Errorf("empty name for product %d", p.ID)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("negative price for product %d", p.ID)
		}
		p.Description = sanitizer.Sanitize(p.Description)
	}
	return f.Products, nil
}

// Service は商品一覧と商品詳細の取得を提供する。
type Service struct {
	repo repository.ProductRepository
}

// NewService はServiceを生成する。
func NewService(repo repository.ProductRepository) *Service {
	return &Service{repo: repo}
}

// List は全商品を返す。
func (s *Service) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Get は指定IDの商品を返す。見つからない場合はnil, nilを返す。
func (s *Service) Get(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}
