package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hitoshi/storefront/internal/model"
)

// PostgresProductRepo はPostgreSQLを使用した商品リポジトリ。
type PostgresProductRepo struct {
	db *sqlx.DB
}

// NewPostgresProductRepo はPostgresProductRepoを生成する。
func NewPostgresProductRepo(db *sqlx.DB) *PostgresProductRepo {
	return &PostgresProductRepo{db: db}
}

// List は全商品をID昇順で返す。
func (r *PostgresProductRepo) List(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}
	err := r.db.SelectContext(ctx, &products,
		`SELECT id, name, price, image, description FROM products ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// FindByID は主キーで商品を取得する。見つからない場合はnilを返す。
func (r *PostgresProductRepo) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	product := &model.Product{}
	err := r.db.GetContext(ctx, product,
		`SELECT id, name, price, image, description FROM products WHERE id = $1`,
		id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return product, nil
}

// Seed は未登録の商品のみを1行ずつ投入する。既存の行は変更しない。
func (r *PostgresProductRepo) Seed(ctx context.Context, products []model.Product) error {
	for _, p := range products {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO products (id, name, price, image, description)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Name, p.Price, p.Image, p.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to seed product %d: %w", p.ID, err)
		}
	}
	return nil
}

// compile-time interface check
var (
	_ ProductRepository = (*PostgresProductRepo)(nil)
	_ ProductSeeder     = (*PostgresProductRepo)(nil)
)
