package product

import (
	"context"
	"errors"
	"io"
	"log"

	"storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT id, name, COALESCE(description, ''), COALESCE(brand, ''), price_cents, image, created_at
FROM products
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Brand, &p.PriceCents, &p.Image, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	const q = `
SELECT id, name, COALESCE(description, ''), COALESCE(brand, ''), price_cents, image, created_at
FROM products
WHERE id = $1
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.Description, &p.Brand, &p.PriceCents, &p.Image, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%d error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, description, brand, price_cents, image)
VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5)
RETURNING id, name, COALESCE(description, ''), COALESCE(brand, ''), price_cents, image, created_at
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, in.Name, in.Description, in.Brand, in.PriceCents, in.Image).Scan(
		&p.ID, &p.Name, &p.Description, &p.Brand, &p.PriceCents, &p.Image, &p.CreatedAt,
	)
	if err != nil {
		r.logger.Printf("product repo: create name=%q error=%v", in.Name, err)
		return nil, err
	}
	r.logger.Printf("product repo: created id=%d name=%q", p.ID, p.Name)
	return &p, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("product repo: delete id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
