package cart

import (
	"context"
	"encoding/base64"

	"storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetByUser(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	const q = `
SELECT c.product_id, c.quantity, p.name, p.price_cents, COALESCE(p.description, ''), p.image
FROM cart_items c
JOIN products p ON c.product_id = p.id
WHERE c.user_id = $1
ORDER BY c.created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		var image []byte
		if err := rows.Scan(&item.ID, &item.Quantity, &item.Name, &item.PriceCents, &item.Description, &image); err != nil {
			return nil, err
		}
		if len(image) > 0 {
			item.Image = base64.StdEncoding.EncodeToString(image)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *postgresRepo) Replace(ctx context.Context, userID int64, items []ReplaceItem) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return err
	}

	const insert = `
INSERT INTO cart_items (user_id, product_id, quantity)
VALUES ($1, $2, $3)
`
	for _, item := range items {
		if _, err := tx.Exec(ctx, insert, userID, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
