package domain

import "time"

// CartItem is one product entry in a cart snapshot. ID is the product
// identifier; there is at most one item per product id in any snapshot.
// The catalog fields (name, price, description, image) are filled when the
// server joins stored rows with current product data.
type CartItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name,omitempty"`
	PriceCents  int64  `json:"priceCents,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Quantity    int    `json:"quantity"`
}

// CartRow is the stored server-side shape, unique on (user_id, product_id).
type CartRow struct {
	UserID    int64     `json:"userId"`
	ProductID int64     `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}
