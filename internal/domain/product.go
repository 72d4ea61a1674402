package domain

import "time"

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	PriceCents  int64     `json:"priceCents"`
	Image       []byte    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}
