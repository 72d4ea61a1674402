// Package seed populates a fresh database with a demo catalog and an
// admin account so the storefront is browsable out of the box.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
	userrepo "storefront/internal/repository/user"
)

var demoProducts = []productrepo.CreateInput{
	{Name: "Trail Runner 2", Brand: "Stride", PriceCents: 8999, Description: "Lightweight trail running shoe with a grippy outsole."},
	{Name: "Canvas Tote", Brand: "Harbor", PriceCents: 2499, Description: "Heavy duty cotton tote bag."},
	{Name: "Thermal Flask 750ml", Brand: "Peak", PriceCents: 3299, Description: "Double walled stainless flask, keeps drinks hot for 12 hours."},
	{Name: "Wool Beanie", Brand: "Harbor", PriceCents: 1899, Description: "Merino wool beanie, one size."},
	{Name: "Compact Umbrella", Brand: "Drizzle", PriceCents: 1599, Description: "Windproof folding umbrella."},
	{Name: "Court Sneaker", Brand: "Stride", PriceCents: 7499, Description: "Classic low top sneaker in white leather."},
	{Name: "Daypack 20L", Brand: "Peak", PriceCents: 5499, Description: "Everyday backpack with padded laptop sleeve."},
	{Name: "Sunglasses Polarized", Brand: "Drizzle", PriceCents: 4299, Description: "Polarized lenses with UV400 protection."},
}

// Run inserts the demo products and ensures an admin user exists. It is
// idempotent: products are skipped when the catalog is non-empty and the
// admin is skipped when the username is taken.
func Run(ctx context.Context, products productrepo.Repository, users userrepo.Repository, adminPassword string, logger *log.Logger) error {
	existing, err := products.List(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	if len(existing) == 0 {
		for _, in := range demoProducts {
			if _, err := products.Create(ctx, in); err != nil {
				return fmt.Errorf("create product %q: %w", in.Name, err)
			}
		}
		logger.Printf("seeded %d products", len(demoProducts))
	} else {
		logger.Printf("catalog already has %d products, skipping", len(existing))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	_, err = users.Create(ctx, domain.User{
		FullName:     "Store Admin",
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		Role:         "admin",
	})
	switch {
	case errors.Is(err, domain.ErrAlreadyExists):
		logger.Println("admin user already exists, skipping")
	case err != nil:
		return fmt.Errorf("create admin user: %w", err)
	default:
		logger.Println("created admin user")
	}
	return nil
}
