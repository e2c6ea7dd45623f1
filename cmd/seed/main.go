// Command seed creates the initial admin account. It is idempotent: when a
// user with the admin email already exists the command does nothing.
package main

import (
	"context"
	"log"
	"os"

	"github.com/schedly/schedly-backend/internal/auth"
	"github.com/schedly/schedly-backend/internal/config"
	"github.com/schedly/schedly-backend/internal/db"
	"github.com/schedly/schedly-backend/internal/user"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer pool.Close()

	email := getenv("SEED_ADMIN_EMAIL", "admin@schedly.com")
	password := getenv("SEED_ADMIN_PASSWORD", "admin123")
	name := getenv("SEED_ADMIN_NAME", "Admin User")

	userService := user.NewService(
		user.NewPgxRepository(pool),
		auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost),
	)

	_, err = userService.Create(ctx, user.CreateRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     user.RoleAdmin,
	})
	switch err {
	case nil:
		log.Printf("admin user %s created", email)
	case user.ErrEmailAlreadyUsed:
		log.Printf("admin user %s already exists", email)
	default:
		log.Fatalf("failed to create admin user: %v", err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
