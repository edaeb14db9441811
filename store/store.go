package store

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/KLR136/Controle-API/models"
)

// Store owns the shared database handle and exposes the data components.
// It is constructed once at startup and passed by reference; nothing in
// this package reaches for a global connection.
type Store struct {
	db *gorm.DB

	Stock  *ProductStock
	Carts  *Carts
	Orders *OrderLedger
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:     db,
		Stock:  &ProductStock{db: db},
		Carts:  &Carts{db: db},
		Orders: &OrderLedger{db: db},
	}
}

// Migrate creates the schema. The partial unique index is what makes
// Carts.GetOrCreateActive race-safe: two concurrent first-cart inserts for
// one user collide here and exactly one row ends up active.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	// Supported by both Postgres and SQLite.
	if err := s.db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_one_active_per_user ON carts (user_id) WHERE active`,
	).Error; err != nil {
		return fmt.Errorf("create active-cart index: %w", err)
	}
	return nil
}
