package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/KLR136/Controle-API/models"
)

// openTestDB gives each test its own on-disk SQLite database. The DSN
// options make concurrent transactions queue instead of failing, which
// the placement race tests rely on.
func openTestDB(t *testing.T) *Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "controle.db") +
		"?_busy_timeout=10000&_txlock=immediate&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	st := New(db)
	require.NoError(t, st.Migrate())

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return st
}

func createProduct(t *testing.T, st *Store, title, price string, stock int) models.Product {
	t.Helper()
	p := models.Product{
		Title:         title,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		Active:        true,
	}
	require.NoError(t, st.db.Create(&p).Error)
	return p
}

func deactivateProduct(t *testing.T, st *Store, id uint) {
	t.Helper()
	require.NoError(t, st.db.Model(&models.Product{}).
		Where("id = ?", id).
		Update("active", false).Error)
}

func productStock(t *testing.T, st *Store, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, st.db.First(&p, "id = ?", id).Error)
	return p.StockQuantity
}

func cartWithItems(t *testing.T, st *Store, userID string, lines map[uint]int) *models.Cart {
	t.Helper()
	ctx := context.Background()
	cart, err := st.Carts.GetOrCreateActive(ctx, userID)
	require.NoError(t, err)
	for productID, qty := range lines {
		require.NoError(t, st.Carts.AddItem(ctx, cart.ID, productID, qty))
	}
	return cart
}

func cartActive(t *testing.T, st *Store, cartID uint) bool {
	t.Helper()
	var cart models.Cart
	require.NoError(t, st.db.First(&cart, "id = ?", cartID).Error)
	return cart.Active
}
