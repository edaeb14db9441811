package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/KLR136/Controle-API/models"
)

// ProductStock owns the stock_quantity column. The only authoritative
// guard against overselling is the conditional update in CommitDecrement;
// everything else is advisory.
type ProductStock struct {
	db *gorm.DB
}

// StockCheck is the result of an advisory availability read.
type StockCheck struct {
	OK        bool
	Available int
}

// CheckAndReserve reports whether quantity units look available right now.
// Callers must not treat a positive answer as a reservation: stock can be
// taken by a competing purchase between this read and CommitDecrement.
func (s *ProductStock) CheckAndReserve(ctx context.Context, productID uint, quantity int) (StockCheck, error) {
	var p models.Product
	err := s.db.WithContext(ctx).
		Select("stock_quantity", "active").
		First(&p, "id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return StockCheck{}, nil
	}
	if err != nil {
		return StockCheck{}, fmt.Errorf("read stock: %w", err)
	}
	if !p.Active {
		return StockCheck{}, nil
	}
	return StockCheck{
		OK:        p.StockQuantity >= quantity,
		Available: p.StockQuantity,
	}, nil
}

// CommitDecrement subtracts quantity only if the product is active and has
// at least that much stock, in a single conditional update. Two purchasers
// racing for the last unit cannot both win: the loser's update matches
// zero rows and ok is false.
func (s *ProductStock) CommitDecrement(ctx context.Context, productID uint, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, ErrInvalidQuantity
	}
	res := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND active AND stock_quantity >= ?", productID, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if res.Error != nil {
		return false, fmt.Errorf("decrement stock: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Release is the compensating increment for a decrement that must be
// undone outside the storage transaction that applied it. It restores
// stock regardless of the product's active flag.
func (s *ProductStock) Release(ctx context.Context, productID uint, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	res := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("release stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("release stock: %w", gorm.ErrRecordNotFound)
	}
	return nil
}
