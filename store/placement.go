package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KLR136/Controle-API/models"
)

// PlaceOrder converts the user's active cart into an order. The whole
// operation runs in one storage transaction: stock decrements, the order
// insert and the cart retirement either all commit or none do. On any
// failure (including context cancellation) the cart stays active and
// stock reads exactly as before the attempt.
func (s *Store) PlaceOrder(ctx context.Context, userID, shippingAddress string) (*models.Order, error) {
	shippingAddress = strings.TrimSpace(shippingAddress)
	if shippingAddress == "" {
		// cheap validation first: nothing has been touched yet
		return nil, ErrMissingShippingAddress
	}

	var placed *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Preload("Items", itemOrder).
			Where("user_id = ? AND active", userID).
			First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmptyCart
		}
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		// One-shot retirement latch. A concurrent placement of the same
		// cart blocks on this row and then matches zero rows, so the
		// second submit observes a spent cart without burning any stock.
		res := tx.Model(&models.Cart{}).
			Where("id = ? AND active", cart.ID).
			Update("active", false)
		if res.Error != nil {
			return fmt.Errorf("retire cart: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrEmptyCart
		}

		products, err := productSnapshot(tx, cart.Items)
		if err != nil {
			return err
		}

		// Prices are frozen from this pre-decrement snapshot; later
		// catalog changes never alter the order.
		lines, total, err := PriceLines(cart.Items, products)
		if err != nil {
			return err
		}

		stock := &ProductStock{db: tx}
		var shorts []StockShort
		for _, item := range cart.Items {
			if len(shorts) == 0 {
				ok, err := stock.CommitDecrement(ctx, item.ProductID, item.Quantity)
				if err != nil {
					return err
				}
				if ok {
					continue
				}
			}
			// Already failing: probe the remaining lines read-only so the
			// error reports every short line, then let rollback restore
			// the decrements applied above.
			check, err := stock.CheckAndReserve(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if len(shorts) > 0 && check.OK {
				continue
			}
			shorts = append(shorts, StockShort{
				ProductID: item.ProductID,
				Title:     products[item.ProductID].Title,
				Requested: item.Quantity,
				Available: check.Available,
			})
		}
		if len(shorts) > 0 {
			return &InsufficientStockError{Shorts: shorts}
		}

		order := models.Order{
			OrderRef:        newOrderRef(),
			UserID:          userID,
			CartID:          cart.ID,
			ShippingAddress: shippingAddress,
			TotalAmount:     total,
			Status:          models.OrderStatusPending,
			Items:           lines,
		}
		ledger := &OrderLedger{db: tx}
		if err := ledger.Append(ctx, &order); err != nil {
			return err
		}

		placed = &order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// productSnapshot loads every product referenced by the given lines within
// the placement transaction.
func productSnapshot(tx *gorm.DB, items []models.CartItem) (map[uint]models.Product, error) {
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	var products []models.Product
	if err := tx.Find(&products, "id IN ?", ids).Error; err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

func newOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}
