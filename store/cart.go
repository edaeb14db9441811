package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KLR136/Controle-API/models"
)

// Carts owns cart lifecycle and line edits. Quantity edits never touch
// stock; availability is only enforced at placement time.
type Carts struct {
	db *gorm.DB
}

// GetOrCreateActive returns the user's active cart, creating it if none
// exists. The insert is a single conditional statement guarded by the
// partial unique index on carts(user_id) where active, so two racing
// first-add requests still end up with exactly one active cart.
func (c *Carts) GetOrCreateActive(ctx context.Context, userID string) (*models.Cart, error) {
	cart := models.Cart{UserID: userID, Active: true}
	if err := c.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&cart).Error; err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}

	var out models.Cart
	if err := c.db.WithContext(ctx).
		Preload("Items", itemOrder).
		Where("user_id = ? AND active", userID).
		First(&out).Error; err != nil {
		return nil, fmt.Errorf("fetch active cart: %w", err)
	}
	return &out, nil
}

func itemOrder(db *gorm.DB) *gorm.DB {
	return db.Order("cart_items.created_at ASC, cart_items.id ASC")
}

// AddItem merges quantity into an existing line or inserts a new one.
// The product must exist and be active.
func (c *Carts) AddItem(ctx context.Context, cartID, productID uint, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if err := c.requireActive(ctx, cartID); err != nil {
		return err
	}

	var product models.Product
	err := c.db.WithContext(ctx).First(&product, "id = ? AND active", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: product %d", ErrProductUnavailable, productID)
	}
	if err != nil {
		return fmt.Errorf("load product: %w", err)
	}

	item := models.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
	if err := c.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_items.quantity + ?", quantity),
				"updated_at": time.Now(),
			}),
		}).
		Create(&item).Error; err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

// SetItemQuantity replaces a line's quantity.
func (c *Carts) SetItemQuantity(ctx context.Context, cartID, productID uint, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if err := c.requireActive(ctx, cartID); err != nil {
		return err
	}
	res := c.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Updates(map[string]interface{}{"quantity": quantity, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item: %w", gorm.ErrRecordNotFound)
	}
	return nil
}

// RemoveItem deletes a single line.
func (c *Carts) RemoveItem(ctx context.Context, cartID, productID uint) error {
	if err := c.requireActive(ctx, cartID); err != nil {
		return err
	}
	res := c.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("remove cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item: %w", gorm.ErrRecordNotFound)
	}
	return nil
}

// Clear removes every line but keeps the cart active.
func (c *Carts) Clear(ctx context.Context, cartID uint) error {
	if err := c.requireActive(ctx, cartID); err != nil {
		return err
	}
	if err := c.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Retire flips the cart to its historical state. Retiring an already
// retired cart is a no-op.
func (c *Carts) Retire(ctx context.Context, cartID uint) error {
	if err := c.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ? AND active", cartID).
		Update("active", false).Error; err != nil {
		return fmt.Errorf("retire cart: %w", err)
	}
	return nil
}

// CartLineView is a cart line joined with live catalog data for display.
type CartLineView struct {
	ProductID     uint            `json:"product_id"`
	Title         string          `json:"title"`
	UnitPrice     decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	StockQuantity int             `json:"stock_quantity"`
	Available     bool            `json:"available"`
}

// Snapshot returns the cart's lines with current price, stock and an
// availability flag. Prices shown here are informational; the order total
// is frozen separately at placement.
func (c *Carts) Snapshot(ctx context.Context, cartID uint) ([]CartLineView, error) {
	var items []models.CartItem
	if err := c.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}
	if len(items) == 0 {
		return []CartLineView{}, nil
	}

	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	var products []models.Product
	if err := c.db.WithContext(ctx).Find(&products, "id IN ?", ids).Error; err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	views := make([]CartLineView, 0, len(items))
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok || !p.Active {
			views = append(views, CartLineView{
				ProductID: it.ProductID,
				Title:     p.Title,
				Quantity:  it.Quantity,
				Available: false,
			})
			continue
		}
		sub := p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		views = append(views, CartLineView{
			ProductID:     it.ProductID,
			Title:         p.Title,
			UnitPrice:     p.Price,
			Quantity:      it.Quantity,
			Subtotal:      sub,
			StockQuantity: p.StockQuantity,
			Available:     p.StockQuantity >= it.Quantity,
		})
	}
	return views, nil
}

func (c *Carts) requireActive(ctx context.Context, cartID uint) error {
	var cart models.Cart
	err := c.db.WithContext(ctx).Select("id", "active").First(&cart, "id = ?", cartID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("cart: %w", gorm.ErrRecordNotFound)
	}
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	if !cart.Active {
		return ErrCartRetired
	}
	return nil
}
