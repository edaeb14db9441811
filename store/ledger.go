package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/KLR136/Controle-API/models"
)

// OrderLedger is the append-only history of completed purchases. Once a
// row is in, only its status may change; totals and lines are immutable.
type OrderLedger struct {
	db *gorm.DB
}

// Append inserts an order with its lines. Called only from the placement
// transaction, with a ledger bound to that transaction's handle.
func (l *OrderLedger) Append(ctx context.Context, order *models.Order) error {
	if err := l.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("append order: %w", err)
	}
	return nil
}

// FindByID loads one order with its lines. A non-empty userID scopes the
// lookup to that user's own orders.
func (l *OrderLedger) FindByID(ctx context.Context, id uint, userID string) (*models.Order, error) {
	q := l.db.WithContext(ctx).Preload("Items").Where("id = ?", id)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var order models.Order
	if err := q.First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByUser returns a page of the user's orders, newest first, with the
// total row count.
func (l *OrderLedger) FindByUser(ctx context.Context, userID string, page, limit int) ([]models.Order, int64, error) {
	page, limit = normalizePage(page, limit)

	var total int64
	if err := l.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	var orders []models.Order
	if err := l.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

// ListFilter narrows the admin order listing.
type ListFilter struct {
	Status models.OrderStatus
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

// List returns a filtered page of all orders, newest first.
func (l *OrderLedger) List(ctx context.Context, f ListFilter) ([]models.Order, int64, error) {
	page, limit := normalizePage(f.Page, f.Limit)

	q := l.db.WithContext(ctx).Model(&models.Order{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	var orders []models.Order
	if err := q.Preload("Items").
		Order("created_at DESC, id DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus records a new status value. This is the only mutation the
// ledger permits after Append.
func (l *OrderLedger) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) error {
	if _, err := models.ParseOrderStatus(string(status)); err != nil {
		return err
	}
	res := l.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order: %w", gorm.ErrRecordNotFound)
	}
	return nil
}

// OrderStats summarizes the ledger for the admin dashboard.
type OrderStats struct {
	TotalOrders  int64                       `json:"total_orders"`
	TotalRevenue decimal.Decimal             `json:"total_revenue"`
	ByStatus     map[models.OrderStatus]int64 `json:"orders_by_status"`
}

// Stats aggregates counts and revenue. Revenue only counts orders past
// pending, and is summed with decimal arithmetic over the frozen totals.
func (l *OrderLedger) Stats(ctx context.Context) (OrderStats, error) {
	var rows []models.Order
	if err := l.db.WithContext(ctx).
		Select("status", "total_amount").
		Find(&rows).Error; err != nil {
		return OrderStats{}, fmt.Errorf("load orders: %w", err)
	}

	stats := OrderStats{
		TotalRevenue: decimal.Zero,
		ByStatus:     make(map[models.OrderStatus]int64),
	}
	for _, o := range rows {
		stats.TotalOrders++
		stats.ByStatus[o.Status]++
		if o.Status != models.OrderStatusPending {
			stats.TotalRevenue = stats.TotalRevenue.Add(o.TotalAmount)
		}
	}
	return stats, nil
}

// ProductSales is one row of the best-sellers report.
type ProductSales struct {
	ProductID uint            `json:"id"`
	Title     string          `json:"title"`
	TotalSold int             `json:"total_sold"`
	Revenue   decimal.Decimal `json:"total_revenue"`
}

// TopProducts ranks products by quantity sold across non-pending orders,
// computed from the frozen order lines, never from live catalog prices.
func (l *OrderLedger) TopProducts(ctx context.Context, limit int) ([]ProductSales, error) {
	if limit <= 0 {
		limit = 5
	}

	var items []models.OrderItem
	if err := l.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ?", models.OrderStatusPending).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}

	byProduct := make(map[uint]*ProductSales)
	for _, it := range items {
		s, ok := byProduct[it.ProductID]
		if !ok {
			s = &ProductSales{ProductID: it.ProductID, Title: it.Title, Revenue: decimal.Zero}
			byProduct[it.ProductID] = s
		}
		s.TotalSold += it.Quantity
		s.Revenue = s.Revenue.Add(it.Subtotal)
	}

	out := make([]ProductSales, 0, len(byProduct))
	for _, s := range byProduct {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSold != out[j].TotalSold {
			return out[i].TotalSold > out[j].TotalSold
		}
		return out[i].ProductID < out[j].ProductID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// IsNotFound reports whether err is a missing-record lookup failure.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}
