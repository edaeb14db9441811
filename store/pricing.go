package store

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/KLR136/Controle-API/models"
)

// PriceLines freezes the given cart lines into order lines using the
// supplied product snapshot and returns the order total. Pure: no reads,
// no writes, so pricing stays independent of transaction plumbing.
func PriceLines(items []models.CartItem, products map[uint]models.Product) ([]models.OrderItem, decimal.Decimal, error) {
	total := decimal.Zero
	lines := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok || !p.Active {
			return nil, decimal.Decimal{}, fmt.Errorf("%w: product %d", ErrProductUnavailable, it.ProductID)
		}
		sub := p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		lines = append(lines, models.OrderItem{
			ProductID: p.ID,
			Title:     p.Title,
			UnitPrice: p.Price,
			Quantity:  it.Quantity,
			Subtotal:  sub,
		})
		total = total.Add(sub)
	}
	return lines, total, nil
}
