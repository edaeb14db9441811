package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KLR136/Controle-API/models"
)

func priceProduct(id uint, title, price string) models.Product {
	return models.Product{
		ID:     id,
		Title:  title,
		Price:  decimal.RequireFromString(price),
		Active: true,
	}
}

func TestPriceLines(t *testing.T) {
	products := map[uint]models.Product{
		1: priceProduct(1, "Produit A", "9.99"),
		2: priceProduct(2, "Produit B", "4.50"),
	}
	items := []models.CartItem{
		{ProductID: 1, Quantity: 3},
		{ProductID: 2, Quantity: 2},
	}

	lines, total, err := PriceLines(items, products)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "Produit A", lines[0].Title)
	assert.True(t, lines[0].UnitPrice.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, 3, lines[0].Quantity)
	assert.True(t, lines[0].Subtotal.Equal(decimal.RequireFromString("29.97")))
	assert.True(t, lines[1].Subtotal.Equal(decimal.RequireFromString("9.00")))
	assert.True(t, total.Equal(decimal.RequireFromString("38.97")))
}

func TestPriceLinesEmpty(t *testing.T) {
	lines, total, err := PriceLines(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.True(t, total.Equal(decimal.Zero))
}

func TestPriceLinesMissingProduct(t *testing.T) {
	items := []models.CartItem{{ProductID: 42, Quantity: 1}}
	_, _, err := PriceLines(items, map[uint]models.Product{})
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestPriceLinesInactiveProduct(t *testing.T) {
	p := priceProduct(7, "Produit A", "10.00")
	p.Active = false
	items := []models.CartItem{{ProductID: 7, Quantity: 1}}
	_, _, err := PriceLines(items, map[uint]models.Product{7: p})
	assert.ErrorIs(t, err, ErrProductUnavailable)
}
