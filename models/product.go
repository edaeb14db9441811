package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entity. The catalog itself (creation, tagging,
// descriptions) is managed elsewhere; this service only reads prices and
// owns the stock_quantity column.
type Product struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Title         string          `gorm:"not null" json:"title"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity"`
	Active        bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
