package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta. UnitPrice en cero toma el precio de venta de la sede.
type SaleLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int64           `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	LocationID string            `json:"location_id" validate:"required,uuid"`
	Lines      []SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// SaleLineResponse salida de una línea de venta.
type SaleLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID         string             `json:"id"`
	SellerID   string             `json:"seller_id"`
	LocationID string             `json:"location_id"`
	Total      decimal.Decimal    `json:"total"`
	Lines      []SaleLineResponse `json:"lines"`
	CreatedAt  time.Time          `json:"created_at"`
}
