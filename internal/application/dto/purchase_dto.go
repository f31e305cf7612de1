package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLineRequest línea de una compra.
type PurchaseLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int64           `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreatePurchaseRequest body para POST /api/purchases.
// Status vacío equivale a "completed" (recepción inmediata).
type CreatePurchaseRequest struct {
	SupplierID string                `json:"supplier_id" validate:"required"`
	LocationID string                `json:"location_id" validate:"required,uuid"`
	Status     string                `json:"status,omitempty" validate:"omitempty,oneof=pending completed"`
	Lines      []PurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// PurchaseLineResponse salida de una línea.
type PurchaseLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID         string                 `json:"id"`
	SupplierID string                 `json:"supplier_id"`
	BuyerID    string                 `json:"buyer_id"`
	LocationID string                 `json:"location_id"`
	Total      decimal.Decimal        `json:"total"`
	Status     string                 `json:"status"`
	Lines      []PurchaseLineResponse `json:"lines"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}
