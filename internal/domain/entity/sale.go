package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale cabecera de una venta. No tiene estado: creación y descuento de stock son atómicos y definitivos.
type Sale struct {
	ID         string          `json:"id"`
	SellerID   string          `json:"seller_id"`
	LocationID string          `json:"location_id"`
	Total      decimal.Decimal `json:"total"`
	Lines      []SaleLine      `json:"lines"`
	CreatedAt  time.Time       `json:"created_at"`
}

// SaleLine línea de detalle de una venta.
type SaleLine struct {
	ID        string          `json:"id"`
	SaleID    string          `json:"sale_id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}
