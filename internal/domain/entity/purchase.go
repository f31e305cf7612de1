package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase cabecera de una compra a proveedor recibida en una sede.
// Total es derivado: suma de los subtotales de las líneas.
type Purchase struct {
	ID         string          `json:"id"`
	SupplierID string          `json:"supplier_id"`
	BuyerID    string          `json:"buyer_id"`
	LocationID string          `json:"location_id"`
	Total      decimal.Decimal `json:"total"`
	Status     PurchaseStatus  `json:"status"`
	Lines      []PurchaseLine  `json:"lines"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// PurchaseLine línea de detalle de una compra.
type PurchaseLine struct {
	ID         string          `json:"id"`
	PurchaseID string          `json:"purchase_id"`
	ProductID  string          `json:"product_id"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// Subtotal cantidad * precio unitario.
func (l PurchaseLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// RecomputeTotal recalcula Total a partir de las líneas.
func (p *Purchase) RecomputeTotal() {
	total := decimal.Zero
	for _, l := range p.Lines {
		total = total.Add(l.Subtotal())
	}
	p.Total = total
}
