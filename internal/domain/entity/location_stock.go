package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LocationStock es la celda del libro de stock: cantidad disponible y precios de un producto en una sede.
// Única por (ProductID, LocationID). Quantity nunca es negativa.
type LocationStock struct {
	ProductID     string          `json:"product_id"`
	LocationID    string          `json:"location_id"`
	Quantity      int64           `json:"quantity_on_hand"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Prices agrupa los precios específicos de una sede.
type Prices struct {
	Purchase decimal.Decimal
	Sale     decimal.Decimal
}

// Prices devuelve los precios actuales de la celda.
func (s *LocationStock) Prices() Prices {
	return Prices{Purchase: s.PurchasePrice, Sale: s.SalePrice}
}

// StockKey identifica una celda (producto, sede).
type StockKey struct {
	ProductID  string
	LocationID string
}

// Key devuelve la clave de la celda.
func (s *LocationStock) Key() StockKey {
	return StockKey{ProductID: s.ProductID, LocationID: s.LocationID}
}
