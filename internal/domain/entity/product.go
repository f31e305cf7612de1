package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. El stock se maneja por sede en LocationStock.
// PurchasePrice y SalePrice son los precios generales; sirven de valor inicial cuando el
// producto se almacena por primera vez en una sede.
type Product struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"` // código único
	Name          string          `json:"name"`
	CategoryID    string          `json:"category_id,omitempty"`
	BrandID       string          `json:"brand_id,omitempty"`
	StockMinimo   int64           `json:"stock_minimo"` // umbral de reorden por sede
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// DefaultPrices devuelve los precios generales del producto para inicializar un LocationStock.
func (p *Product) DefaultPrices() Prices {
	return Prices{Purchase: p.PurchasePrice, Sale: p.SalePrice}
}
