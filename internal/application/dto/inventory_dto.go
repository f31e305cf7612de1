package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/inventory/adjustments.
// Delta positivo suma, negativo resta; Reason es obligatorio.
type AdjustStockRequest struct {
	ProductID  string `json:"product_id" validate:"required,uuid"`
	LocationID string `json:"location_id" validate:"required,uuid"`
	Delta      int64  `json:"delta" validate:"ne=0"`
	Reason     string `json:"reason" validate:"required,max=500"`
}

// AdjustStockResponse resultado del ajuste.
type AdjustStockResponse struct {
	MovementID string        `json:"movement_id"`
	Stock      StockResponse `json:"stock"`
}

// StockResponse salida de una celda de stock.
type StockResponse struct {
	ProductID     string          `json:"product_id"`
	LocationID    string          `json:"location_id"`
	Quantity      int64           `json:"quantity_on_hand"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// StockListResponse lista de celdas.
type StockListResponse struct {
	Items []StockResponse `json:"items"`
}

// MovementResponse salida de un movimiento del diario.
type MovementResponse struct {
	ID                    string    `json:"id"`
	ProductID             string    `json:"product_id"`
	Type                  string    `json:"type"`
	Quantity              int64     `json:"quantity"`
	Direction             string    `json:"direction,omitempty"`
	Description           string    `json:"description"`
	ActorID               string    `json:"actor_id"`
	ReferenceID           string    `json:"reference_id,omitempty"`
	LocationID            string    `json:"location_id,omitempty"`
	SourceLocationID      string    `json:"source_location_id,omitempty"`
	DestinationLocationID string    `json:"destination_location_id,omitempty"`
	Timestamp             time.Time `json:"timestamp"`
}

// MovementListRequest filtros de GET /api/inventory/movements.
type MovementListRequest struct {
	ProductID  string
	LocationID string
	Type       string
	From, To   *time.Time
	PageRequest
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// DiscrepancyDTO diferencia entre el stock registrado y el reconstruido desde el diario.
type DiscrepancyDTO struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	Recorded   int64  `json:"recorded"`
	Replayed   int64  `json:"replayed"`
}

// VerifyLedgerResponse resultado de la verificación de paridad diario/libro.
type VerifyLedgerResponse struct {
	Consistent    bool             `json:"consistent"`
	Movements     int              `json:"movements_replayed"`
	Cells         int              `json:"cells_checked"`
	Discrepancies []DiscrepancyDTO `json:"discrepancies"`
}

// ReplenishmentSuggestionDTO producto bajo su stock mínimo en una sede con la cantidad sugerida a pedir.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	LocationID         string          `json:"location_id"`
	CurrentStock       int64           `json:"current_stock"`
	StockMinimo        int64           `json:"stock_minimo"`
	IdealStock         int64           `json:"ideal_stock"`
	SuggestedOrderQty  int64           `json:"suggested_order_qty"`
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
	GrossMarginPct     decimal.Decimal `json:"gross_margin_pct"`
	Priority           int             `json:"priority"`
}
