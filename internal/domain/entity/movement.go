package entity

import (
	"time"

	"github.com/jhoicas/inventario-sedes/internal/domain"
)

// MovementType tipo de movimiento del diario de inventario.
type MovementType string

// Tipos de movimiento. La dirección la da el tipo, nunca el signo de la cantidad.
const (
	MovementInbound    MovementType = "inbound"    // entrada (compra)
	MovementOutbound   MovementType = "outbound"   // salida (venta)
	MovementTransfer   MovementType = "transfer"   // traslado entre sedes (un solo registro)
	MovementAdjustment MovementType = "adjustment" // ajuste manual
)

// Valid indica si el tipo es conocido.
func (t MovementType) Valid() bool {
	switch t {
	case MovementInbound, MovementOutbound, MovementTransfer, MovementAdjustment:
		return true
	}
	return false
}

// AdjustmentDirection sentido de un ajuste manual.
type AdjustmentDirection string

const (
	AdjustmentUp   AdjustmentDirection = "up"
	AdjustmentDown AdjustmentDirection = "down"
)

// Movement es un registro inmutable del diario: se crea una vez por evento que afecta el stock,
// en la misma transacción que la actualización de LocationStock, y nunca se modifica ni se borra.
type Movement struct {
	ID                    string              `json:"id"`
	ProductID             string              `json:"product_id"`
	Type                  MovementType        `json:"type"`
	Quantity              int64               `json:"quantity"`
	Direction             AdjustmentDirection `json:"direction,omitempty"` // solo para ajustes
	Description           string              `json:"description"`
	ActorID               string              `json:"actor_id"`
	ReferenceID           string              `json:"reference_id,omitempty"` // compra, venta o traslado de origen
	LocationID            string              `json:"location_id,omitempty"`
	SourceLocationID      string              `json:"source_location_id,omitempty"`
	DestinationLocationID string              `json:"destination_location_id,omitempty"`
	CreatedAt             time.Time           `json:"timestamp"`
}

// StockDelta es el efecto de un movimiento sobre una celda.
type StockDelta struct {
	Key   StockKey
	Delta int64
}

// Validate verifica cantidad positiva y las sedes requeridas por el tipo.
func (m *Movement) Validate() error {
	if m.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	if m.ProductID == "" || !m.Type.Valid() {
		return domain.ErrInvalidInput
	}
	switch m.Type {
	case MovementTransfer:
		if m.SourceLocationID == "" || m.DestinationLocationID == "" {
			return domain.ErrInvalidInput
		}
		if m.SourceLocationID == m.DestinationLocationID {
			return domain.ErrInvalidTransfer
		}
	case MovementAdjustment:
		if m.LocationID == "" {
			return domain.ErrInvalidInput
		}
		if m.Direction != AdjustmentUp && m.Direction != AdjustmentDown {
			return domain.ErrInvalidInput
		}
	default:
		if m.LocationID == "" {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// Deltas devuelve el efecto del movimiento sobre cada celda afectada.
// Un traslado produce dos deltas (débito en origen, crédito en destino) desde un solo registro.
func (m *Movement) Deltas() []StockDelta {
	switch m.Type {
	case MovementInbound:
		return []StockDelta{{Key: StockKey{m.ProductID, m.LocationID}, Delta: m.Quantity}}
	case MovementOutbound:
		return []StockDelta{{Key: StockKey{m.ProductID, m.LocationID}, Delta: -m.Quantity}}
	case MovementTransfer:
		return []StockDelta{
			{Key: StockKey{m.ProductID, m.SourceLocationID}, Delta: -m.Quantity},
			{Key: StockKey{m.ProductID, m.DestinationLocationID}, Delta: m.Quantity},
		}
	case MovementAdjustment:
		d := m.Quantity
		if m.Direction == AdjustmentDown {
			d = -d
		}
		return []StockDelta{{Key: StockKey{m.ProductID, m.LocationID}, Delta: d}}
	}
	return nil
}
