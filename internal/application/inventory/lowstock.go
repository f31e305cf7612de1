package inventory

import (
	"github.com/jhoicas/inventario-sedes/internal/application/ports"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// LowStockEvent devuelve un evento stock.low si la celda quedó por debajo del stock mínimo del producto.
func LowStockEvent(product *entity.Product, cell *entity.LocationStock) (ports.Event, bool) {
	if product == nil || cell == nil || product.StockMinimo <= 0 {
		return ports.Event{}, false
	}
	if cell.Quantity >= product.StockMinimo {
		return ports.Event{}, false
	}
	return ports.NewEvent(ports.EventStockLow, map[string]string{
		"product_id":  cell.ProductID,
		"location_id": cell.LocationID,
	}), true
}
