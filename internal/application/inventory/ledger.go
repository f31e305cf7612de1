package inventory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	coststock "github.com/jhoicas/inventario-sedes/internal/domain/inventory"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// Adjustment describe un cambio de cantidad sobre una celda (producto, sede).
type Adjustment struct {
	ProductID  string
	LocationID string
	Delta      int64
	// Prices inicializa la celda si todavía no existe; nil toma los precios generales del producto.
	Prices *entity.Prices
	// UnitCost de una entrada: si se informa, recalcula el precio de compra promedio de la sede.
	UnitCost *decimal.Decimal
	At       time.Time
}

// Adjust aplica un delta a la celda dentro de la transacción de s.
// Bloquea la fila (SELECT FOR UPDATE); si no existe y el delta es positivo la crea con cantidad 0
// y la vuelve a bloquear. Un débito sobre una celda inexistente devuelve ErrUnknownStockLocation
// y uno que la dejaría negativa devuelve *domain.InsufficientStockError sin modificar nada.
func Adjust(ctx context.Context, s repository.Stores, a Adjustment) (*entity.LocationStock, error) {
	if a.ProductID == "" || a.LocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if a.Delta == 0 {
		return nil, domain.ErrInvalidQuantity
	}
	at := a.At
	if at.IsZero() {
		at = time.Now()
	}

	stock, err := s.Stock.GetForUpdate(ctx, a.ProductID, a.LocationID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		if a.Delta < 0 {
			return nil, domain.ErrUnknownStockLocation
		}
		stock, err = createCell(ctx, s, a, at)
		if err != nil {
			return nil, err
		}
	}

	next := stock.Quantity + a.Delta
	if next < 0 {
		return nil, &domain.InsufficientStockError{
			ProductID:  a.ProductID,
			LocationID: a.LocationID,
			Available:  stock.Quantity,
			Requested:  -a.Delta,
		}
	}
	if a.Delta > 0 && a.UnitCost != nil {
		stock.PurchasePrice = coststock.WeightedAverageCost(stock.Quantity, stock.PurchasePrice, a.Delta, *a.UnitCost)
	}
	stock.Quantity = next
	stock.UpdatedAt = at
	if err := s.Stock.Update(ctx, stock); err != nil {
		return nil, err
	}
	return stock, nil
}

// createCell inserta la celda con cantidad 0. Si otra transacción la creó primero el INSERT no hace
// nada y el bloqueo posterior espera a que esa transacción termine.
func createCell(ctx context.Context, s repository.Stores, a Adjustment, at time.Time) (*entity.LocationStock, error) {
	prices := a.Prices
	if prices == nil {
		product, err := s.Products.GetByID(ctx, a.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		p := product.DefaultPrices()
		prices = &p
	}
	cell := &entity.LocationStock{
		ProductID:     a.ProductID,
		LocationID:    a.LocationID,
		Quantity:      0,
		PurchasePrice: prices.Purchase,
		SalePrice:     prices.Sale,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
	if err := s.Stock.Insert(ctx, cell); err != nil {
		return nil, err
	}
	stock, err := s.Stock.GetForUpdate(ctx, a.ProductID, a.LocationID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, domain.Persistence("lock stock cell", errors.New("celda creada no encontrada"))
	}
	return stock, nil
}

// LockCells bloquea las celdas indicadas en orden determinista (sede, producto) para que flujos
// concurrentes sobre las mismas celdas no se bloqueen mutuamente. Las celdas inexistentes quedan
// como nil en el mapa.
func LockCells(ctx context.Context, stock repository.StockRepository, keys ...entity.StockKey) (map[entity.StockKey]*entity.LocationStock, error) {
	ordered := make([]entity.StockKey, 0, len(keys))
	seen := make(map[entity.StockKey]bool, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			ordered = append(ordered, k)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].LocationID != ordered[j].LocationID {
			return ordered[i].LocationID < ordered[j].LocationID
		}
		return ordered[i].ProductID < ordered[j].ProductID
	})

	cells := make(map[entity.StockKey]*entity.LocationStock, len(ordered))
	for _, k := range ordered {
		cell, err := stock.GetForUpdate(ctx, k.ProductID, k.LocationID)
		if err != nil {
			return nil, err
		}
		cells[k] = cell
	}
	return cells, nil
}
