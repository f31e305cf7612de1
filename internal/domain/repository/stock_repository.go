package repository

import (
	"context"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// StockFilter filtra celdas de stock; campos vacíos no filtran.
type StockFilter struct {
	ProductID  string
	LocationID string
}

// StockRepository define el puerto para la tabla location_stock.
// Get y GetForUpdate devuelven (nil, nil) si la celda no existe.
type StockRepository interface {
	Get(ctx context.Context, productID, locationID string) (*entity.LocationStock, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, productID, locationID string) (*entity.LocationStock, error)
	// Insert crea la celda si no existe; si otra transacción la creó primero no hace nada.
	Insert(ctx context.Context, stock *entity.LocationStock) error
	// Update persiste cantidad y precios de una celda existente.
	Update(ctx context.Context, stock *entity.LocationStock) error
	List(ctx context.Context, filter StockFilter) ([]*entity.LocationStock, error)
}
