package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// MovementFilter filtra el diario. LocationID coincide con cualquiera de las tres sedes del movimiento.
// Los resultados se ordenan por fecha ascendente (orden de aplicación).
type MovementFilter struct {
	ProductID  string
	LocationID string
	Type       entity.MovementType
	From, To   *time.Time
	Limit      int
	Offset     int
}

// MovementRepository define el puerto del diario de movimientos (solo inserción y lectura).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
}
