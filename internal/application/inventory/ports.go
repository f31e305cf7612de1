package inventory

import (
	"context"

	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y ningún efecto queda visible; si no, Commit.
// Garantiza atomicidad para el libro de stock y el diario de movimientos.
type TxRunner interface {
	Run(ctx context.Context, fn func(s repository.Stores) error) error
}

// SnapshotRunner ejecuta fn sobre una vista consistente y de solo lectura.
type SnapshotRunner interface {
	RunSnapshot(ctx context.Context, fn func(s repository.Stores) error) error
}
