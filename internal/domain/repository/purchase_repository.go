package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// PurchaseRepository persiste compras junto con sus líneas.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	// GetForUpdate bloquea la cabecera para serializar transiciones concurrentes.
	GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error)
	UpdateStatus(ctx context.Context, id string, status entity.PurchaseStatus, at time.Time) error
	// Delete elimina cabecera y líneas.
	Delete(ctx context.Context, id string) error
}
