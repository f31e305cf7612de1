package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// TransferRepository persiste traslados entre sedes.
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.Transfer) error
	GetByID(ctx context.Context, id string) (*entity.Transfer, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error)
	UpdateStatus(ctx context.Context, id string, status entity.TransferStatus, at time.Time) error
}
