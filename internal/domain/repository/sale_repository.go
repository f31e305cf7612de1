package repository

import (
	"context"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// SaleRepository persiste ventas junto con sus líneas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
}
