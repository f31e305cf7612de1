package repository

import (
	"context"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// AuditRepository registro append-only de auditoría. Se usa fuera de las transacciones del libro.
type AuditRepository interface {
	Create(ctx context.Context, record *entity.AuditRecord) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.AuditRecord, error)
}
