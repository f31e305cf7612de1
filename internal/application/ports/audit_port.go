package ports

import (
	"context"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// AuditRecorder observa el ciclo de vida de las entidades de negocio (create/update/delete).
// Se invoca después del commit y es best-effort: nunca devuelve error al flujo que lo llama.
type AuditRecorder interface {
	Created(ctx context.Context, actor entity.Actor, entityType, entityID string, after any)
	Updated(ctx context.Context, actor entity.Actor, entityType, entityID string, before, after any)
	Deleted(ctx context.Context, actor entity.Actor, entityType, entityID string, before any)
}

// NopAuditRecorder no registra nada.
type NopAuditRecorder struct{}

func (NopAuditRecorder) Created(context.Context, entity.Actor, string, string, any)      {}
func (NopAuditRecorder) Updated(context.Context, entity.Actor, string, string, any, any) {}
func (NopAuditRecorder) Deleted(context.Context, entity.Actor, string, string, any)      {}
