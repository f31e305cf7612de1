package postgres

import (
	"context"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo registro append-only de auditoría sobre audit_records.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Normalmente recibe el pool: la auditoría corre fuera de las tx del libro.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create inserta un registro.
func (r *AuditRepo) Create(ctx context.Context, rec *entity.AuditRecord) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_records (id, actor_id, action, entity_type, entity_id, before_data, after_data, client_ip, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.ActorID, string(rec.Action), rec.EntityType, rec.EntityID,
		nullJSON(rec.Before), nullJSON(rec.After), rec.ClientIP, rec.UserAgent, rec.CreatedAt,
	)
	if err != nil {
		return wrapErr("insert audit record", err)
	}
	return nil
}

// ListByEntity devuelve el historial de una entidad en orden cronológico.
func (r *AuditRepo) ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.AuditRecord, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, actor_id, action, entity_type, entity_id, before_data, after_data, client_ip, user_agent, created_at
		FROM audit_records WHERE entity_type = $1 AND entity_id = $2 ORDER BY created_at, id`,
		entityType, entityID)
	if err != nil {
		return nil, wrapErr("list audit records", err)
	}
	defer rows.Close()
	list := make([]*entity.AuditRecord, 0)
	for rows.Next() {
		var rec entity.AuditRecord
		var action string
		var before, after []byte
		if err := rows.Scan(
			&rec.ID, &rec.ActorID, &action, &rec.EntityType, &rec.EntityID,
			&before, &after, &rec.ClientIP, &rec.UserAgent, &rec.CreatedAt,
		); err != nil {
			return nil, wrapErr("scan audit record", err)
		}
		rec.Action = entity.AuditAction(action)
		rec.Before = before
		rec.After = after
		list = append(list, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list audit records", err)
	}
	return list, nil
}

// nullJSON envía NULL en lugar de un JSONB vacío.
func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
