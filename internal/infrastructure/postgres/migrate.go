package postgres

import (
	"context"
	_ "embed"

	"github.com/jhoicas/inventario-sedes/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

// Migrate crea las tablas si no existen. Es idempotente.
func Migrate(ctx context.Context, q Querier) error {
	// Sin argumentos pgx usa el protocolo simple y acepta varias sentencias.
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return domain.Persistence("migrate schema", err)
	}
	return nil
}
