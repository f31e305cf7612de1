package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo diario de movimientos sobre PostgreSQL. Solo inserta y lee.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, product_id, type, quantity, direction, description, actor_id, reference_id,
	location_id, source_location_id, destination_location_id, created_at`

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, string(m.Type), m.Quantity, nullIfEmpty(string(m.Direction)),
		m.Description, m.ActorID, nullIfEmpty(m.ReferenceID),
		nullIfEmpty(m.LocationID), nullIfEmpty(m.SourceLocationID), nullIfEmpty(m.DestinationLocationID),
		m.CreatedAt,
	)
	if err != nil {
		return wrapErr("insert movement", err)
	}
	return nil
}

// List lista movimientos en orden de aplicación (created_at, id).
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if f.LocationID != "" {
		args = append(args, f.LocationID)
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(location_id = $%d OR source_location_id = $%d OR destination_location_id = $%d)", n, n, n))
	}
	if f.Type != "" {
		add("type = $%d", string(f.Type))
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}

	query := `SELECT ` + movementColumns + ` FROM movements`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, id"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list movements", err)
	}
	defer rows.Close()
	list := make([]*entity.Movement, 0)
	for rows.Next() {
		var (
			m                                   entity.Movement
			typ                                 string
			direction, reference, loc, src, dst *string
		)
		if err := rows.Scan(
			&m.ID, &m.ProductID, &typ, &m.Quantity, &direction, &m.Description, &m.ActorID, &reference,
			&loc, &src, &dst, &m.CreatedAt,
		); err != nil {
			return nil, wrapErr("scan movement", err)
		}
		m.Type = entity.MovementType(typ)
		m.Direction = entity.AdjustmentDirection(derefStr(direction))
		m.ReferenceID = derefStr(reference)
		m.LocationID = derefStr(loc)
		m.SourceLocationID = derefStr(src)
		m.DestinationLocationID = derefStr(dst)
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list movements", err)
	}
	return list, nil
}
