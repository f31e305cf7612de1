package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create persiste un traslado.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO transfers (id, product_id, quantity, source_location_id, destination_location_id, status, actor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.ProductID, t.Quantity, t.SourceLocationID, t.DestinationLocationID,
		string(t.Status), t.ActorID, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrapErr("insert transfer", err)
	}
	return nil
}

// GetByID obtiene un traslado por ID.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate obtiene el traslado y bloquea la fila.
func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *TransferRepo) get(ctx context.Context, id, lock string) (*entity.Transfer, error) {
	query := `
		SELECT id, product_id, quantity, source_location_id, destination_location_id, status, actor_id, created_at, updated_at
		FROM transfers WHERE id = $1` + lock
	var t entity.Transfer
	var status string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.ProductID, &t.Quantity, &t.SourceLocationID, &t.DestinationLocationID,
		&status, &t.ActorID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get transfer", err)
	}
	t.Status = entity.TransferStatus(status)
	return &t, nil
}

// UpdateStatus cambia el estado del traslado.
func (r *TransferRepo) UpdateStatus(ctx context.Context, id string, status entity.TransferStatus, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE transfers SET status = $2, updated_at = $3 WHERE id = $1`, id, string(status), at)
	if err != nil {
		return wrapErr("update transfer status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
