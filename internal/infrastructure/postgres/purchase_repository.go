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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación de PurchaseRepository (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste la cabecera y sus líneas. Debe ir en una tx para que ambas queden o ninguna.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	query := `
		INSERT INTO purchases (id, supplier_id, buyer_id, location_id, total, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SupplierID, p.BuyerID, p.LocationID, p.Total, string(p.Status), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrapErr("insert purchase", err)
	}
	for i, l := range p.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_lines (id, purchase_id, product_id, quantity, unit_price, position)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			l.ID, p.ID, l.ProductID, l.Quantity, l.UnitPrice, i,
		)
		if err != nil {
			return wrapErr("insert purchase line", err)
		}
	}
	return nil
}

// GetByID obtiene la compra con sus líneas.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate obtiene la compra y bloquea la cabecera.
func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *PurchaseRepo) get(ctx context.Context, id, lock string) (*entity.Purchase, error) {
	query := `
		SELECT id, supplier_id, buyer_id, location_id, total, status, created_at, updated_at
		FROM purchases WHERE id = $1` + lock
	var p entity.Purchase
	var status string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.SupplierID, &p.BuyerID, &p.LocationID, &p.Total, &status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get purchase", err)
	}
	p.Status = entity.PurchaseStatus(status)

	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_id, product_id, quantity, unit_price
		FROM purchase_lines WHERE purchase_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, wrapErr("list purchase lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.PurchaseLine
		if err := rows.Scan(&l.ID, &l.PurchaseID, &l.ProductID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, wrapErr("scan purchase line", err)
		}
		p.Lines = append(p.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list purchase lines", err)
	}
	return &p, nil
}

// UpdateStatus cambia el estado de la cabecera.
func (r *PurchaseRepo) UpdateStatus(ctx context.Context, id string, status entity.PurchaseStatus, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE purchases SET status = $2, updated_at = $3 WHERE id = $1`, id, string(status), at)
	if err != nil {
		return wrapErr("update purchase status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la cabecera; las líneas se borran en cascada.
func (r *PurchaseRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete purchase", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
