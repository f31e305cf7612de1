package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la venta y sus líneas.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, seller_id, location_id, total, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.SellerID, s.LocationID, s.Total, s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrapErr("insert sale", err)
	}
	for i, l := range s.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_lines (id, sale_id, product_id, quantity, unit_price, subtotal, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, s.ID, l.ProductID, l.Quantity, l.UnitPrice, l.Subtotal, i,
		)
		if err != nil {
			return wrapErr("insert sale line", err)
		}
	}
	return nil
}

// GetByID obtiene la venta con sus líneas.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(ctx, `
		SELECT id, seller_id, location_id, total, created_at FROM sales WHERE id = $1`, id,
	).Scan(&s.ID, &s.SellerID, &s.LocationID, &s.Total, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get sale", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, quantity, unit_price, subtotal
		FROM sale_lines WHERE sale_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, wrapErr("list sale lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, wrapErr("scan sale line", err)
		}
		s.Lines = append(s.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list sale lines", err)
	}
	return &s, nil
}
