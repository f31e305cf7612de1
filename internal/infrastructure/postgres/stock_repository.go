package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre location_stock (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `product_id, location_id, quantity_on_hand, purchase_price, sale_price, created_at, updated_at`

func scanStock(row pgx.Row) (*entity.LocationStock, error) {
	var s entity.LocationStock
	if err := row.Scan(
		&s.ProductID, &s.LocationID, &s.Quantity, &s.PurchasePrice, &s.SalePrice, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// Get obtiene la celda de un producto en una sede; (nil, nil) si no existe.
func (r *StockRepo) Get(ctx context.Context, productID, locationID string) (*entity.LocationStock, error) {
	return r.get(ctx, productID, locationID, "")
}

// GetForUpdate obtiene la celda y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.LocationStock, error) {
	return r.get(ctx, productID, locationID, " FOR UPDATE")
}

func (r *StockRepo) get(ctx context.Context, productID, locationID, lock string) (*entity.LocationStock, error) {
	query := `SELECT ` + stockColumns + ` FROM location_stock WHERE product_id = $1 AND location_id = $2` + lock
	s, err := scanStock(r.q.QueryRow(ctx, query, productID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get stock", err)
	}
	return s, nil
}

// Insert crea la celda; si ya existe (otra tx la creó primero) no hace nada.
func (r *StockRepo) Insert(ctx context.Context, s *entity.LocationStock) error {
	query := `
		INSERT INTO location_stock (` + stockColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (product_id, location_id) DO NOTHING`
	_, err := r.q.Exec(ctx, query,
		s.ProductID, s.LocationID, s.Quantity, s.PurchasePrice, s.SalePrice, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return wrapErr("insert stock", err)
	}
	return nil
}

// Update persiste cantidad y precios. El CHECK de la tabla es la última barrera contra negativos.
func (r *StockRepo) Update(ctx context.Context, s *entity.LocationStock) error {
	query := `
		UPDATE location_stock
		SET quantity_on_hand = $3, purchase_price = $4, sale_price = $5, updated_at = $6
		WHERE product_id = $1 AND location_id = $2`
	tag, err := r.q.Exec(ctx, query, s.ProductID, s.LocationID, s.Quantity, s.PurchasePrice, s.SalePrice, s.UpdatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return wrapErr("update stock", fmt.Errorf("%w: %v", domain.ErrInsufficientStock, err))
		}
		return wrapErr("update stock", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista celdas ordenadas por sede y producto.
func (r *StockRepo) List(ctx context.Context, f repository.StockFilter) ([]*entity.LocationStock, error) {
	var (
		where []string
		args  []any
	)
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		where = append(where, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if f.LocationID != "" {
		args = append(args, f.LocationID)
		where = append(where, fmt.Sprintf("location_id = $%d", len(args)))
	}
	query := `SELECT ` + stockColumns + ` FROM location_stock`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY location_id, product_id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list stock", err)
	}
	defer rows.Close()
	list := make([]*entity.LocationStock, 0)
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, wrapErr("scan stock", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list stock", err)
	}
	return list, nil
}
