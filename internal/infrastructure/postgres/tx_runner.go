package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

var (
	_ inventory.TxRunner       = (*TxRunner)(nil)
	_ inventory.SnapshotRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(s repository.Stores) error) error {
	return r.run(ctx, pgx.TxOptions{}, fn)
}

// RunSnapshot ejecuta fn en una transacción REPEATABLE READ de solo lectura: todas las lecturas
// ven el mismo snapshot aunque haya escrituras concurrentes.
func (r *TxRunner) RunSnapshot(ctx context.Context, fn func(s repository.Stores) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (r *TxRunner) run(ctx context.Context, opts pgx.TxOptions, fn func(s repository.Stores) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return domain.Persistence("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStores(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Persistence("commit transaction", err)
	}
	return nil
}

// NewStores construye todos los repositorios sobre el mismo Querier (pool o tx).
func NewStores(q Querier) repository.Stores {
	return repository.Stores{
		Products:  NewProductRepository(q),
		Locations: NewLocationRepository(q),
		Stock:     NewStockRepository(q),
		Movements: NewMovementRepository(q),
		Purchases: NewPurchaseRepository(q),
		Sales:     NewSaleRepository(q),
		Transfers: NewTransferRepository(q),
	}
}
