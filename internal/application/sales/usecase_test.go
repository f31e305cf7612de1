package sales_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/application/ports"
	"github.com/jhoicas/inventario-sedes/internal/application/sales"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/memory"
)

var seller = entity.Actor{UserID: "u-caja", Role: entity.RoleVendedor}

type captureNotifier struct{ events []ports.Event }

func (n *captureNotifier) Notify(_ context.Context, events ...ports.Event) {
	n.events = append(n.events, events...)
}

type env struct {
	ctx      context.Context
	store    *memory.Store
	repos    repository.Stores
	notifier *captureNotifier
	uc       *sales.SaleUseCase
}

// newEnv crea dos productos con stock 10 (p1, mínimo 8) y 5 (p2) en la sede.
func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	repos := store.Stores()
	now := time.Now()
	require.NoError(t, repos.Locations.Create(ctx, &entity.Location{ID: "sede-1", Name: "Centro", CreatedAt: now, UpdatedAt: now}))

	seed := map[string]int64{"p1": 10, "p2": 5}
	for _, p := range []*entity.Product{
		{ID: "p1", SKU: "P1", Name: "Arroz", StockMinimo: 8, PurchasePrice: decimal.NewFromInt(10), SalePrice: decimal.NewFromInt(15), CreatedAt: now, UpdatedAt: now},
		{ID: "p2", SKU: "P2", Name: "Frijol", PurchasePrice: decimal.NewFromInt(20), SalePrice: decimal.NewFromInt(30), CreatedAt: now, UpdatedAt: now},
	} {
		require.NoError(t, repos.Products.Create(ctx, p))
		qty := seed[p.ID]
		require.NoError(t, store.Run(ctx, func(s repository.Stores) error {
			if _, err := inventory.Adjust(ctx, s, inventory.Adjustment{ProductID: p.ID, LocationID: "sede-1", Delta: qty}); err != nil {
				return err
			}
			_, err := inventory.RecordMovement(ctx, s.Movements, &entity.Movement{ProductID: p.ID, Type: entity.MovementInbound, Quantity: qty, LocationID: "sede-1"})
			return err
		}))
	}
	n := &captureNotifier{}
	return &env{ctx: ctx, store: store, repos: repos, notifier: n, uc: sales.NewSaleUseCase(store, repos.Sales, nil, n)}
}

func (e *env) qty(t *testing.T, productID string) int64 {
	t.Helper()
	cell, err := e.repos.Stock.Get(e.ctx, productID, "sede-1")
	require.NoError(t, err)
	require.NotNil(t, cell)
	return cell.Quantity
}

func line(productID string, qty int64) dto.SaleLineRequest {
	return dto.SaleLineRequest{ProductID: productID, Quantity: qty}
}

func TestCreate_DescuentaYRegistraSalida(t *testing.T) {
	e := newEnv(t)

	out, err := e.uc.Create(e.ctx, seller, dto.CreateSaleRequest{LocationID: "sede-1", Lines: []dto.SaleLineRequest{line("p1", 3)}})
	require.NoError(t, err)
	assert.Equal(t, int64(7), e.qty(t, "p1"))
	assert.True(t, out.Total.Equal(decimal.NewFromInt(45)), "precio de la sede cuando la línea no trae precio")
	assert.Equal(t, seller.UserID, out.SellerID)

	movs, err := e.repos.Movements.List(e.ctx, repository.MovementFilter{Type: entity.MovementOutbound})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, out.ID, movs[0].ReferenceID)
	assert.Equal(t, int64(3), movs[0].Quantity)

	got, err := e.uc.Get(e.ctx, out.ID)
	require.NoError(t, err)
	assert.Len(t, got.Lines, 1)

	// 7 < mínimo 8
	var types []ports.EventType
	for _, ev := range e.notifier.events {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []ports.EventType{ports.EventSaleCreated, ports.EventStockLow}, types)
}

func TestCreate_StockInsuficienteNoModifica(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Create(e.ctx, seller, dto.CreateSaleRequest{LocationID: "sede-1", Lines: []dto.SaleLineRequest{line("p1", 3)}})
	require.NoError(t, err)

	_, err = e.uc.Create(e.ctx, seller, dto.CreateSaleRequest{LocationID: "sede-1", Lines: []dto.SaleLineRequest{line("p1", 8)}})
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "p1", ise.ProductID)
	assert.Equal(t, int64(7), ise.Available)
	assert.Equal(t, int64(7), e.qty(t, "p1"))
}

func TestCreate_MultilineaEsAtomica(t *testing.T) {
	e := newEnv(t)

	_, err := e.uc.Create(e.ctx, seller, dto.CreateSaleRequest{
		LocationID: "sede-1",
		Lines:      []dto.SaleLineRequest{line("p1", 2), line("p2", 6)},
	})
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "p2", ise.ProductID)

	assert.Equal(t, int64(10), e.qty(t, "p1"))
	assert.Equal(t, int64(5), e.qty(t, "p2"))
	movs, err := e.repos.Movements.List(e.ctx, repository.MovementFilter{Type: entity.MovementOutbound})
	require.NoError(t, err)
	assert.Empty(t, movs)
	assert.Empty(t, e.notifier.events)
}

func TestCreate_LineasRepetidasSeSuman(t *testing.T) {
	e := newEnv(t)

	_, err := e.uc.Create(e.ctx, seller, dto.CreateSaleRequest{
		LocationID: "sede-1",
		Lines:      []dto.SaleLineRequest{line("p2", 3), line("p2", 3)},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(5), e.qty(t, "p2"))

	out, err := e.uc.Create(e.ctx, seller, dto.CreateSaleRequest{
		LocationID: "sede-1",
		Lines: []dto.SaleLineRequest{
			{ProductID: "p2", Quantity: 2, UnitPrice: decimal.NewFromInt(28)},
			line("p2", 3),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), e.qty(t, "p2"))
	assert.True(t, out.Total.Equal(decimal.NewFromInt(146)), "2*28 + 3*30, total %s", out.Total)
}

func TestCreate_Validaciones(t *testing.T) {
	e := newEnv(t)

	_, err := e.uc.Create(e.ctx, seller, dto.CreateSaleRequest{LocationID: "sede-1", Lines: []dto.SaleLineRequest{line("p1", 0)}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = e.uc.Create(e.ctx, seller, dto.CreateSaleRequest{LocationID: "sede-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.uc.Create(e.ctx, seller, dto.CreateSaleRequest{LocationID: "otra", Lines: []dto.SaleLineRequest{line("p1", 1)}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.uc.Create(e.ctx, seller, dto.CreateSaleRequest{LocationID: "sede-1", Lines: []dto.SaleLineRequest{line("nope", 1)}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
