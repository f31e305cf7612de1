package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/application/ports"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/memory"
)

var bodeguero = entity.Actor{UserID: "u-bodega", Role: entity.RoleBodeguero}

type recordingNotifier struct {
	mu     sync.Mutex
	events []ports.Event
}

func (n *recordingNotifier) Notify(_ context.Context, events ...ports.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, events...)
}

func (n *recordingNotifier) types() []ports.EventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]ports.EventType, 0, len(n.events))
	for _, ev := range n.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	ctx      context.Context
	store    *memory.Store
	repos    repository.Stores
	product  *entity.Product
	a, b     string
	notifier *recordingNotifier
}

// newFixture crea un producto (mínimo 3, compra 100, venta 150) y dos sedes vacías.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	repos := store.Stores()
	now := time.Now()

	product := &entity.Product{
		ID:            "p-cafe",
		SKU:           "CAFE-500",
		Name:          "Café 500g",
		StockMinimo:   3,
		PurchasePrice: decimal.NewFromInt(100),
		SalePrice:     decimal.NewFromInt(150),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, repos.Products.Create(ctx, product))
	for _, id := range []string{"loc-a", "loc-b"} {
		require.NoError(t, repos.Locations.Create(ctx, &entity.Location{ID: id, Name: id, CreatedAt: now, UpdatedAt: now}))
	}
	return &fixture{ctx: ctx, store: store, repos: repos, product: product, a: "loc-a", b: "loc-b", notifier: &recordingNotifier{}}
}

// seed registra una entrada en la sede para que libro y diario queden consistentes.
func (f *fixture) seed(t *testing.T, locationID string, qty int64) {
	t.Helper()
	err := f.store.Run(f.ctx, func(s repository.Stores) error {
		if _, err := inventory.Adjust(f.ctx, s, inventory.Adjustment{ProductID: f.product.ID, LocationID: locationID, Delta: qty}); err != nil {
			return err
		}
		_, err := inventory.RecordMovement(f.ctx, s.Movements, &entity.Movement{
			ProductID:  f.product.ID,
			Type:       entity.MovementInbound,
			Quantity:   qty,
			ActorID:    bodeguero.UserID,
			LocationID: locationID,
		})
		return err
	})
	require.NoError(t, err)
}

// qty devuelve la cantidad de la celda o -1 si no existe.
func (f *fixture) qty(t *testing.T, locationID string) int64 {
	t.Helper()
	cell, err := f.repos.Stock.Get(f.ctx, f.product.ID, locationID)
	require.NoError(t, err)
	if cell == nil {
		return -1
	}
	return cell.Quantity
}

func (f *fixture) movements(t *testing.T) []*entity.Movement {
	t.Helper()
	list, err := f.repos.Movements.List(f.ctx, repository.MovementFilter{})
	require.NoError(t, err)
	return list
}
