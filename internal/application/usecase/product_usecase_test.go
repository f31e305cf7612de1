package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/internal/application/audit"
	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/purchasing"
	"github.com/jhoicas/inventario-sedes/internal/application/usecase"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/memory"
)

var admin = entity.Actor{UserID: "u-admin", Role: entity.RoleAdmin}

func newProductUC() (*usecase.ProductUseCase, *memory.Store) {
	store := memory.New()
	repos := store.Stores()
	rec := audit.NewRecorder(store.Audit(), zerolog.Nop())
	return usecase.NewProductUseCase(repos.Products, store, rec), store
}

func TestNormalizeSKU(t *testing.T) {
	assert.Equal(t, "CAFÉ-1", usecase.NormalizeSKU("  café-1 "))
	assert.Equal(t, usecase.NormalizeSKU("CAFÉ-1"), usecase.NormalizeSKU("café-1"))
}

func TestProduct_CrearYDuplicado(t *testing.T) {
	ctx := context.Background()
	uc, _ := newProductUC()

	out, err := uc.Create(ctx, admin, dto.CreateProductRequest{SKU: "arroz-1", Name: " Arroz ", SalePrice: decimal.NewFromInt(15)})
	require.NoError(t, err)
	assert.Equal(t, "ARROZ-1", out.SKU)
	assert.Equal(t, "Arroz", out.Name)

	_, err = uc.Create(ctx, admin, dto.CreateProductRequest{SKU: "ARROZ-1", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, admin, dto.CreateProductRequest{SKU: "X", Name: "Y", PurchasePrice: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProduct_ActualizarAudita(t *testing.T) {
	ctx := context.Background()
	uc, store := newProductUC()

	out, err := uc.Create(ctx, admin, dto.CreateProductRequest{SKU: "A", Name: "Uno"})
	require.NoError(t, err)

	price := decimal.NewFromInt(99)
	updated, err := uc.Update(ctx, admin, out.ID, dto.UpdateProductRequest{SalePrice: &price})
	require.NoError(t, err)
	assert.True(t, updated.SalePrice.Equal(price))
	assert.Equal(t, "Uno", updated.Name)

	neg := decimal.NewFromInt(-5)
	_, err = uc.Update(ctx, admin, out.ID, dto.UpdateProductRequest{PurchasePrice: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	records, err := store.Audit().ListByEntity(ctx, entity.AuditEntityProduct, out.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, entity.AuditUpdate, records[1].Action)
	assert.Contains(t, string(records[1].After), "sale_price")
	assert.NotContains(t, string(records[1].After), `"name"`)
}

func TestProduct_EliminarBloqueadoPorStockOMovimientos(t *testing.T) {
	ctx := context.Background()
	uc, store := newProductUC()
	repos := store.Stores()

	withStock, err := uc.Create(ctx, admin, dto.CreateProductRequest{SKU: "S", Name: "Con stock"})
	require.NoError(t, err)
	require.NoError(t, repos.Stock.Insert(ctx, &entity.LocationStock{ProductID: withStock.ID, LocationID: "l1", Quantity: 2}))
	assert.ErrorIs(t, uc.Delete(ctx, admin, withStock.ID), domain.ErrConflict)

	used, err := uc.Create(ctx, admin, dto.CreateProductRequest{SKU: "M", Name: "Con historial"})
	require.NoError(t, err)
	require.NoError(t, repos.Movements.Create(ctx, &entity.Movement{ID: "m1", ProductID: used.ID, Type: entity.MovementInbound, Quantity: 1, LocationID: "l1"}))
	assert.ErrorIs(t, uc.Delete(ctx, admin, used.ID), domain.ErrConflict)

	fresh, err := uc.Create(ctx, admin, dto.CreateProductRequest{SKU: "F", Name: "Nuevo"})
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, admin, fresh.ID))
	_, err = uc.GetByID(ctx, fresh.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 20, list.Page.Limit)

	cells, err := repos.Stock.List(ctx, repository.StockFilter{ProductID: withStock.ID})
	require.NoError(t, err)
	assert.Len(t, cells, 1)
}

// Borrar un producto y completar una compra del mismo producto a la vez nunca deja movimientos
// apuntando a un producto borrado: gana una de las dos operaciones.
func TestProduct_EliminarConcurrenteConCompra(t *testing.T) {
	ctx := context.Background()
	uc, store := newProductUC()
	repos := store.Stores()
	purchases := purchasing.NewPurchaseUseCase(store, repos.Purchases, nil, nil)
	now := time.Now()
	require.NoError(t, repos.Locations.Create(ctx, &entity.Location{ID: "l1", Name: "Centro", CreatedAt: now, UpdatedAt: now}))

	for i := 0; i < 20; i++ {
		p, err := uc.Create(ctx, admin, dto.CreateProductRequest{SKU: "R-" + string(rune('A'+i)), Name: "Carrera"})
		require.NoError(t, err)

		var (
			wg                  sync.WaitGroup
			deleteErr, purchErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			deleteErr = uc.Delete(ctx, admin, p.ID)
		}()
		go func() {
			defer wg.Done()
			_, purchErr = purchases.Create(ctx, admin, dto.CreatePurchaseRequest{
				SupplierID: "prov",
				LocationID: "l1",
				Lines:      []dto.PurchaseLineRequest{{ProductID: p.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(5)}},
			})
		}()
		wg.Wait()

		moves, err := repos.Movements.List(ctx, repository.MovementFilter{ProductID: p.ID, Limit: 10})
		require.NoError(t, err)
		if deleteErr == nil {
			assert.ErrorIs(t, purchErr, domain.ErrNotFound)
			assert.Empty(t, moves)
		} else {
			assert.ErrorIs(t, deleteErr, domain.ErrConflict)
			assert.NoError(t, purchErr)
			assert.Len(t, moves, 1)
		}
	}
}
