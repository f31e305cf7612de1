package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/application/ports"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

func TestAdjustStock_SubeYBajaConMovimiento(t *testing.T) {
	f := newFixture(t)
	uc := inventory.NewAdjustStockUseCase(f.store, f.notifier)

	out, err := uc.AdjustStock(f.ctx, bodeguero, dto.AdjustStockRequest{ProductID: f.product.ID, LocationID: f.a, Delta: 5, Reason: "conteo"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.Stock.Quantity)

	out, err = uc.AdjustStock(f.ctx, bodeguero, dto.AdjustStockRequest{ProductID: f.product.ID, LocationID: f.a, Delta: -3, Reason: "merma"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Stock.Quantity)

	movs := f.movements(t)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.AdjustmentUp, movs[0].Direction)
	assert.Equal(t, entity.AdjustmentDown, movs[1].Direction)
	assert.Equal(t, int64(3), movs[1].Quantity)
	assert.Equal(t, "merma", movs[1].Description)
	assert.Equal(t, bodeguero.UserID, movs[1].ActorID)

	// 2 < mínimo 3: la bajada dispara stock.low.
	assert.Equal(t, []ports.EventType{ports.EventStockAdjusted, ports.EventStockLow, ports.EventStockAdjusted}, f.notifier.types())
}

func TestAdjustStock_Errores(t *testing.T) {
	f := newFixture(t)
	uc := inventory.NewAdjustStockUseCase(f.store, nil)

	_, err := uc.AdjustStock(f.ctx, bodeguero, dto.AdjustStockRequest{ProductID: f.product.ID, LocationID: f.a, Delta: 0, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.AdjustStock(f.ctx, bodeguero, dto.AdjustStockRequest{ProductID: f.product.ID, LocationID: "nope", Delta: 1, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.AdjustStock(f.ctx, bodeguero, dto.AdjustStockRequest{ProductID: f.product.ID, LocationID: f.a, Delta: -1, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrUnknownStockLocation)

	f.seed(t, f.a, 1)
	_, err = uc.AdjustStock(f.ctx, bodeguero, dto.AdjustStockRequest{ProductID: f.product.ID, LocationID: f.a, Delta: -2, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(1), f.qty(t, f.a))
	assert.Len(t, f.movements(t), 1)
}
