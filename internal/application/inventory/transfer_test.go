package inventory_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/application/ports"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

func newTransferUC(f *fixture) *inventory.TransferUseCase {
	return inventory.NewTransferUseCase(f.store, f.repos.Transfers, nil, f.notifier)
}

func (f *fixture) transferReq(qty int64) dto.CreateTransferRequest {
	return dto.CreateTransferRequest{ProductID: f.product.ID, Quantity: qty, SourceLocationID: f.a, DestinationLocationID: f.b}
}

func TestTransfer_RecibirMueveStock(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.a, 7)
	uc := newTransferUC(f)

	tr, err := uc.Create(f.ctx, bodeguero, f.transferReq(5))
	require.NoError(t, err)
	assert.Equal(t, string(entity.TransferPending), tr.Status)
	assert.Equal(t, int64(7), f.qty(t, f.a), "crear no mueve stock")
	assert.Equal(t, int64(-1), f.qty(t, f.b))

	tr, err = uc.Receive(f.ctx, bodeguero, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TransferReceived), tr.Status)
	assert.Equal(t, int64(2), f.qty(t, f.a))
	assert.Equal(t, int64(5), f.qty(t, f.b))

	dst, err := f.repos.Stock.Get(f.ctx, f.product.ID, f.b)
	require.NoError(t, err)
	assert.True(t, dst.SalePrice.Equal(decimal.NewFromInt(150)), "el destino hereda los precios del origen")

	movs := f.movements(t)
	require.Len(t, movs, 2)
	last := movs[1]
	assert.Equal(t, entity.MovementTransfer, last.Type)
	assert.Equal(t, tr.ID, last.ReferenceID)
	assert.Equal(t, f.a, last.SourceLocationID)
	assert.Equal(t, f.b, last.DestinationLocationID)

	_, err = uc.Ship(f.ctx, bodeguero, tr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	assert.Equal(t, int64(2), f.qty(t, f.a))

	assert.Contains(t, f.notifier.types(), ports.EventTransferReceived)
	assert.Contains(t, f.notifier.types(), ports.EventStockLow)
}

func TestTransfer_DespachoYRecepcion(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.a, 4)
	uc := newTransferUC(f)

	tr, err := uc.Create(f.ctx, bodeguero, f.transferReq(4))
	require.NoError(t, err)
	tr, err = uc.Ship(f.ctx, bodeguero, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TransferShipped), tr.Status)
	assert.Equal(t, int64(4), f.qty(t, f.a), "despachar no mueve stock")

	_, err = uc.Reject(f.ctx, bodeguero, tr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	_, err = uc.Receive(f.ctx, bodeguero, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.qty(t, f.a))
	assert.Equal(t, int64(4), f.qty(t, f.b))
}

func TestTransfer_RechazoNoMueveStock(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.a, 3)
	uc := newTransferUC(f)

	tr, err := uc.Create(f.ctx, bodeguero, f.transferReq(2))
	require.NoError(t, err)
	tr, err = uc.Reject(f.ctx, bodeguero, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TransferRejected), tr.Status)

	_, err = uc.Receive(f.ctx, bodeguero, tr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	assert.Equal(t, int64(3), f.qty(t, f.a))
	assert.Len(t, f.movements(t), 1)
}

func TestTransfer_ValidacionAlCrear(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.a, 1)
	uc := newTransferUC(f)

	req := f.transferReq(1)
	req.DestinationLocationID = f.a
	_, err := uc.Create(f.ctx, bodeguero, req)
	assert.ErrorIs(t, err, domain.ErrInvalidTransfer)

	_, err = uc.Create(f.ctx, bodeguero, f.transferReq(0))
	assert.ErrorIs(t, err, domain.ErrInvalidTransfer)

	req = f.transferReq(1)
	req.DestinationLocationID = "nope"
	_, err = uc.Create(f.ctx, bodeguero, req)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Create(f.ctx, bodeguero, f.transferReq(2))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = uc.Receive(f.ctx, bodeguero, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransfer_RecepcionSinStockDejaPendiente(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.a, 5)
	uc := newTransferUC(f)

	tr, err := uc.Create(f.ctx, bodeguero, f.transferReq(5))
	require.NoError(t, err)

	// El origen se vacía entre la solicitud y la recepción.
	err = f.store.Run(f.ctx, func(s repository.Stores) error {
		_, err := inventory.Adjust(f.ctx, s, inventory.Adjustment{ProductID: f.product.ID, LocationID: f.a, Delta: -4})
		return err
	})
	require.NoError(t, err)

	_, err = uc.Receive(f.ctx, bodeguero, tr.ID)
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, int64(1), ise.Available)

	got, err := uc.Get(f.ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TransferPending), got.Status)
	assert.Equal(t, int64(-1), f.qty(t, f.b))
}

func TestTransfer_RecepcionesConcurrentesSoloUnaAplica(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.a, 10)
	uc := newTransferUC(f)

	tr, err := uc.Create(f.ctx, bodeguero, f.transferReq(6))
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Receive(f.ctx, bodeguero, tr.ID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInvalidStateTransition) {
				fail++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 7, fail)
	assert.Equal(t, int64(4), f.qty(t, f.a))
	assert.Equal(t, int64(6), f.qty(t, f.b))
}
