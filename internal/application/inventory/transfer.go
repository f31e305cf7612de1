package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/ports"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// TransferUseCase maneja el ciclo de vida de los traslados entre sedes:
// pending -> shipped -> received, pending -> received, pending -> rejected.
// El stock solo se mueve al recibir.
type TransferUseCase struct {
	txRunner  TxRunner
	transfers repository.TransferRepository
	audit     ports.AuditRecorder
	notifier  ports.Notifier
}

// NewTransferUseCase construye el caso de uso de traslados.
func NewTransferUseCase(
	txRunner TxRunner,
	transfers repository.TransferRepository,
	audit ports.AuditRecorder,
	notifier ports.Notifier,
) *TransferUseCase {
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	return &TransferUseCase{txRunner: txRunner, transfers: transfers, audit: audit, notifier: notifier}
}

// Create registra un traslado en estado pending sin mover stock.
// La verificación de stock en origen es informativa: la autoritativa ocurre al recibir.
func (uc *TransferUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	if in.ProductID == "" || in.SourceLocationID == "" || in.DestinationLocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity <= 0 || in.SourceLocationID == in.DestinationLocationID {
		return nil, domain.ErrInvalidTransfer
	}

	now := time.Now()
	transfer := &entity.Transfer{
		ID:                    uuid.New().String(),
		ProductID:             in.ProductID,
		Quantity:              in.Quantity,
		SourceLocationID:      in.SourceLocationID,
		DestinationLocationID: in.DestinationLocationID,
		Status:                entity.TransferPending,
		ActorID:               actor.UserID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	err := uc.txRunner.Run(ctx, func(s repository.Stores) error {
		product, err := s.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		for _, id := range []string{in.SourceLocationID, in.DestinationLocationID} {
			loc, err := s.Locations.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if loc == nil {
				return domain.ErrNotFound
			}
		}
		src, err := s.Stock.Get(ctx, in.ProductID, in.SourceLocationID)
		if err != nil {
			return err
		}
		available := int64(0)
		if src != nil {
			available = src.Quantity
		}
		if available < in.Quantity {
			return &domain.InsufficientStockError{
				ProductID:  in.ProductID,
				LocationID: in.SourceLocationID,
				Available:  available,
				Requested:  in.Quantity,
			}
		}
		return s.Transfers.Create(ctx, transfer)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Created(ctx, actor, entity.AuditEntityTransfer, transfer.ID, transfer)
	uc.notifier.Notify(ctx, ports.NewEvent(ports.EventTransferCreated, transferIDs(transfer)))
	return toTransferResponse(transfer), nil
}

// Ship marca el traslado como despachado. No mueve stock.
func (uc *TransferUseCase) Ship(ctx context.Context, actor entity.Actor, id string) (*dto.TransferResponse, error) {
	return uc.transition(ctx, actor, id, entity.TransferShipped, ports.EventTransferShipped, nil)
}

// Reject marca el traslado como rechazado. No mueve stock.
func (uc *TransferUseCase) Reject(ctx context.Context, actor entity.Actor, id string) (*dto.TransferResponse, error) {
	return uc.transition(ctx, actor, id, entity.TransferRejected, ports.EventTransferRejected, nil)
}

// Receive debita el origen, acredita el destino (creando la celda con los precios del origen si
// no existe), registra un único movimiento de traslado y marca received, todo en una transacción.
// Si el origen no alcanza devuelve *domain.InsufficientStockError y el traslado queda como estaba.
func (uc *TransferUseCase) Receive(ctx context.Context, actor entity.Actor, id string) (*dto.TransferResponse, error) {
	return uc.transition(ctx, actor, id, entity.TransferReceived, ports.EventTransferReceived, uc.moveStock)
}

// Get devuelve un traslado por ID.
func (uc *TransferUseCase) Get(ctx context.Context, id string) (*dto.TransferResponse, error) {
	t, err := uc.transfers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return toTransferResponse(t), nil
}

type stockEffect func(ctx context.Context, s repository.Stores, actor entity.Actor, t *entity.Transfer, at time.Time) ([]ports.Event, error)

// transition bloquea la cabecera, valida la transición y aplica el efecto dentro de la misma tx.
// Dos transiciones concurrentes sobre el mismo traslado se serializan por el bloqueo: la segunda
// ve el estado ya cambiado y falla con ErrInvalidStateTransition.
func (uc *TransferUseCase) transition(
	ctx context.Context,
	actor entity.Actor,
	id string,
	to entity.TransferStatus,
	eventType ports.EventType,
	effect stockEffect,
) (*dto.TransferResponse, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}

	var (
		before, after entity.Transfer
		events        []ports.Event
	)
	now := time.Now()
	err := uc.txRunner.Run(ctx, func(s repository.Stores) error {
		events = nil
		t, err := s.Transfers.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if err := t.Status.TransitionTo(to); err != nil {
			return err
		}
		before = *t

		if effect != nil {
			events, err = effect(ctx, s, actor, t, now)
			if err != nil {
				return err
			}
		}
		if err := s.Transfers.UpdateStatus(ctx, t.ID, to, now); err != nil {
			return err
		}
		t.Status = to
		t.UpdatedAt = now
		after = *t
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Updated(ctx, actor, entity.AuditEntityTransfer, after.ID, before, after)
	events = append([]ports.Event{ports.NewEvent(eventType, transferIDs(&after))}, events...)
	uc.notifier.Notify(ctx, events...)
	return toTransferResponse(&after), nil
}

// moveStock es el efecto de received: bloquea ambas celdas en orden de sede y mueve la cantidad.
func (uc *TransferUseCase) moveStock(ctx context.Context, s repository.Stores, actor entity.Actor, t *entity.Transfer, at time.Time) ([]ports.Event, error) {
	srcKey := entity.StockKey{ProductID: t.ProductID, LocationID: t.SourceLocationID}
	dstKey := entity.StockKey{ProductID: t.ProductID, LocationID: t.DestinationLocationID}
	cells, err := LockCells(ctx, s.Stock, srcKey, dstKey)
	if err != nil {
		return nil, err
	}
	src := cells[srcKey]
	if src == nil || src.Quantity < t.Quantity {
		available := int64(0)
		if src != nil {
			available = src.Quantity
		}
		return nil, &domain.InsufficientStockError{
			ProductID:  t.ProductID,
			LocationID: t.SourceLocationID,
			Available:  available,
			Requested:  t.Quantity,
		}
	}
	srcPrices := src.Prices()

	src, err = Adjust(ctx, s, Adjustment{ProductID: t.ProductID, LocationID: t.SourceLocationID, Delta: -t.Quantity, At: at})
	if err != nil {
		return nil, err
	}
	if _, err := Adjust(ctx, s, Adjustment{
		ProductID:  t.ProductID,
		LocationID: t.DestinationLocationID,
		Delta:      t.Quantity,
		Prices:     &srcPrices,
		At:         at,
	}); err != nil {
		return nil, err
	}
	if _, err := RecordMovement(ctx, s.Movements, &entity.Movement{
		ProductID:             t.ProductID,
		Type:                  entity.MovementTransfer,
		Quantity:              t.Quantity,
		Description:           fmt.Sprintf("Traslado %s", t.ID),
		ActorID:               actor.UserID,
		ReferenceID:           t.ID,
		SourceLocationID:      t.SourceLocationID,
		DestinationLocationID: t.DestinationLocationID,
		CreatedAt:             at,
	}); err != nil {
		return nil, err
	}

	product, err := s.Products.GetByID(ctx, t.ProductID)
	if err != nil {
		return nil, err
	}
	var events []ports.Event
	if ev, ok := LowStockEvent(product, src); ok {
		events = append(events, ev)
	}
	return events, nil
}

func transferIDs(t *entity.Transfer) map[string]string {
	return map[string]string{
		"transfer_id":             t.ID,
		"product_id":              t.ProductID,
		"source_location_id":      t.SourceLocationID,
		"destination_location_id": t.DestinationLocationID,
	}
}
