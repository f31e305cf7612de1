package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/application/ports"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// PurchaseUseCase maneja compras a proveedor: pending -> completed | cancelled.
// Solo la transición a completed (o la creación directa como completed) suma stock.
type PurchaseUseCase struct {
	txRunner  inventory.TxRunner
	purchases repository.PurchaseRepository
	audit     ports.AuditRecorder
	notifier  ports.Notifier
}

// NewPurchaseUseCase construye el caso de uso de compras.
func NewPurchaseUseCase(
	txRunner inventory.TxRunner,
	purchases repository.PurchaseRepository,
	audit ports.AuditRecorder,
	notifier ports.Notifier,
) *PurchaseUseCase {
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	return &PurchaseUseCase{txRunner: txRunner, purchases: purchases, audit: audit, notifier: notifier}
}

// Create registra la compra. Sin estado explícito se crea completed y aplica una entrada por
// línea en la misma transacción; con "pending" solo guarda la cabecera y sus líneas.
func (uc *PurchaseUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	status := entity.PurchaseStatus(in.Status)
	if status == "" {
		status = entity.PurchaseCompleted
	}
	if status != entity.PurchasePending && status != entity.PurchaseCompleted {
		return nil, domain.ErrInvalidInput
	}
	if in.SupplierID == "" || in.LocationID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, l := range in.Lines {
		if l.ProductID == "" || l.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		if l.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
	}

	now := time.Now()
	purchase := &entity.Purchase{
		ID:         uuid.New().String(),
		SupplierID: in.SupplierID,
		BuyerID:    actor.UserID,
		LocationID: in.LocationID,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, l := range in.Lines {
		purchase.Lines = append(purchase.Lines, entity.PurchaseLine{
			ID:         uuid.New().String(),
			PurchaseID: purchase.ID,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
		})
	}
	purchase.RecomputeTotal()

	err := uc.txRunner.Run(ctx, func(s repository.Stores) error {
		location, err := s.Locations.GetByID(ctx, in.LocationID)
		if err != nil {
			return err
		}
		if location == nil {
			return domain.ErrNotFound
		}
		if err := requireProducts(ctx, s, purchase); err != nil {
			return err
		}
		if err := s.Purchases.Create(ctx, purchase); err != nil {
			return err
		}
		if status == entity.PurchaseCompleted {
			return receiveLines(ctx, s, actor, purchase, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Created(ctx, actor, entity.AuditEntityPurchase, purchase.ID, purchase)
	out := []ports.Event{ports.NewEvent(ports.EventPurchaseCreated, purchaseIDs(purchase))}
	if status == entity.PurchaseCompleted {
		out = append(out, ports.NewEvent(ports.EventPurchaseCompleted, purchaseIDs(purchase)))
	}
	uc.notifier.Notify(ctx, out...)
	return toPurchaseResponse(purchase), nil
}

// Complete pasa una compra pending a completed y suma una entrada por línea, todo en una transacción.
// Sobre una compra no pending devuelve ErrInvalidStateTransition sin tocar el stock.
func (uc *PurchaseUseCase) Complete(ctx context.Context, actor entity.Actor, id string) (*dto.PurchaseResponse, error) {
	return uc.transition(ctx, actor, id, entity.PurchaseCompleted, ports.EventPurchaseCompleted)
}

// Cancel pasa una compra pending a cancelled. No mueve stock.
func (uc *PurchaseUseCase) Cancel(ctx context.Context, actor entity.Actor, id string) (*dto.PurchaseResponse, error) {
	return uc.transition(ctx, actor, id, entity.PurchaseCancelled, ports.EventPurchaseCancelled)
}

func (uc *PurchaseUseCase) transition(ctx context.Context, actor entity.Actor, id string, to entity.PurchaseStatus, eventType ports.EventType) (*dto.PurchaseResponse, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	var before, after entity.Purchase
	now := time.Now()
	err := uc.txRunner.Run(ctx, func(s repository.Stores) error {
		p, err := s.Purchases.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if err := p.Status.TransitionTo(to); err != nil {
			return err
		}
		before = *p
		if to == entity.PurchaseCompleted {
			if err := requireProducts(ctx, s, p); err != nil {
				return err
			}
			if err := receiveLines(ctx, s, actor, p, now); err != nil {
				return err
			}
		}
		if err := s.Purchases.UpdateStatus(ctx, p.ID, to, now); err != nil {
			return err
		}
		p.Status = to
		p.UpdatedAt = now
		after = *p
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Updated(ctx, actor, entity.AuditEntityPurchase, after.ID, before, after)
	uc.notifier.Notify(ctx, ports.NewEvent(eventType, purchaseIDs(&after)))
	return toPurchaseResponse(&after), nil
}

// Delete elimina una compra con sus líneas. Solo se permite mientras está pending: una compra
// completed ya movió stock y una cancelled se conserva como historial.
func (uc *PurchaseUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	var before entity.Purchase
	err := uc.txRunner.Run(ctx, func(s repository.Stores) error {
		p, err := s.Purchases.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if p.Status != entity.PurchasePending {
			return &domain.StateTransitionError{Entity: "purchase", From: string(p.Status), To: "deleted"}
		}
		before = *p
		return s.Purchases.Delete(ctx, p.ID)
	})
	if err != nil {
		return err
	}
	uc.audit.Deleted(ctx, actor, entity.AuditEntityPurchase, before.ID, before)
	return nil
}

// Get devuelve una compra con sus líneas.
func (uc *PurchaseUseCase) Get(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toPurchaseResponse(p), nil
}

// receiveLines aplica una entrada por línea en la sede de la compra. Las celdas se bloquean
// primero en orden determinista; el costo de cada línea se promedia con el de la sede.
func receiveLines(ctx context.Context, s repository.Stores, actor entity.Actor, p *entity.Purchase, at time.Time) error {
	keys := make([]entity.StockKey, 0, len(p.Lines))
	for _, l := range p.Lines {
		keys = append(keys, entity.StockKey{ProductID: l.ProductID, LocationID: p.LocationID})
	}
	if _, err := inventory.LockCells(ctx, s.Stock, keys...); err != nil {
		return err
	}

	description := fmt.Sprintf("Compra %s", p.ID)
	for _, l := range p.Lines {
		cost := l.UnitPrice
		if _, err := inventory.Adjust(ctx, s, inventory.Adjustment{
			ProductID:  l.ProductID,
			LocationID: p.LocationID,
			Delta:      l.Quantity,
			UnitCost:   &cost,
			At:         at,
		}); err != nil {
			return err
		}
		if _, err := inventory.RecordMovement(ctx, s.Movements, &entity.Movement{
			ProductID:   l.ProductID,
			Type:        entity.MovementInbound,
			Quantity:    l.Quantity,
			Description: description,
			ActorID:     actor.UserID,
			ReferenceID: p.ID,
			LocationID:  p.LocationID,
			CreatedAt:   at,
		}); err != nil {
			return err
		}
	}
	return nil
}

func requireProducts(ctx context.Context, s repository.Stores, p *entity.Purchase) error {
	for _, l := range p.Lines {
		product, err := s.Products.GetByID(ctx, l.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("producto %s: %w", l.ProductID, domain.ErrNotFound)
		}
	}
	return nil
}

func purchaseIDs(p *entity.Purchase) map[string]string {
	return map[string]string{"purchase_id": p.ID, "location_id": p.LocationID}
}

func toPurchaseResponse(p *entity.Purchase) *dto.PurchaseResponse {
	out := &dto.PurchaseResponse{
		ID:         p.ID,
		SupplierID: p.SupplierID,
		BuyerID:    p.BuyerID,
		LocationID: p.LocationID,
		Total:      p.Total,
		Status:     string(p.Status),
		Lines:      make([]dto.PurchaseLineResponse, 0, len(p.Lines)),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	for _, l := range p.Lines {
		out.Lines = append(out.Lines, dto.PurchaseLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal(),
		})
	}
	return out
}
