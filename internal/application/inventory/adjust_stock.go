package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/ports"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// AdjustStockUseCase registra ajustes manuales de inventario (conteos, mermas, correcciones).
type AdjustStockUseCase struct {
	txRunner TxRunner
	notifier ports.Notifier
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(txRunner TxRunner, notifier ports.Notifier) *AdjustStockUseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	return &AdjustStockUseCase{txRunner: txRunner, notifier: notifier}
}

// AdjustStock aplica el delta a la celda y registra un movimiento de tipo adjustment con su
// dirección, todo en una transacción. Delta 0 devuelve ErrInvalidQuantity.
func (uc *AdjustStockUseCase) AdjustStock(ctx context.Context, actor entity.Actor, in dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	reason := strings.TrimSpace(in.Reason)
	if in.ProductID == "" || in.LocationID == "" || reason == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Delta == 0 {
		return nil, domain.ErrInvalidQuantity
	}

	direction, qty := entity.AdjustmentUp, in.Delta
	if in.Delta < 0 {
		direction, qty = entity.AdjustmentDown, -in.Delta
	}

	var (
		stock      *entity.LocationStock
		movementID string
		events     []ports.Event
	)
	now := time.Now()
	err := uc.txRunner.Run(ctx, func(s repository.Stores) error {
		events = nil
		product, err := s.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		location, err := s.Locations.GetByID(ctx, in.LocationID)
		if err != nil {
			return err
		}
		if location == nil {
			return domain.ErrNotFound
		}

		stock, err = Adjust(ctx, s, Adjustment{
			ProductID:  in.ProductID,
			LocationID: in.LocationID,
			Delta:      in.Delta,
			At:         now,
		})
		if err != nil {
			return err
		}
		movementID, err = RecordMovement(ctx, s.Movements, &entity.Movement{
			ProductID:   in.ProductID,
			Type:        entity.MovementAdjustment,
			Quantity:    qty,
			Direction:   direction,
			Description: reason,
			ActorID:     actor.UserID,
			LocationID:  in.LocationID,
			CreatedAt:   now,
		})
		if err != nil {
			return err
		}
		if direction == entity.AdjustmentDown {
			if ev, ok := LowStockEvent(product, stock); ok {
				events = append(events, ev)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	events = append(events, ports.NewEvent(ports.EventStockAdjusted, map[string]string{
		"movement_id": movementID,
		"product_id":  in.ProductID,
		"location_id": in.LocationID,
	}))
	uc.notifier.Notify(ctx, events...)

	return &dto.AdjustStockResponse{MovementID: movementID, Stock: toStockResponse(stock)}, nil
}
