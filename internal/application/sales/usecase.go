package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/application/ports"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// SaleUseCase registra ventas en una sede. Todas las líneas se descuentan o ninguna:
// venta, salidas de stock y movimientos se confirman en una sola transacción.
type SaleUseCase struct {
	txRunner inventory.TxRunner
	sales    repository.SaleRepository
	audit    ports.AuditRecorder
	notifier ports.Notifier
}

// NewSaleUseCase construye el caso de uso de ventas.
func NewSaleUseCase(
	txRunner inventory.TxRunner,
	sales repository.SaleRepository,
	audit ports.AuditRecorder,
	notifier ports.Notifier,
) *SaleUseCase {
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	return &SaleUseCase{txRunner: txRunner, sales: sales, audit: audit, notifier: notifier}
}

// Create valida el stock de todas las líneas con las celdas bloqueadas (orden ascendente de producto)
// y luego descuenta cada línea. Si alguna no alcanza devuelve *domain.InsufficientStockError con el
// producto y no queda rastro de la venta. Una línea con precio 0 toma el precio de venta de la sede.
func (uc *SaleUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.LocationID == "" || len(in.Lines) == 0 {
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
	var (
		sale   *entity.Sale
		events []ports.Event
	)
	err := uc.txRunner.Run(ctx, func(s repository.Stores) error {
		events = nil
		location, err := s.Locations.GetByID(ctx, in.LocationID)
		if err != nil {
			return err
		}
		if location == nil {
			return domain.ErrNotFound
		}

		products := make(map[string]*entity.Product, len(in.Lines))
		required := make(map[string]int64, len(in.Lines))
		keys := make([]entity.StockKey, 0, len(in.Lines))
		for _, l := range in.Lines {
			if _, ok := products[l.ProductID]; !ok {
				p, err := s.Products.GetByID(ctx, l.ProductID)
				if err != nil {
					return err
				}
				if p == nil {
					return fmt.Errorf("producto %s: %w", l.ProductID, domain.ErrNotFound)
				}
				products[l.ProductID] = p
				keys = append(keys, entity.StockKey{ProductID: l.ProductID, LocationID: in.LocationID})
			}
			required[l.ProductID] += l.Quantity
		}

		cells, err := inventory.LockCells(ctx, s.Stock, keys...)
		if err != nil {
			return err
		}
		for _, k := range keys {
			cell := cells[k]
			available := int64(0)
			if cell != nil {
				available = cell.Quantity
			}
			if available < required[k.ProductID] {
				return &domain.InsufficientStockError{
					ProductID:  k.ProductID,
					LocationID: in.LocationID,
					Available:  available,
					Requested:  required[k.ProductID],
				}
			}
		}

		sale = &entity.Sale{
			ID:         uuid.New().String(),
			SellerID:   actor.UserID,
			LocationID: in.LocationID,
			CreatedAt:  now,
		}
		description := fmt.Sprintf("Venta %s", sale.ID)
		total := decimal.Zero
		for _, l := range in.Lines {
			price := l.UnitPrice
			if price.IsZero() {
				price = cells[entity.StockKey{ProductID: l.ProductID, LocationID: in.LocationID}].SalePrice
			}
			if _, err := inventory.Adjust(ctx, s, inventory.Adjustment{
				ProductID:  l.ProductID,
				LocationID: in.LocationID,
				Delta:      -l.Quantity,
				At:         now,
			}); err != nil {
				return err
			}
			if _, err := inventory.RecordMovement(ctx, s.Movements, &entity.Movement{
				ProductID:   l.ProductID,
				Type:        entity.MovementOutbound,
				Quantity:    l.Quantity,
				Description: description,
				ActorID:     actor.UserID,
				ReferenceID: sale.ID,
				LocationID:  in.LocationID,
				CreatedAt:   now,
			}); err != nil {
				return err
			}
			subtotal := price.Mul(decimal.NewFromInt(l.Quantity))
			total = total.Add(subtotal)
			sale.Lines = append(sale.Lines, entity.SaleLine{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: price,
				Subtotal:  subtotal,
			})
		}
		sale.Total = total
		if err := s.Sales.Create(ctx, sale); err != nil {
			return err
		}

		for _, k := range keys {
			cell, err := s.Stock.Get(ctx, k.ProductID, k.LocationID)
			if err != nil {
				return err
			}
			if ev, ok := inventory.LowStockEvent(products[k.ProductID], cell); ok {
				events = append(events, ev)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Created(ctx, actor, entity.AuditEntitySale, sale.ID, sale)
	created := ports.NewEvent(ports.EventSaleCreated, map[string]string{"sale_id": sale.ID, "location_id": sale.LocationID})
	uc.notifier.Notify(ctx, append([]ports.Event{created}, events...)...)
	return toSaleResponse(sale), nil
}

// Get devuelve una venta con sus líneas.
func (uc *SaleUseCase) Get(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return toSaleResponse(sale), nil
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:         s.ID,
		SellerID:   s.SellerID,
		LocationID: s.LocationID,
		Total:      s.Total,
		Lines:      make([]dto.SaleLineResponse, 0, len(s.Lines)),
		CreatedAt:  s.CreatedAt,
	}
	for _, l := range s.Lines {
		out.Lines = append(out.Lines, dto.SaleLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	return out
}
