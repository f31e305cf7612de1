package inventory

import (
	"context"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// QueryUseCase lecturas del libro de stock y del diario.
type QueryUseCase struct {
	stock     repository.StockRepository
	movements repository.MovementRepository
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(stock repository.StockRepository, movements repository.MovementRepository) *QueryUseCase {
	return &QueryUseCase{stock: stock, movements: movements}
}

// GetStock devuelve la celda (producto, sede). ErrNotFound si el producto nunca se almacenó allí.
func (uc *QueryUseCase) GetStock(ctx context.Context, productID, locationID string) (*dto.StockResponse, error) {
	if productID == "" || locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	cell, err := uc.stock.Get(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	if cell == nil {
		return nil, domain.ErrNotFound
	}
	out := toStockResponse(cell)
	return &out, nil
}

// ListStock lista las celdas filtrando por producto y/o sede.
func (uc *QueryUseCase) ListStock(ctx context.Context, productID, locationID string) (*dto.StockListResponse, error) {
	cells, err := uc.stock.List(ctx, repository.StockFilter{ProductID: productID, LocationID: locationID})
	if err != nil {
		return nil, err
	}
	out := &dto.StockListResponse{Items: make([]dto.StockResponse, 0, len(cells))}
	for _, c := range cells {
		out.Items = append(out.Items, toStockResponse(c))
	}
	return out, nil
}

// ListMovements lista el diario en orden de aplicación con paginación (limit 20 por defecto, máximo 100).
func (uc *QueryUseCase) ListMovements(ctx context.Context, in dto.MovementListRequest) (*dto.MovementListResponse, error) {
	in.DefaultPage()
	mt := entity.MovementType(in.Type)
	if in.Type != "" && !mt.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if in.From != nil && in.To != nil && in.To.Before(*in.From) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.movements.List(ctx, repository.MovementFilter{
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Type:       mt,
		From:       in.From,
		To:         in.To,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	for _, m := range list {
		out.Items = append(out.Items, toMovementResponse(m))
	}
	return out, nil
}
