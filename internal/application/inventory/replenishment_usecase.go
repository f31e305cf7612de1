package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición de una sede a partir del stock mínimo de cada producto.
type ReplenishmentUseCase struct {
	stock    repository.StockRepository
	products repository.ProductRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(stock repository.StockRepository, products repository.ProductRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{stock: stock, products: products}
}

// GenerateReplenishmentList devuelve los productos de la sede por debajo de su stock mínimo con la
// cantidad sugerida para llegar a 1.5 veces el mínimo. Ordena por margen de la sede y luego por déficit.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, locationID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	if locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	cells, err := uc.stock.List(ctx, repository.StockFilter{LocationID: locationID})
	if err != nil {
		return nil, err
	}

	hundred := decimal.NewFromInt(100)
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0)
	for _, cell := range cells {
		product, err := uc.products.GetByID(ctx, cell.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.StockMinimo <= 0 || cell.Quantity >= product.StockMinimo {
			continue
		}

		ideal := (product.StockMinimo*3 + 1) / 2 // ceil(1.5 * mínimo)
		suggested := ideal - cell.Quantity

		var margin decimal.Decimal
		if cell.SalePrice.GreaterThan(decimal.Zero) {
			margin = cell.SalePrice.Sub(cell.PurchasePrice).Div(cell.SalePrice).Mul(hundred).Round(2)
		}

		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          product.ID,
			SKU:                product.SKU,
			ProductName:        product.Name,
			LocationID:         locationID,
			CurrentStock:       cell.Quantity,
			StockMinimo:        product.StockMinimo,
			IdealStock:         ideal,
			SuggestedOrderQty:  suggested,
			UnitCost:           cell.PurchasePrice,
			EstimatedOrderCost: cell.PurchasePrice.Mul(decimal.NewFromInt(suggested)),
			GrossMarginPct:     margin,
		})
	}

	// Primero mayor margen, luego mayor déficit bajo el mínimo.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.GrossMarginPct.Equal(b.GrossMarginPct) {
			return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
		}
		return a.StockMinimo-a.CurrentStock > b.StockMinimo-b.CurrentStock
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
