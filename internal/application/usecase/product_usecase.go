package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/ports"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con repositorios atados a ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(s repository.Stores) error) error
}

// ProductUseCase casos de uso CRUD para productos. El stock por sede se maneja vía movimientos.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner TxRunner
	audit    ports.AuditRecorder
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner TxRunner, audit ports.AuditRecorder) *ProductUseCase {
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	return &ProductUseCase{repo: repo, txRunner: txRunner, audit: audit}
}

// NormalizeSKU normaliza el código (NFC, sin espacios, mayúsculas) para que la unicidad no
// dependa de la forma en que se escribió.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(norm.NFC.String(sku)))
}

// Create crea un nuevo producto. Rechaza SKU duplicado y precios negativos.
func (uc *ProductUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := NormalizeSKU(in.SKU)
	name := strings.TrimSpace(in.Name)
	if sku == "" || name == "" || in.StockMinimo < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.PurchasePrice.IsNegative() || in.SalePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		SKU:           sku,
		Name:          name,
		CategoryID:    in.CategoryID,
		BrandID:       in.BrandID,
		StockMinimo:   in.StockMinimo,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.audit.Created(ctx, actor, entity.AuditEntityProduct, product.ID, product)
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza campos descriptivos y precios generales. No toca el stock de ninguna sede.
func (uc *ProductUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	before := *product
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = name
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.BrandID != nil {
		product.BrandID = *in.BrandID
	}
	if in.StockMinimo != nil {
		if *in.StockMinimo < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.StockMinimo = *in.StockMinimo
	}
	if err := setPrice(&product.PurchasePrice, in.PurchasePrice); err != nil {
		return nil, err
	}
	if err := setPrice(&product.SalePrice, in.SalePrice); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	uc.audit.Updated(ctx, actor, entity.AuditEntityProduct, product.ID, before, *product)
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un producto. Se rechaza con ErrConflict si alguna sede tiene existencias o si
// el diario ya lo referencia. La fila del producto se bloquea antes de verificar, de modo que
// un movimiento concurrente sobre el mismo producto espera al borrado o lo hace fallar.
func (uc *ProductUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(s repository.Stores) error {
		var err error
		product, err = s.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		cells, err := s.Stock.List(ctx, repository.StockFilter{ProductID: id})
		if err != nil {
			return err
		}
		for _, c := range cells {
			if c.Quantity > 0 {
				return domain.ErrConflict
			}
		}
		used, err := s.Movements.List(ctx, repository.MovementFilter{ProductID: id, Limit: 1})
		if err != nil {
			return err
		}
		if len(used) > 0 {
			return domain.ErrConflict
		}
		return s.Products.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.audit.Deleted(ctx, actor, entity.AuditEntityProduct, product.ID, product)
	return nil
}

func setPrice(dst *decimal.Decimal, v *decimal.Decimal) error {
	if v == nil {
		return nil
	}
	if v.IsNegative() {
		return domain.ErrInvalidInput
	}
	*dst = *v
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		CategoryID:    p.CategoryID,
		BrandID:       p.BrandID,
		StockMinimo:   p.StockMinimo,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
