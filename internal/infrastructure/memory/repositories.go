package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*productRepo)(nil)
	_ repository.LocationRepository = (*locationRepo)(nil)
	_ repository.StockRepository    = (*stockRepo)(nil)
	_ repository.MovementRepository = (*movementRepo)(nil)
	_ repository.PurchaseRepository = (*purchaseRepo)(nil)
	_ repository.SaleRepository     = (*saleRepo)(nil)
	_ repository.TransferRepository = (*transferRepo)(nil)
	_ repository.AuditRepository    = (*auditRepo)(nil)
)

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

type productRepo struct{ do access }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.do(func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range st.products {
			if other.SKU == p.SKU {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.do(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// Las transacciones en memoria ya son serializadas: bloquear es leer.
func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.do(func(st *state) error {
		for _, p := range st.products {
			if p.SKU == sku {
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	return r.do(func(st *state) error {
		if _, ok := st.products[p.ID]; !ok {
			return domain.ErrNotFound
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) Delete(_ context.Context, id string) error {
	return r.do(func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.products, id)
		for k := range st.stock {
			if k.ProductID == id {
				delete(st.stock, k)
			}
		}
		return nil
	})
}

func (r *productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.do(func(st *state) error {
		all := make([]*entity.Product, 0, len(st.products))
		for _, p := range st.products {
			all = append(all, &p)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].SKU < all[j].SKU })
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

type locationRepo struct{ do access }

func (r *locationRepo) Create(_ context.Context, l *entity.Location) error {
	return r.do(func(st *state) error {
		if _, ok := st.locations[l.ID]; ok {
			return domain.ErrDuplicate
		}
		st.locations[l.ID] = *l
		return nil
	})
}

func (r *locationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	var out *entity.Location
	err := r.do(func(st *state) error {
		if l, ok := st.locations[id]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r *locationRepo) List(_ context.Context, limit, offset int) ([]*entity.Location, error) {
	var out []*entity.Location
	err := r.do(func(st *state) error {
		all := make([]*entity.Location, 0, len(st.locations))
		for _, l := range st.locations {
			all = append(all, &l)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

type stockRepo struct{ do access }

func (r *stockRepo) Get(_ context.Context, productID, locationID string) (*entity.LocationStock, error) {
	var out *entity.LocationStock
	err := r.do(func(st *state) error {
		if s, ok := st.stock[entity.StockKey{ProductID: productID, LocationID: locationID}]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a Get: las transacciones en memoria ya están serializadas.
func (r *stockRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.LocationStock, error) {
	return r.Get(ctx, productID, locationID)
}

func (r *stockRepo) Insert(_ context.Context, s *entity.LocationStock) error {
	return r.do(func(st *state) error {
		if _, ok := st.stock[s.Key()]; ok {
			return nil
		}
		st.stock[s.Key()] = *s
		return nil
	})
}

func (r *stockRepo) Update(_ context.Context, s *entity.LocationStock) error {
	return r.do(func(st *state) error {
		cur, ok := st.stock[s.Key()]
		if !ok {
			return domain.ErrNotFound
		}
		if s.Quantity < 0 {
			return domain.Persistence("update location_stock", domain.ErrInsufficientStock)
		}
		cur.Quantity = s.Quantity
		cur.PurchasePrice = s.PurchasePrice
		cur.SalePrice = s.SalePrice
		cur.UpdatedAt = s.UpdatedAt
		st.stock[s.Key()] = cur
		return nil
	})
}

func (r *stockRepo) List(_ context.Context, f repository.StockFilter) ([]*entity.LocationStock, error) {
	var out []*entity.LocationStock
	err := r.do(func(st *state) error {
		out = make([]*entity.LocationStock, 0)
		for k, s := range st.stock {
			if f.ProductID != "" && k.ProductID != f.ProductID {
				continue
			}
			if f.LocationID != "" && k.LocationID != f.LocationID {
				continue
			}
			out = append(out, &s)
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].LocationID != out[j].LocationID {
				return out[i].LocationID < out[j].LocationID
			}
			return out[i].ProductID < out[j].ProductID
		})
		return nil
	})
	return out, err
}

type movementRepo struct{ do access }

func (r *movementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.do(func(st *state) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.do(func(st *state) error {
		matched := make([]*entity.Movement, 0)
		for _, m := range st.movements {
			if !matchMovement(m, f) {
				continue
			}
			matched = append(matched, &m)
		}
		out = page(matched, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

func matchMovement(m entity.Movement, f repository.MovementFilter) bool {
	if f.ProductID != "" && m.ProductID != f.ProductID {
		return false
	}
	if f.LocationID != "" && m.LocationID != f.LocationID &&
		m.SourceLocationID != f.LocationID && m.DestinationLocationID != f.LocationID {
		return false
	}
	if f.Type != "" && m.Type != f.Type {
		return false
	}
	if f.From != nil && m.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && m.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

type purchaseRepo struct{ do access }

func (r *purchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	return r.do(func(st *state) error {
		if _, ok := st.purchases[p.ID]; ok {
			return domain.ErrDuplicate
		}
		cp := *p
		cp.Lines = slices.Clone(p.Lines)
		st.purchases[p.ID] = cp
		return nil
	})
}

func (r *purchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	var out *entity.Purchase
	err := r.do(func(st *state) error {
		if p, ok := st.purchases[id]; ok {
			p.Lines = slices.Clone(p.Lines)
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *purchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.GetByID(ctx, id)
}

func (r *purchaseRepo) UpdateStatus(_ context.Context, id string, status entity.PurchaseStatus, at time.Time) error {
	return r.do(func(st *state) error {
		p, ok := st.purchases[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.Status = status
		p.UpdatedAt = at
		st.purchases[id] = p
		return nil
	})
}

func (r *purchaseRepo) Delete(_ context.Context, id string) error {
	return r.do(func(st *state) error {
		if _, ok := st.purchases[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.purchases, id)
		return nil
	})
}

type saleRepo struct{ do access }

func (r *saleRepo) Create(_ context.Context, s *entity.Sale) error {
	return r.do(func(st *state) error {
		if _, ok := st.sales[s.ID]; ok {
			return domain.ErrDuplicate
		}
		cp := *s
		cp.Lines = slices.Clone(s.Lines)
		st.sales[s.ID] = cp
		return nil
	})
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.do(func(st *state) error {
		if s, ok := st.sales[id]; ok {
			s.Lines = slices.Clone(s.Lines)
			out = &s
		}
		return nil
	})
	return out, err
}

type transferRepo struct{ do access }

func (r *transferRepo) Create(_ context.Context, t *entity.Transfer) error {
	return r.do(func(st *state) error {
		if _, ok := st.transfers[t.ID]; ok {
			return domain.ErrDuplicate
		}
		st.transfers[t.ID] = *t
		return nil
	})
}

func (r *transferRepo) GetByID(_ context.Context, id string) (*entity.Transfer, error) {
	var out *entity.Transfer
	err := r.do(func(st *state) error {
		if t, ok := st.transfers[id]; ok {
			out = &t
		}
		return nil
	})
	return out, err
}

func (r *transferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.GetByID(ctx, id)
}

func (r *transferRepo) UpdateStatus(_ context.Context, id string, status entity.TransferStatus, at time.Time) error {
	return r.do(func(st *state) error {
		t, ok := st.transfers[id]
		if !ok {
			return domain.ErrNotFound
		}
		t.Status = status
		t.UpdatedAt = at
		st.transfers[id] = t
		return nil
	})
}

type auditRepo struct{ do access }

func (r *auditRepo) Create(_ context.Context, rec *entity.AuditRecord) error {
	return r.do(func(st *state) error {
		st.audit = append(st.audit, *rec)
		return nil
	})
}

func (r *auditRepo) ListByEntity(_ context.Context, entityType, entityID string) ([]*entity.AuditRecord, error) {
	var out []*entity.AuditRecord
	err := r.do(func(st *state) error {
		out = make([]*entity.AuditRecord, 0)
		for _, rec := range st.audit {
			if rec.EntityType == entityType && rec.EntityID == entityID {
				out = append(out, &rec)
			}
		}
		return nil
	})
	return out, err
}
