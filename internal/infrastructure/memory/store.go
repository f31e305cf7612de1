// Package memory implementa los repositorios en memoria. Las transacciones se serializan con un
// mutex y trabajan sobre una copia del estado que solo se publica si fn termina sin error.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

type state struct {
	products  map[string]entity.Product
	locations map[string]entity.Location
	stock     map[entity.StockKey]entity.LocationStock
	movements []entity.Movement
	purchases map[string]entity.Purchase
	sales     map[string]entity.Sale
	transfers map[string]entity.Transfer
	audit     []entity.AuditRecord
}

func newState() *state {
	return &state{
		products:  make(map[string]entity.Product),
		locations: make(map[string]entity.Location),
		stock:     make(map[entity.StockKey]entity.LocationStock),
		purchases: make(map[string]entity.Purchase),
		sales:     make(map[string]entity.Sale),
		transfers: make(map[string]entity.Transfer),
	}
}

// clone copia mapas y slices; las líneas de compras y ventas nunca se modifican en sitio.
func (s *state) clone() *state {
	return &state{
		products:  maps.Clone(s.products),
		locations: maps.Clone(s.locations),
		stock:     maps.Clone(s.stock),
		movements: slices.Clone(s.movements),
		purchases: maps.Clone(s.purchases),
		sales:     maps.Clone(s.sales),
		transfers: maps.Clone(s.transfers),
		audit:     slices.Clone(s.audit),
	}
}

// access ejecuta fn con acceso exclusivo al estado.
type access func(fn func(st *state) error) error

// Store almacén en memoria para desarrollo (STORE_DRIVER=memory) y pruebas.
type Store struct {
	mu sync.Mutex
	st *state
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn en una transacción: trabaja sobre una copia y la publica solo si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(repository.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.st.clone()
	if err := fn(storesFor(direct(work))); err != nil {
		return err
	}
	s.st = work
	return nil
}

// RunSnapshot ejecuta fn sobre una copia que se descarta al terminar.
func (s *Store) RunSnapshot(ctx context.Context, fn func(repository.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(storesFor(direct(s.st.clone())))
}

// Stores devuelve repositorios fuera de transacción: cada operación toma el lock por su cuenta.
func (s *Store) Stores() repository.Stores {
	return storesFor(s.locked)
}

// Audit devuelve el repositorio de auditoría.
func (s *Store) Audit() repository.AuditRepository {
	return &auditRepo{do: s.locked}
}

func (s *Store) locked(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

func direct(st *state) access {
	return func(fn func(st *state) error) error { return fn(st) }
}

func storesFor(do access) repository.Stores {
	return repository.Stores{
		Products:  &productRepo{do: do},
		Locations: &locationRepo{do: do},
		Stock:     &stockRepo{do: do},
		Movements: &movementRepo{do: do},
		Purchases: &purchaseRepo{do: do},
		Sales:     &saleRepo{do: do},
		Transfers: &transferRepo{do: do},
	}
}
