package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	ErrInvalidTransfer        = errors.New("traslado inválido")
	ErrUnknownStockLocation   = errors.New("el producto no tiene stock registrado en la sede")
	ErrInvalidQuantity        = errors.New("cantidad inválida")
	ErrPersistence            = errors.New("error de persistencia")
)

// InsufficientStockError detalla qué producto y sede no alcanzan la cantidad pedida.
type InsufficientStockError struct {
	ProductID  string
	LocationID string
	Available  int64
	Requested  int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s en sede %s: disponible %d, solicitado %d",
		e.ProductID, e.LocationID, e.Available, e.Requested)
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// StateTransitionError describe una transición rechazada por la tabla de estados.
type StateTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("%s: transición %s -> %s no permitida", e.Entity, e.From, e.To)
}

func (e *StateTransitionError) Is(target error) bool { return target == ErrInvalidStateTransition }

// PersistenceError envuelve fallos inesperados de la base de datos (conexión, constraint, etc.).
// El caller debe reintentar la operación completa.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// Persistence construye un PersistenceError; devuelve nil si err es nil.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
