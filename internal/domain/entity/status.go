package entity

import "github.com/jhoicas/inventario-sedes/internal/domain"

// PurchaseStatus estado de una compra.
type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseCancelled PurchaseStatus = "cancelled"
)

// TransferStatus estado de un traslado entre sedes.
type TransferStatus string

const (
	TransferPending  TransferStatus = "pending"
	TransferShipped  TransferStatus = "shipped"
	TransferReceived TransferStatus = "received"
	TransferRejected TransferStatus = "rejected"
)

// Tablas de transición. Un estado sin entradas es terminal.
var (
	purchaseTransitions = map[PurchaseStatus][]PurchaseStatus{
		PurchasePending: {PurchaseCompleted, PurchaseCancelled},
	}
	transferTransitions = map[TransferStatus][]TransferStatus{
		TransferPending: {TransferShipped, TransferReceived, TransferRejected},
		TransferShipped: {TransferReceived},
	}
)

// Valid indica si el estado es uno de los tres conocidos.
func (s PurchaseStatus) Valid() bool {
	switch s {
	case PurchasePending, PurchaseCompleted, PurchaseCancelled:
		return true
	}
	return false
}

// Terminal indica si la compra ya fue resuelta.
func (s PurchaseStatus) Terminal() bool {
	return len(purchaseTransitions[s]) == 0
}

// TransitionTo valida s -> to contra la tabla. También rechaza el no-op y destinos desconocidos.
func (s PurchaseStatus) TransitionTo(to PurchaseStatus) error {
	for _, allowed := range purchaseTransitions[s] {
		if allowed == to {
			return nil
		}
	}
	return &domain.StateTransitionError{Entity: "purchase", From: string(s), To: string(to)}
}

// Valid indica si el estado es conocido.
func (s TransferStatus) Valid() bool {
	switch s {
	case TransferPending, TransferShipped, TransferReceived, TransferRejected:
		return true
	}
	return false
}

// Terminal indica si el traslado ya no admite transiciones.
func (s TransferStatus) Terminal() bool {
	return len(transferTransitions[s]) == 0
}

// TransitionTo valida s -> to contra la tabla de traslados.
func (s TransferStatus) TransitionTo(to TransferStatus) error {
	for _, allowed := range transferTransitions[s] {
		if allowed == to {
			return nil
		}
	}
	return &domain.StateTransitionError{Entity: "transfer", From: string(s), To: string(to)}
}
