package entity

import (
	"encoding/json"
	"time"
)

// AuditAction evento del ciclo de vida observado.
type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
)

// Tipos de entidad auditados.
const (
	AuditEntityProduct  = "product"
	AuditEntityLocation = "location"
	AuditEntityPurchase = "purchase"
	AuditEntitySale     = "sale"
	AuditEntityTransfer = "transfer"
)

// AuditRecord registro append-only de un cambio. Before es nil en create, After es nil en delete;
// en update After solo contiene los campos modificados.
type AuditRecord struct {
	ID         string
	ActorID    string
	Action     AuditAction
	EntityType string
	EntityID   string
	Before     json.RawMessage
	After      json.RawMessage
	ClientIP   string
	UserAgent  string
	CreatedAt  time.Time
}
