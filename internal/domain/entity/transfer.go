package entity

import "time"

// Transfer solicitud de mover una cantidad fija de un producto entre dos sedes.
// El stock solo se mueve al recibirse.
type Transfer struct {
	ID                    string         `json:"id"`
	ProductID             string         `json:"product_id"`
	Quantity              int64          `json:"quantity"`
	SourceLocationID      string         `json:"source_location_id"`
	DestinationLocationID string         `json:"destination_location_id"`
	Status                TransferStatus `json:"status"`
	ActorID               string         `json:"actor_id"`
	CreatedAt             time.Time      `json:"timestamp"`
	UpdatedAt             time.Time      `json:"updated_at"`
}
