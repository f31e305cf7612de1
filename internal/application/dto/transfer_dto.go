package dto

import "time"

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	ProductID             string `json:"product_id" validate:"required,uuid"`
	Quantity              int64  `json:"quantity"`
	SourceLocationID      string `json:"source_location_id" validate:"required,uuid"`
	DestinationLocationID string `json:"destination_location_id" validate:"required,uuid"`
}

// TransferResponse salida de un traslado.
type TransferResponse struct {
	ID                    string    `json:"id"`
	ProductID             string    `json:"product_id"`
	Quantity              int64     `json:"quantity"`
	SourceLocationID      string    `json:"source_location_id"`
	DestinationLocationID string    `json:"destination_location_id"`
	Status                string    `json:"status"`
	ActorID               string    `json:"actor_id"`
	Timestamp             time.Time `json:"timestamp"`
	UpdatedAt             time.Time `json:"updated_at"`
}
