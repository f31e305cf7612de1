package inventory

import (
	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

func toStockResponse(s *entity.LocationStock) dto.StockResponse {
	return dto.StockResponse{
		ProductID:     s.ProductID,
		LocationID:    s.LocationID,
		Quantity:      s.Quantity,
		PurchasePrice: s.PurchasePrice,
		SalePrice:     s.SalePrice,
		UpdatedAt:     s.UpdatedAt,
	}
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                    m.ID,
		ProductID:             m.ProductID,
		Type:                  string(m.Type),
		Quantity:              m.Quantity,
		Direction:             string(m.Direction),
		Description:           m.Description,
		ActorID:               m.ActorID,
		ReferenceID:           m.ReferenceID,
		LocationID:            m.LocationID,
		SourceLocationID:      m.SourceLocationID,
		DestinationLocationID: m.DestinationLocationID,
		Timestamp:             m.CreatedAt,
	}
}

func toTransferResponse(t *entity.Transfer) *dto.TransferResponse {
	return &dto.TransferResponse{
		ID:                    t.ID,
		ProductID:             t.ProductID,
		Quantity:              t.Quantity,
		SourceLocationID:      t.SourceLocationID,
		DestinationLocationID: t.DestinationLocationID,
		Status:                string(t.Status),
		ActorID:               t.ActorID,
		Timestamp:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
	}
}
