package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// RecordMovement valida y agrega un movimiento al diario. Debe llamarse con el repositorio de la
// misma transacción que actualizó el libro; asigna ID y fecha si vienen vacíos.
func RecordMovement(ctx context.Context, movements repository.MovementRepository, m *entity.Movement) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if err := movements.Create(ctx, m); err != nil {
		return "", err
	}
	return m.ID, nil
}
