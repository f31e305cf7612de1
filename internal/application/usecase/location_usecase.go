package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/ports"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// LocationUseCase casos de uso para sedes (bodegas y tiendas).
type LocationUseCase struct {
	repo  repository.LocationRepository
	audit ports.AuditRecorder
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository, audit ports.AuditRecorder) *LocationUseCase {
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	return &LocationUseCase{repo: repo, audit: audit}
}

// Create crea una nueva sede.
func (uc *LocationUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	location := &entity.Location{
		ID:        uuid.New().String(),
		Name:      name,
		Address:   strings.TrimSpace(in.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, location); err != nil {
		return nil, err
	}
	uc.audit.Created(ctx, actor, entity.AuditEntityLocation, location.ID, location)
	return toLocationResponse(location), nil
}

// GetByID obtiene una sede por ID.
func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}
	return toLocationResponse(location), nil
}

// List lista sedes con paginación.
func (uc *LocationUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.LocationListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return &dto.LocationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Address:   l.Address,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
