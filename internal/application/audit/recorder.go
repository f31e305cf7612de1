package audit

import (
	"context"
	"encoding/json"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-sedes/internal/application/ports"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// Recorder escribe registros de auditoría append-only para create/update/delete.
// Es best-effort: se llama después del commit, los errores se registran en el log y se descartan,
// y los cambios sin usuario autenticado (procesos del sistema) no se auditan.
type Recorder struct {
	repo repository.AuditRepository
	log  zerolog.Logger
}

var _ ports.AuditRecorder = (*Recorder)(nil)

// NewRecorder construye el auditor.
func NewRecorder(repo repository.AuditRepository, log zerolog.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Created registra la creación con el estado completo como After.
func (r *Recorder) Created(ctx context.Context, actor entity.Actor, entityType, entityID string, after any) {
	if !actor.Authenticated() {
		return
	}
	afterJSON, err := json.Marshal(after)
	if err != nil {
		r.fail(err, entityType, entityID, entity.AuditCreate)
		return
	}
	r.write(ctx, actor, entity.AuditCreate, entityType, entityID, nil, afterJSON)
}

// Updated registra el estado completo anterior y solo los campos que cambiaron.
// Si nada cambió no escribe registro.
func (r *Recorder) Updated(ctx context.Context, actor entity.Actor, entityType, entityID string, before, after any) {
	if !actor.Authenticated() {
		return
	}
	beforeJSON, changed, err := diff(before, after)
	if err != nil {
		r.fail(err, entityType, entityID, entity.AuditUpdate)
		return
	}
	if changed == nil {
		return
	}
	r.write(ctx, actor, entity.AuditUpdate, entityType, entityID, beforeJSON, changed)
}

// Deleted registra el estado completo previo al borrado.
func (r *Recorder) Deleted(ctx context.Context, actor entity.Actor, entityType, entityID string, before any) {
	if !actor.Authenticated() {
		return
	}
	beforeJSON, err := json.Marshal(before)
	if err != nil {
		r.fail(err, entityType, entityID, entity.AuditDelete)
		return
	}
	r.write(ctx, actor, entity.AuditDelete, entityType, entityID, beforeJSON, nil)
}

func (r *Recorder) write(ctx context.Context, actor entity.Actor, action entity.AuditAction, entityType, entityID string, before, after json.RawMessage) {
	rec := &entity.AuditRecord{
		ID:         uuid.New().String(),
		ActorID:    actor.UserID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Before:     before,
		After:      after,
		ClientIP:   actor.ClientIP,
		UserAgent:  actor.UserAgent,
		CreatedAt:  time.Now(),
	}
	if err := r.repo.Create(ctx, rec); err != nil {
		r.fail(err, entityType, entityID, action)
	}
}

func (r *Recorder) fail(err error, entityType, entityID string, action entity.AuditAction) {
	r.log.Error().Err(err).
		Str("entity_type", entityType).
		Str("entity_id", entityID).
		Str("action", string(action)).
		Msg("no se pudo registrar auditoría")
}

// diff devuelve el JSON completo de before y un objeto JSON con los campos de after que difieren;
// los que desaparecieron de after van como null.
// changed es nil si no hay diferencias.
func diff(before, after any) (beforeJSON, changed json.RawMessage, err error) {
	beforeJSON, err = json.Marshal(before)
	if err != nil {
		return nil, nil, err
	}
	afterJSON, err := json.Marshal(after)
	if err != nil {
		return nil, nil, err
	}
	var b, a map[string]any
	if err := json.Unmarshal(beforeJSON, &b); err != nil {
		return nil, nil, err
	}
	if err := json.Unmarshal(afterJSON, &a); err != nil {
		return nil, nil, err
	}
	fields := make(map[string]any)
	for k, v := range a {
		if old, ok := b[k]; !ok || !reflect.DeepEqual(old, v) {
			fields[k] = v
		}
	}
	// Un campo omitempty que quedó vacío desaparece de after: se registra como null.
	for k := range b {
		if _, ok := a[k]; !ok {
			fields[k] = nil
		}
	}
	if len(fields) == 0 {
		return beforeJSON, nil, nil
	}
	changed, err = json.Marshal(fields)
	if err != nil {
		return nil, nil, err
	}
	return beforeJSON, changed, nil
}
