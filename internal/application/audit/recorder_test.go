package audit_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/internal/application/audit"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/memory"
)

type item struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
	Notes string `json:"notes"`
}

var admin = entity.Actor{UserID: "u-admin", Role: entity.RoleAdmin, ClientIP: "10.0.0.7", UserAgent: "curl/8"}

func TestRecorder_CicloDeVida(t *testing.T) {
	ctx := context.Background()
	repo := memory.New().Audit()
	rec := audit.NewRecorder(repo, zerolog.Nop())

	rec.Created(ctx, admin, "item", "i1", item{Name: "a", Price: 1})
	rec.Updated(ctx, admin, "item", "i1", item{Name: "a", Price: 1}, item{Name: "a", Price: 2})
	rec.Deleted(ctx, admin, "item", "i1", item{Name: "a", Price: 2})

	list, err := repo.ListByEntity(ctx, "item", "i1")
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, entity.AuditCreate, list[0].Action)
	assert.Nil(t, list[0].Before)
	assert.Equal(t, "10.0.0.7", list[0].ClientIP)
	assert.Equal(t, "curl/8", list[0].UserAgent)
	assert.Equal(t, admin.UserID, list[0].ActorID)

	upd := list[1]
	assert.Equal(t, entity.AuditUpdate, upd.Action)
	assert.JSONEq(t, `{"name":"a","price":1,"notes":""}`, string(upd.Before))
	assert.JSONEq(t, `{"price":2}`, string(upd.After), "after solo lleva los campos modificados")

	assert.Equal(t, entity.AuditDelete, list[2].Action)
	assert.Nil(t, list[2].After)
}

func TestRecorder_SinCambiosNoEscribe(t *testing.T) {
	ctx := context.Background()
	repo := memory.New().Audit()
	rec := audit.NewRecorder(repo, zerolog.Nop())

	rec.Updated(ctx, admin, "item", "i1", item{Name: "a"}, item{Name: "a"})

	list, err := repo.ListByEntity(ctx, "item", "i1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRecorder_CampoVaciadoSeRegistraComoNull(t *testing.T) {
	ctx := context.Background()
	repo := memory.New().Audit()
	rec := audit.NewRecorder(repo, zerolog.Nop())

	before := entity.Product{ID: "p1", SKU: "CAF-1", Name: "Café", CategoryID: "cat-1", StockMinimo: 3}
	after := before
	after.CategoryID = ""
	rec.Updated(ctx, admin, entity.AuditEntityProduct, "p1", before, after)

	list, err := repo.ListByEntity(ctx, entity.AuditEntityProduct, "p1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Contains(t, string(list[0].Before), `"category_id":"cat-1"`)
	assert.JSONEq(t, `{"category_id":null}`, string(list[0].After))
}

func TestRecorder_SinActorNoAudita(t *testing.T) {
	ctx := context.Background()
	repo := memory.New().Audit()
	rec := audit.NewRecorder(repo, zerolog.Nop())

	rec.Created(ctx, entity.Actor{}, "item", "i1", item{Name: "a"})

	list, err := repo.ListByEntity(ctx, "item", "i1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

type failingRepo struct{}

func (failingRepo) Create(context.Context, *entity.AuditRecord) error {
	return errors.New("audit table locked")
}

func (failingRepo) ListByEntity(context.Context, string, string) ([]*entity.AuditRecord, error) {
	return nil, nil
}

func TestRecorder_ErrorSeRegistraYNoSePropaga(t *testing.T) {
	var buf bytes.Buffer
	rec := audit.NewRecorder(failingRepo{}, zerolog.New(&buf))

	assert.NotPanics(t, func() {
		rec.Created(context.Background(), admin, "item", "i1", item{Name: "a"})
	})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "audit table locked", line["error"])
	assert.Equal(t, "i1", line["entity_id"])
	assert.Equal(t, "create", line["action"])
}
