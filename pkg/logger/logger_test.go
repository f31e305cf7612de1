package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

func TestNew_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "info", Service: "inventario-sedes", Out: &buf})

	comp := l.Component("ledger")
	comp.Info().Str("product_id", "p1").Msg("ajuste")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "inventario-sedes", line["service"])
	assert.Equal(t, "ledger", line["component"])
	assert.Equal(t, "p1", line["product_id"])
}

func TestNew_NivelFiltra(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "warn", Out: &buf})

	l.Info().Msg("oculto")
	assert.Zero(t, buf.Len())
	l.Warn().Msg("visible")
	assert.NotZero(t, buf.Len())
}
