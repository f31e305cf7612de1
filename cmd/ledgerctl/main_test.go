package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/pkg/jwt"
)

func TestToken_SoloElTokenVaAStdout(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "secreto-de-pruebas")

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	require.NoError(t, app.Run([]string{"ledgerctl", "token", "--user", "u-42", "--role", "bodeguero", "--minutes", "5"}))

	tok := strings.TrimSpace(out.String())
	assert.NotContains(t, tok, "\n")
	userID, role, err := jwt.Parse("secreto-de-pruebas", tok)
	require.NoError(t, err)
	assert.Equal(t, "u-42", userID)
	assert.Equal(t, "bodeguero", role)
}

func TestToken_SinUsuarioFalla(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}
	app.ErrWriter = &bytes.Buffer{}
	assert.Error(t, app.Run([]string{"ledgerctl", "token"}))
}
