package entity

// Actor identifica a quien ejecuta una operación. Se pasa explícitamente a cada flujo
// para atribuir movimientos y registros de auditoría.
type Actor struct {
	UserID    string
	Role      string
	ClientIP  string
	UserAgent string
}

// Authenticated indica si hay un usuario identificado (los cambios del sistema no lo tienen).
func (a Actor) Authenticated() bool {
	return a.UserID != ""
}

// Roles reconocidos en el token.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
)
