package entity

// Roles válidos en el token emitido por el proveedor de identidad.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleTecnico   = "tecnico"
)

// Actor identidad del usuario que ejecuta una operación (tomada del bearer token).
type Actor struct {
	UserID string
	Email  string
	Role   string
}
