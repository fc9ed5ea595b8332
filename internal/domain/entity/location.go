package entity

import "time"

// Tipos de ubicación.
const (
	LocationTypeWarehouse = "WAREHOUSE"
	LocationTypeWorkshop  = "WORKSHOP"
	LocationTypeOffice    = "OFFICE"
	LocationTypeBranch    = "BRANCH"
	LocationTypeOther     = "OTHER"
)

// Estados de ubicación.
const (
	LocationStatusActive   = "ACTIVE"
	LocationStatusInactive = "INACTIVE"
)

// Location representa un almacén, taller, oficina o sucursal donde se guarda inventario.
// Una ubicación inactiva conserva sus balances históricos pero no recibe stock nuevo.
type Location struct {
	ID        string
	Code      string
	Name      string
	Type      string
	Status    string
	Address   string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive indica si la ubicación puede recibir stock.
func (l *Location) IsActive() bool { return l.Status == LocationStatusActive }

// ValidLocationType indica si t es un tipo de ubicación conocido.
func ValidLocationType(t string) bool {
	switch t {
	case LocationTypeWarehouse, LocationTypeWorkshop, LocationTypeOffice, LocationTypeBranch, LocationTypeOther:
		return true
	}
	return false
}

// ValidLocationStatus indica si s es un estado de ubicación conocido.
func ValidLocationStatus(s string) bool {
	return s == LocationStatusActive || s == LocationStatusInactive
}
