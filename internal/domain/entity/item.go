package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estado operativo de un item del catálogo.
const (
	ItemStatusOperativo    = "OPERATIVO"
	ItemStatusEnReparacion = "EN_REPARACION"
	ItemStatusBaja         = "BAJA"
)

// Item representa un artículo del catálogo de almacén (multi-ubicación).
// TotalInventory es un agregado desnormalizado: siempre debe ser igual a la suma de
// sus InventoryBalance por ubicación. Solo lo modifica el ledger, en la misma transacción.
type Item struct {
	ID             string
	Code           string // código único
	Description    string
	Serial         string
	Category       string
	Process        string
	Status         string // OPERATIVO, EN_REPARACION, BAJA
	Active         bool   // false = baja lógica (tiene movimientos históricos)
	Observations   string
	QRCode         string
	TotalInventory decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidItemStatus indica si s es un estado operativo conocido.
func ValidItemStatus(s string) bool {
	switch s {
	case ItemStatusOperativo, ItemStatusEnReparacion, ItemStatusBaja:
		return true
	}
	return false
}
