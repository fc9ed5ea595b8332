package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryBalance es el stock de un item en una ubicación (Item × Location).
// Se crea de forma perezosa con el primer movimiento hacia el par; nunca es negativo.
type InventoryBalance struct {
	ItemID     string
	LocationID string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}
