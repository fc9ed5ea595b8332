package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN       = "IN"       // entrada
	MovementTypeOUT      = "OUT"      // salida
	MovementTypeADJUST   = "ADJUST"   // ajuste a un valor absoluto
	MovementTypeTRANSFER = "TRANSFER" // traslado entre ubicaciones (dos piernas)
)

// Dirección de cada pierna de un traslado.
const (
	DirectionIN  = "IN"
	DirectionOUT = "OUT"
)

// Movement es un registro inmutable de auditoría de un cambio de balance.
// Quantity es el efecto con signo sobre el balance; ResultingBalance el balance después del movimiento.
// Las dos piernas de un TRANSFER comparten CorrelationID.
type Movement struct {
	ID                    string
	CorrelationID         string
	Type                  string
	Direction             string // IN/OUT; en TRANSFER indica la pierna
	ItemID                string
	LocationID            string
	CounterpartLocationID string // solo TRANSFER
	Quantity              decimal.Decimal
	ResultingBalance      decimal.Decimal
	Actor                 string
	Comment               string
	Reference             string // folio de solicitud de material, si aplica
	CreatedAt             time.Time
}
