package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de preset (plantillas de requisición).
const (
	PresetTypeMantenimientoGeneral = "MANTENIMIENTO_GENERAL"
	PresetTypeInstalacionMinisplit = "INSTALACION_MINISPLIT"
	PresetTypeReparacionUrgente    = "REPARACION_URGENTE"
	PresetTypeLimpiezaPreventiva   = "LIMPIEZA_PREVENTIVA"
	PresetTypeOtro                 = "OTRO"
)

// ValidPresetType indica si t es un tipo de preset conocido.
func ValidPresetType(t string) bool {
	switch t {
	case PresetTypeMantenimientoGeneral, PresetTypeInstalacionMinisplit,
		PresetTypeReparacionUrgente, PresetTypeLimpiezaPreventiva, PresetTypeOtro:
		return true
	}
	return false
}

// Preset plantilla mutable con una lista ordenada de (item, cantidad, notas).
// Editarla no altera las solicitudes creadas antes: se copia por valor al expandir.
type Preset struct {
	ID          string
	Name        string
	Type        string
	Description string
	Active      bool
	Items       []PresetItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PresetItem línea de un preset.
type PresetItem struct {
	ItemID   string
	Quantity decimal.Decimal
	Notes    string
}
