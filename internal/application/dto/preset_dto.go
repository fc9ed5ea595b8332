package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PresetLine línea de un preset en la entrada.
type PresetLine struct {
	ItemID   string          `json:"item_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
	Notes    string          `json:"notes" validate:"max=500"`
}

// PresetRequest body para crear (POST) o reemplazar (PUT) un preset.
type PresetRequest struct {
	Name        string       `json:"name" validate:"required,min=1,max=200"`
	Type        string       `json:"type" validate:"required,oneof=MANTENIMIENTO_GENERAL INSTALACION_MINISPLIT REPARACION_URGENTE LIMPIEZA_PREVENTIVA OTRO"`
	Description string       `json:"description" validate:"max=1000"`
	Active      *bool        `json:"active"`
	Items       []PresetLine `json:"items" validate:"required,min=1,dive"`
}

// PresetItemResponse línea de un preset con datos del item.
type PresetItemResponse struct {
	ItemID          string          `json:"item_id"`
	ItemCode        string          `json:"item_code,omitempty"`
	ItemDescription string          `json:"item_description,omitempty"`
	ItemActive      *bool           `json:"item_active,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	Notes           string          `json:"notes,omitempty"`
}

// PresetResponse salida de un preset.
type PresetResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Type        string               `json:"type"`
	Description string               `json:"description"`
	Active      bool                 `json:"active"`
	Items       []PresetItemResponse `json:"items"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// PresetExpandResponse borrador expandido a partir del cual el usuario arma la solicitud.
type PresetExpandResponse struct {
	PresetID string            `json:"preset_id"`
	Items    []PresetDraftLine `json:"items"`
}

// PresetUsageResponse uso de un preset.
type PresetUsageResponse struct {
	PresetID         string          `json:"preset_id"`
	PresetName       string          `json:"preset_name"`
	PresetType       string          `json:"preset_type"`
	TotalUsage       int             `json:"total_usage"`
	ModifiedUsage    int             `json:"modified_usage"`
	ApprovedUsage    int             `json:"approved_usage"`
	ModificationRate decimal.Decimal `json:"modification_rate"`
	ApprovalRate     decimal.Decimal `json:"approval_rate"`
}

// PresetGlobalStatsResponse totales globales.
type PresetGlobalStatsResponse struct {
	TotalRequests      int             `json:"total_requests"`
	RequestsFromPreset int             `json:"requests_from_preset"`
	ManualRequests     int             `json:"manual_requests"`
	PresetUsageRate    decimal.Decimal `json:"preset_usage_rate"`
}

// PresetStatsResponse respuesta de GET /stats/usage y /stats/period.
type PresetStatsResponse struct {
	StartDate *time.Time                `json:"start_date,omitempty"`
	EndDate   *time.Time                `json:"end_date,omitempty"`
	Global    PresetGlobalStatsResponse `json:"global"`
	Presets   []PresetUsageResponse     `json:"presets"`
}

// TopItemResponse item más pedido vía presets.
type TopItemResponse struct {
	ItemID        string          `json:"item_id"`
	ItemCode      string          `json:"item_code"`
	Description   string          `json:"description"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	RequestCount  int             `json:"request_count"`
}
