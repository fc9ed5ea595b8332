package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un item del catálogo.
type CreateItemRequest struct {
	Code         string `json:"code" validate:"required,min=1,max=100"`
	Description  string `json:"description" validate:"required,min=1,max=500"`
	Serial       string `json:"serial" validate:"max=100"`
	Category     string `json:"category" validate:"max=100"`
	Process      string `json:"process" validate:"max=100"`
	Status       string `json:"status" validate:"omitempty,oneof=OPERATIVO EN_REPARACION BAJA"`
	Observations string `json:"observations"`
}

// UpdateItemRequest entrada para actualizar un item. El inventario no se edita aquí: solo vía movimientos.
type UpdateItemRequest struct {
	Code         *string `json:"code" validate:"omitempty,min=1,max=100"`
	Description  *string `json:"description" validate:"omitempty,min=1,max=500"`
	Serial       *string `json:"serial" validate:"omitempty,max=100"`
	Category     *string `json:"category" validate:"omitempty,max=100"`
	Process      *string `json:"process" validate:"omitempty,max=100"`
	Status       *string `json:"status" validate:"omitempty,oneof=OPERATIVO EN_REPARACION BAJA"`
	Active       *bool   `json:"active"`
	Observations *string `json:"observations"`
}

// ItemListRequest filtros de listado (query).
type ItemListRequest struct {
	PageRequest
	Search   string `query:"search"`
	Category string `query:"category"`
	Status   string `query:"status" validate:"omitempty,oneof=OPERATIVO EN_REPARACION BAJA"`
	Active   string `query:"active" validate:"omitempty,oneof=true false"`
}

// ItemResponse salida de un item.
type ItemResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Description    string          `json:"description"`
	Serial         string          `json:"serial"`
	Category       string          `json:"category"`
	Process        string          `json:"process"`
	Status         string          `json:"status"`
	Active         bool            `json:"active"`
	Observations   string          `json:"observations"`
	QRCode         string          `json:"qr_code"`
	TotalInventory decimal.Decimal `json:"total_inventory"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de items.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// DeleteItemResponse resultado de borrar un item: SoftDeleted=true si quedó inactivo por tener historial.
type DeleteItemResponse struct {
	ID          string `json:"id"`
	SoftDeleted bool   `json:"soft_deleted"`
}
