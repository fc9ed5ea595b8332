package dto

import "time"

// CreateLocationRequest entrada para crear una ubicación.
type CreateLocationRequest struct {
	Code    string `json:"code" validate:"required,min=1,max=50"`
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Type    string `json:"type" validate:"required,oneof=WAREHOUSE WORKSHOP OFFICE BRANCH OTHER"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// UpdateLocationRequest entrada para actualizar una ubicación (incluye activar/desactivar).
type UpdateLocationRequest struct {
	Code    *string `json:"code" validate:"omitempty,min=1,max=50"`
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Type    *string `json:"type" validate:"omitempty,oneof=WAREHOUSE WORKSHOP OFFICE BRANCH OTHER"`
	Status  *string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

// LocationListRequest filtros de listado (query).
type LocationListRequest struct {
	PageRequest
	Search string `query:"search"`
	Type   string `query:"type" validate:"omitempty,oneof=WAREHOUSE WORKSHOP OFFICE BRANCH OTHER"`
	Status string `query:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocationListResponse lista paginada de ubicaciones.
type LocationListResponse struct {
	Items []LocationResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
