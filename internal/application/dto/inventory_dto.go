package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementRequest body para POST /api/inventory/in, /out y /adjust.
// En adjust, Quantity es el valor absoluto final (>= 0).
type MovementRequest struct {
	ItemID     string          `json:"item_id" validate:"required"`
	LocationID string          `json:"location_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
	Comment    string          `json:"comment" validate:"max=500"`
}

// TransferRequest body para POST /api/inventory/transfer.
type TransferRequest struct {
	ItemID         string          `json:"item_id" validate:"required"`
	FromLocationID string          `json:"from_location_id" validate:"required"`
	ToLocationID   string          `json:"to_location_id" validate:"required,nefield=FromLocationID"`
	Quantity       decimal.Decimal `json:"quantity"`
	Comment        string          `json:"comment" validate:"max=500"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID                    string          `json:"id"`
	CorrelationID         string          `json:"correlation_id"`
	Type                  string          `json:"type"`
	Direction             string          `json:"direction"`
	ItemID                string          `json:"item_id"`
	LocationID            string          `json:"location_id"`
	CounterpartLocationID string          `json:"counterpart_location_id,omitempty"`
	Quantity              decimal.Decimal `json:"quantity"`
	ResultingBalance      decimal.Decimal `json:"resulting_balance"`
	Actor                 string          `json:"actor"`
	Comment               string          `json:"comment,omitempty"`
	Reference             string          `json:"reference,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
}

// BalanceResponse balance de un item en una ubicación.
type BalanceResponse struct {
	ItemID       string          `json:"item_id"`
	LocationID   string          `json:"location_id"`
	LocationCode string          `json:"location_code,omitempty"`
	LocationName string          `json:"location_name,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ItemBalancesResponse balances de un item en todas sus ubicaciones.
// Consistent=false indica una falla de integridad (total del item != suma de balances).
type ItemBalancesResponse struct {
	ItemID         string            `json:"item_id"`
	ItemCode       string            `json:"item_code"`
	Description    string            `json:"description"`
	TotalInventory decimal.Decimal   `json:"total_inventory"`
	Balances       []BalanceResponse `json:"balances"`
	Consistent     bool              `json:"consistent"`
}

// MovementResultResponse respuesta de IN/OUT/ADJUST: el movimiento y el estado autoritativo posterior.
type MovementResultResponse struct {
	Movement MovementResponse     `json:"movement"`
	Item     ItemBalancesResponse `json:"item"`
}

// TransferResultResponse respuesta de TRANSFER: las dos piernas y los balances posteriores.
type TransferResultResponse struct {
	Out  MovementResponse     `json:"out"`
	In   MovementResponse     `json:"in"`
	Item ItemBalancesResponse `json:"item"`
}

// BalanceListRequest filtros de GET /api/inventory.
type BalanceListRequest struct {
	ItemID      string `query:"item_id"`
	LocationID  string `query:"location_id"`
	IncludeZero bool   `query:"include_zero"`
}

// MovementListResponse historial paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
