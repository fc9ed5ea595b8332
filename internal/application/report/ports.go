// Package report genera los documentos descargables: PDF de solicitudes, etiquetas QR de items
// y hojas de cálculo de balances e historial de movimientos.
package report

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// RequestDocument datos de una solicitud de material listos para imprimir.
type RequestDocument struct {
	Request  *entity.MaterialRequest
	Items    map[string]*entity.Item
	Location *entity.Location // ubicación de despacho; nil mientras está PENDING
}

// BalanceRow fila del reporte de balances.
type BalanceRow struct {
	ItemCode        string
	ItemDescription string
	Category        string
	LocationCode    string
	LocationName    string
	Quantity        decimal.Decimal
	UpdatedAt       time.Time
}

// MovementRow fila del historial de movimientos.
type MovementRow struct {
	Movement            *entity.Movement
	LocationName        string
	CounterpartLocation string
}

// PDFGenerator puerto para los documentos PDF (implementado con maroto).
type PDFGenerator interface {
	GenerateRequestPDF(ctx context.Context, doc RequestDocument) ([]byte, error)
	GenerateItemLabel(ctx context.Context, item *entity.Item) ([]byte, error)
}

// SpreadsheetGenerator puerto para las exportaciones XLSX (implementado con excelize).
type SpreadsheetGenerator interface {
	BalancesSheet(ctx context.Context, rows []BalanceRow) ([]byte, error)
	MovementsSheet(ctx context.Context, item *entity.Item, rows []MovementRow) ([]byte, error)
}
