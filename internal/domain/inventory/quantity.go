package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
)

// QuantityScale decimales que guarda el ledger (columnas NUMERIC(18,4)).
const QuantityScale = 4

// CheckScale rechaza cantidades con más decimales significativos que QuantityScale.
// Balances y total se persisten por separado: si la base redondeara cada uno por su
// cuenta, total == Σ balances dejaría de cumplirse.
func CheckScale(field string, q decimal.Decimal) error {
	if !q.Equal(q.Truncate(QuantityScale)) {
		return domain.NewValidationError(field, fmt.Sprintf("admite como máximo %d decimales", QuantityScale))
	}
	return nil
}
