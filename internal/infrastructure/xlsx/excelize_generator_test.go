package xlsx_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/almacen-api/internal/application/report"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/xlsx"
)

func TestBalancesSheet(t *testing.T) {
	rows := []report.BalanceRow{
		{ItemCode: "CAB-12", ItemDescription: "Cable", LocationCode: "BOD", LocationName: "Bodega", Quantity: decimal.RequireFromString("12.5"), UpdatedAt: time.Now()},
		{ItemCode: "TUB-1", ItemDescription: "Tubo", LocationCode: "TAL", LocationName: "Taller", Quantity: decimal.NewFromInt(3), UpdatedAt: time.Now()},
	}
	out, err := xlsx.NewGenerator().BalancesSheet(context.Background(), rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	got, err := f.GetRows("Inventario")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Código", got[0][0])
	assert.Equal(t, "CAB-12", got[1][0])
	assert.Equal(t, "12.5", got[1][5])
	assert.Equal(t, "Taller", got[2][4])
}

func TestMovementsSheet(t *testing.T) {
	item := &entity.Item{ID: "I1", Code: "CAB-12"}
	rows := []report.MovementRow{
		{Movement: &entity.Movement{
			Type: entity.MovementTypeTRANSFER, Direction: entity.DirectionOUT, LocationID: "A", CounterpartLocationID: "B",
			Quantity: decimal.NewFromInt(-4), ResultingBalance: decimal.NewFromInt(6), Actor: "bod-1", CorrelationID: "c1",
			CreatedAt: time.Now(),
		}, LocationName: "Bodega"},
	}
	out, err := xlsx.NewGenerator().MovementsSheet(context.Background(), item, rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	got, err := f.GetRows("CAB-12")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "TRANSFER", got[1][1])
	assert.Equal(t, "Bodega", got[1][3])
	assert.Equal(t, "B", got[1][4])
	assert.Equal(t, "-4", got[1][5])
}
