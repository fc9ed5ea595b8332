// Package xlsx exporta balances e historial de movimientos a hojas de cálculo con excelize.
package xlsx

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/almacen-api/internal/application/report"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

const timeLayout = "2006-01-02 15:04:05"

var _ report.SpreadsheetGenerator = (*Generator)(nil)

// Generator implementa report.SpreadsheetGenerator.
type Generator struct{}

// NewGenerator construye el generador.
func NewGenerator() *Generator { return &Generator{} }

// BalancesSheet una fila por (item, ubicación) con su cantidad actual.
func (g *Generator) BalancesSheet(_ context.Context, rows []report.BalanceRow) ([]byte, error) {
	header := []interface{}{"Código", "Descripción", "Categoría", "Ubicación", "Nombre ubicación", "Cantidad", "Actualizado"}
	data := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		qty, _ := r.Quantity.Float64()
		data = append(data, []interface{}{
			r.ItemCode,
			r.ItemDescription,
			r.Category,
			r.LocationCode,
			r.LocationName,
			qty,
			r.UpdatedAt.Format(timeLayout),
		})
	}
	return write("Inventario", header, data)
}

// MovementsSheet historial de un item; la cantidad lleva signo (salidas negativas).
func (g *Generator) MovementsSheet(_ context.Context, item *entity.Item, rows []report.MovementRow) ([]byte, error) {
	header := []interface{}{"Fecha", "Tipo", "Dirección", "Ubicación", "Contraparte", "Cantidad", "Saldo", "Usuario", "Referencia", "Comentario", "Correlación"}
	data := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		m := r.Movement
		qty, _ := m.Quantity.Float64()
		bal, _ := m.ResultingBalance.Float64()
		data = append(data, []interface{}{
			m.CreatedAt.Format(timeLayout),
			m.Type,
			m.Direction,
			nonEmpty(r.LocationName, m.LocationID),
			nonEmpty(r.CounterpartLocation, m.CounterpartLocationID),
			qty,
			bal,
			m.Actor,
			m.Reference,
			m.Comment,
			m.CorrelationID,
		})
	}
	return write(sheetName(item.Code), header, data)
}

func write(sheet string, header []interface{}, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheet); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("xlsx: encabezado: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetName excel limita el nombre de hoja a 31 caracteres.
func sheetName(s string) string {
	if s == "" {
		return "Movimientos"
	}
	if r := []rune(s); len(r) > 31 {
		return string(r[:31])
	}
	return s
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
