// Package preset implementa la expansión de plantillas de requisición y la detección
// de borradores modificados respecto de la plantilla.
package preset

import (
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Line línea de un borrador de solicitud.
type Line struct {
	ItemID   string
	Quantity decimal.Decimal
	Notes    string
}

// Expand copia por valor las líneas del preset en un borrador editable.
// El borrador no guarda referencias a la plantilla; solo el llamador conserva el ID como procedencia.
func Expand(p *entity.Preset) []Line {
	if p == nil {
		return nil
	}
	lines := make([]Line, 0, len(p.Items))
	for _, it := range p.Items {
		lines = append(lines, Line{ItemID: it.ItemID, Quantity: it.Quantity, Notes: it.Notes})
	}
	return lines
}

// Modified indica si el borrador difiere de la expansión original.
// Compara por identidad de item (no por posición): cambia si el conjunto de items difiere
// o si la cantidad total por item difiere. Las notas no cuentan como modificación.
func Modified(draft, original []Line) bool {
	a := quantitiesByItem(draft)
	b := quantitiesByItem(original)
	if len(a) != len(b) {
		return true
	}
	for id, qa := range a {
		qb, ok := b[id]
		if !ok || !qa.Equal(qb) {
			return true
		}
	}
	return false
}

func quantitiesByItem(lines []Line) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(lines))
	for _, l := range lines {
		m[l.ItemID] = m[l.ItemID].Add(l.Quantity)
	}
	return m
}
