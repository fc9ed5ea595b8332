package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/approval"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// exportPageSize tamaño de página al recorrer el historial completo para exportarlo.
const exportPageSize = 500

// UseCase arma los datos de cada reporte y delega el formato a los generadores.
type UseCase struct {
	engine    *approval.Engine
	recorder  *inventory.MovementRecorder
	ledger    *inventory.StockLedger
	items     repository.ItemRepository
	locations repository.LocationRepository
	pdf       PDFGenerator
	sheets    SpreadsheetGenerator
	now       func() time.Time
}

// NewUseCase construye el caso de uso inyectando sus dependencias.
func NewUseCase(
	engine *approval.Engine,
	recorder *inventory.MovementRecorder,
	ledger *inventory.StockLedger,
	items repository.ItemRepository,
	locations repository.LocationRepository,
	pdf PDFGenerator,
	sheets SpreadsheetGenerator,
) *UseCase {
	return &UseCase{
		engine:    engine,
		recorder:  recorder,
		ledger:    ledger,
		items:     items,
		locations: locations,
		pdf:       pdf,
		sheets:    sheets,
		now:       time.Now,
	}
}

// RequestPDF genera el PDF de una solicitud visible para el actor.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la solicitud no existe.
//   - domain.ErrForbidden        si un técnico pide una solicitud ajena.
func (uc *UseCase) RequestPDF(ctx context.Context, actor entity.Actor, requestID string) ([]byte, string, error) {
	req, err := uc.engine.Get(ctx, requestID, actor)
	if err != nil {
		return nil, "", err
	}
	doc := RequestDocument{Request: req, Items: make(map[string]*entity.Item, len(req.Items))}
	for _, l := range req.Items {
		item, err := uc.items.GetByID(ctx, l.ItemID)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: obtener item: %w", err)
		}
		doc.Items[l.ItemID] = item
	}
	if req.FulfillmentLocationID != "" {
		loc, err := uc.locations.GetByID(ctx, req.FulfillmentLocationID)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: obtener ubicación: %w", err)
		}
		doc.Location = loc
	}
	out, err := uc.pdf.GenerateRequestPDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return out, fmt.Sprintf("solicitud_%s.pdf", req.Folio), nil
}

// ItemLabel genera la etiqueta imprimible con el código QR del item.
func (uc *UseCase) ItemLabel(ctx context.Context, itemID string) ([]byte, string, error) {
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, "", err
	}
	if item == nil {
		return nil, "", fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}
	out, err := uc.pdf.GenerateItemLabel(ctx, item)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: etiqueta: %w", err)
	}
	return out, fmt.Sprintf("qr_%s.pdf", item.Code), nil
}

// BalancesXLSX exporta los balances actuales (opcionalmente de una sola ubicación).
func (uc *UseCase) BalancesXLSX(ctx context.Context, locationID string) ([]byte, string, error) {
	balances, err := uc.ledger.List(ctx, repository.BalanceFilter{LocationID: locationID})
	if err != nil {
		return nil, "", err
	}
	locations, err := uc.locationIndex(ctx)
	if err != nil {
		return nil, "", err
	}
	items := make(map[string]*entity.Item)
	rows := make([]BalanceRow, 0, len(balances))
	for _, b := range balances {
		item, ok := items[b.ItemID]
		if !ok {
			if item, err = uc.items.GetByID(ctx, b.ItemID); err != nil {
				return nil, "", err
			}
			items[b.ItemID] = item
		}
		row := BalanceRow{Quantity: b.Quantity, UpdatedAt: b.UpdatedAt, LocationCode: b.LocationID}
		if item != nil {
			row.ItemCode = item.Code
			row.ItemDescription = item.Description
			row.Category = item.Category
		}
		if loc := locations[b.LocationID]; loc != nil {
			row.LocationCode = loc.Code
			row.LocationName = loc.Name
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ItemCode != rows[j].ItemCode {
			return rows[i].ItemCode < rows[j].ItemCode
		}
		return rows[i].LocationCode < rows[j].LocationCode
	})
	out, err := uc.sheets.BalancesSheet(ctx, rows)
	if err != nil {
		return nil, "", fmt.Errorf("xlsx: balances: %w", err)
	}
	return out, fmt.Sprintf("inventario_%s.xlsx", uc.now().Format("20060102_150405")), nil
}

// MovementsXLSX exporta el historial completo de un item (más reciente primero).
func (uc *UseCase) MovementsXLSX(ctx context.Context, itemID string) ([]byte, string, error) {
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, "", err
	}
	if item == nil {
		return nil, "", fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}
	locations, err := uc.locationIndex(ctx)
	if err != nil {
		return nil, "", err
	}
	var rows []MovementRow
	for offset := 0; ; offset += exportPageSize {
		page, total, err := uc.recorder.History(ctx, itemID, exportPageSize, offset)
		if err != nil {
			return nil, "", err
		}
		for _, m := range page {
			row := MovementRow{Movement: m}
			if loc := locations[m.LocationID]; loc != nil {
				row.LocationName = loc.Name
			}
			if loc := locations[m.CounterpartLocationID]; loc != nil {
				row.CounterpartLocation = loc.Name
			}
			rows = append(rows, row)
		}
		if len(page) < exportPageSize || offset+len(page) >= total {
			break
		}
	}
	out, err := uc.sheets.MovementsSheet(ctx, item, rows)
	if err != nil {
		return nil, "", fmt.Errorf("xlsx: movimientos: %w", err)
	}
	return out, fmt.Sprintf("movimientos_%s.xlsx", item.Code), nil
}

func (uc *UseCase) locationIndex(ctx context.Context) (map[string]*entity.Location, error) {
	list, err := uc.locations.List(ctx, repository.LocationFilter{})
	if err != nil {
		return nil, err
	}
	idx := make(map[string]*entity.Location, len(list))
	for _, l := range list {
		idx[l.ID] = l
	}
	return idx, nil
}
