package preset

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// UsageStat uso de un preset: cuántas solicitudes lo usaron, cuántas se modificaron y cuántas
// se aprobaron. Las tasas son porcentajes con dos decimales.
type UsageStat struct {
	PresetID         string
	PresetName       string
	PresetType       string
	TotalUsage       int
	ModifiedUsage    int
	ApprovedUsage    int
	ModificationRate decimal.Decimal
	ApprovalRate     decimal.Decimal
}

// GlobalStats solicitudes totales vs. originadas en preset.
type GlobalStats struct {
	TotalRequests      int
	RequestsFromPreset int
	ManualRequests     int
	PresetUsageRate    decimal.Decimal
}

// TopItem item más pedido a través de presets.
type TopItem struct {
	ItemID        string
	Code          string
	Description   string
	TotalQuantity decimal.Decimal
	RequestCount  int
}

// PeriodStats uso de presets en un rango de fechas.
type PeriodStats struct {
	Start  time.Time
	End    time.Time
	Global GlobalStats
	Usage  []UsageStat
}

// Usage estadísticas por preset (incluye inactivos), en orden de uso descendente.
func (s *Service) Usage(ctx context.Context, from, to *time.Time) ([]UsageStat, GlobalStats, error) {
	reqs, err := s.requests.List(ctx, repository.MaterialRequestFilter{From: from, To: to})
	if err != nil {
		return nil, GlobalStats{}, err
	}
	presets, err := s.presets.List(ctx, true)
	if err != nil {
		return nil, GlobalStats{}, err
	}
	byID := make(map[string]*UsageStat, len(presets))
	for _, p := range presets {
		byID[p.ID] = &UsageStat{PresetID: p.ID, PresetName: p.Name, PresetType: p.Type}
	}

	global := GlobalStats{TotalRequests: len(reqs)}
	for _, r := range reqs {
		if r.PresetID == "" {
			global.ManualRequests++
			continue
		}
		global.RequestsFromPreset++
		st, ok := byID[r.PresetID]
		if !ok {
			st = &UsageStat{PresetID: r.PresetID}
			byID[r.PresetID] = st
		}
		st.TotalUsage++
		if r.ModifiedFromPreset {
			st.ModifiedUsage++
		}
		if wasApproved(r.Status) {
			st.ApprovedUsage++
		}
	}
	global.PresetUsageRate = rate(global.RequestsFromPreset, global.TotalRequests)

	out := make([]UsageStat, 0, len(byID))
	for _, st := range byID {
		st.ModificationRate = rate(st.ModifiedUsage, st.TotalUsage)
		st.ApprovalRate = rate(st.ApprovedUsage, st.TotalUsage)
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalUsage != out[j].TotalUsage {
			return out[i].TotalUsage > out[j].TotalUsage
		}
		return out[i].PresetName < out[j].PresetName
	})
	return out, global, nil
}

// TopItems items más solicitados en solicitudes originadas en preset (por cantidad total).
func (s *Service) TopItems(ctx context.Context, limit int) ([]TopItem, error) {
	if limit <= 0 {
		limit = 10
	}
	reqs, err := s.requests.List(ctx, repository.MaterialRequestFilter{})
	if err != nil {
		return nil, err
	}
	acc := make(map[string]*TopItem)
	for _, r := range reqs {
		if r.PresetID == "" {
			continue
		}
		for _, it := range r.Items {
			t, ok := acc[it.ItemID]
			if !ok {
				t = &TopItem{ItemID: it.ItemID, TotalQuantity: decimal.Zero}
				acc[it.ItemID] = t
			}
			t.TotalQuantity = t.TotalQuantity.Add(it.QuantityRequested)
			t.RequestCount++
		}
	}
	out := make([]TopItem, 0, len(acc))
	for _, t := range acc {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalQuantity.Equal(out[j].TotalQuantity) {
			return out[i].TotalQuantity.GreaterThan(out[j].TotalQuantity)
		}
		return out[i].ItemID < out[j].ItemID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		item, err := s.items.GetByID(ctx, out[i].ItemID)
		if err != nil {
			return nil, err
		}
		if item != nil {
			out[i].Code = item.Code
			out[i].Description = item.Description
		}
	}
	return out, nil
}

// Period uso de presets entre start y end (inclusive).
func (s *Service) Period(ctx context.Context, start, end time.Time) (*PeriodStats, error) {
	if start.IsZero() || end.IsZero() {
		return nil, domain.NewValidationError("start_date", "start_date y end_date son obligatorios")
	}
	if end.Before(start) {
		return nil, domain.NewValidationError("end_date", "debe ser posterior a start_date")
	}
	usage, global, err := s.Usage(ctx, &start, &end)
	if err != nil {
		return nil, err
	}
	return &PeriodStats{Start: start, End: end, Global: global, Usage: usage}, nil
}

func wasApproved(status string) bool {
	switch status {
	case entity.RequestStatusApproved, entity.RequestStatusDelivered, entity.RequestStatusPartial:
		return true
	}
	return false
}

func rate(part, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(total))).Round(2)
}
