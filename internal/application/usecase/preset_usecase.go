package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/preset"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// PresetUseCase adapta los DTOs HTTP al servicio de presets.
type PresetUseCase struct {
	svc *preset.Service
}

// NewPresetUseCase construye el caso de uso.
func NewPresetUseCase(svc *preset.Service) *PresetUseCase {
	return &PresetUseCase{svc: svc}
}

// Create crea un preset.
func (uc *PresetUseCase) Create(ctx context.Context, in dto.PresetRequest) (*dto.PresetResponse, error) {
	p, err := uc.svc.Create(ctx, toPresetInput(in))
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, p.ID)
}

// Update reemplaza cabecera y líneas del preset.
func (uc *PresetUseCase) Update(ctx context.Context, id string, in dto.PresetRequest) (*dto.PresetResponse, error) {
	if _, err := uc.svc.Update(ctx, id, toPresetInput(in)); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Deactivate desactiva el preset. Las solicitudes que lo referencian conservan la procedencia.
func (uc *PresetUseCase) Deactivate(ctx context.Context, id string) (*dto.PresetResponse, error) {
	if _, err := uc.svc.Deactivate(ctx, id); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// GetByID devuelve el preset con el detalle de sus items.
func (uc *PresetUseCase) GetByID(ctx context.Context, id string) (*dto.PresetResponse, error) {
	d, err := uc.svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toPresetResponse(d.Preset)
	out.Items = make([]dto.PresetItemResponse, 0, len(d.Lines))
	for _, l := range d.Lines {
		active := l.Active
		out.Items = append(out.Items, dto.PresetItemResponse{
			ItemID:          l.ItemID,
			ItemCode:        l.Code,
			ItemDescription: l.Description,
			ItemActive:      &active,
			Quantity:        l.Quantity,
			Notes:           l.Notes,
		})
	}
	return &out, nil
}

// List lista presets (solo activos salvo includeInactive).
func (uc *PresetUseCase) List(ctx context.Context, includeInactive bool) ([]dto.PresetResponse, error) {
	list, err := uc.svc.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PresetResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPresetResponse(p))
	}
	return out, nil
}

// Expand devuelve el borrador editable de un preset activo.
func (uc *PresetUseCase) Expand(ctx context.Context, id string) (*dto.PresetExpandResponse, error) {
	lines, err := uc.svc.Expand(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &dto.PresetExpandResponse{PresetID: id, Items: make([]dto.PresetDraftLine, 0, len(lines))}
	for _, l := range lines {
		out.Items = append(out.Items, dto.PresetDraftLine{ItemID: l.ItemID, Quantity: l.Quantity, Notes: l.Notes})
	}
	return out, nil
}

// Usage estadísticas de uso por preset y globales.
func (uc *PresetUseCase) Usage(ctx context.Context) (*dto.PresetStatsResponse, error) {
	usage, global, err := uc.svc.Usage(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	return toPresetStatsResponse(usage, global, nil, nil), nil
}

// Period estadísticas de uso en un rango de fechas.
func (uc *PresetUseCase) Period(ctx context.Context, start, end time.Time) (*dto.PresetStatsResponse, error) {
	st, err := uc.svc.Period(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return toPresetStatsResponse(st.Usage, st.Global, &st.Start, &st.End), nil
}

// TopItems items más pedidos vía presets.
func (uc *PresetUseCase) TopItems(ctx context.Context, limit int) ([]dto.TopItemResponse, error) {
	list, err := uc.svc.TopItems(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TopItemResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.TopItemResponse{
			ItemID:        t.ItemID,
			ItemCode:      t.Code,
			Description:   t.Description,
			TotalQuantity: t.TotalQuantity,
			RequestCount:  t.RequestCount,
		})
	}
	return out, nil
}

func toPresetInput(in dto.PresetRequest) preset.Input {
	out := preset.Input{
		Name:        in.Name,
		Type:        in.Type,
		Description: in.Description,
		Active:      in.Active,
		Items:       make([]preset.Line, 0, len(in.Items)),
	}
	for _, l := range in.Items {
		out.Items = append(out.Items, preset.Line{ItemID: l.ItemID, Quantity: l.Quantity, Notes: l.Notes})
	}
	return out
}

func toPresetResponse(p *entity.Preset) dto.PresetResponse {
	out := dto.PresetResponse{
		ID:          p.ID,
		Name:        p.Name,
		Type:        p.Type,
		Description: p.Description,
		Active:      p.Active,
		Items:       make([]dto.PresetItemResponse, 0, len(p.Items)),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, it := range p.Items {
		out.Items = append(out.Items, dto.PresetItemResponse{ItemID: it.ItemID, Quantity: it.Quantity, Notes: it.Notes})
	}
	return out
}

func toPresetStatsResponse(usage []preset.UsageStat, global preset.GlobalStats, start, end *time.Time) *dto.PresetStatsResponse {
	out := &dto.PresetStatsResponse{
		StartDate: start,
		EndDate:   end,
		Global: dto.PresetGlobalStatsResponse{
			TotalRequests:      global.TotalRequests,
			RequestsFromPreset: global.RequestsFromPreset,
			ManualRequests:     global.ManualRequests,
			PresetUsageRate:    global.PresetUsageRate,
		},
		Presets: make([]dto.PresetUsageResponse, 0, len(usage)),
	}
	for _, u := range usage {
		out.Presets = append(out.Presets, dto.PresetUsageResponse{
			PresetID:         u.PresetID,
			PresetName:       u.PresetName,
			PresetType:       u.PresetType,
			TotalUsage:       u.TotalUsage,
			ModifiedUsage:    u.ModifiedUsage,
			ApprovedUsage:    u.ApprovedUsage,
			ModificationRate: u.ModificationRate,
			ApprovalRate:     u.ApprovalRate,
		})
	}
	return out
}
