package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.PresetRepository = (*PresetRepo)(nil)

const presetColumns = `id, name, type, description, active, created_at, updated_at`

// PresetRepo implementación de PresetRepository. El nombre es único sin distinguir mayúsculas (índice sobre lower(name)).
type PresetRepo struct {
	q Querier
}

// NewPresetRepository construye el adaptador.
func NewPresetRepository(q Querier) *PresetRepo {
	return &PresetRepo{q: q}
}

func (r *PresetRepo) Create(ctx context.Context, p *entity.Preset) error {
	return atomic(ctx, r.q, func(q Querier) error {
		_, err := q.Exec(ctx, `
			INSERT INTO presets (id, name, type, description, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.ID, p.Name, p.Type, p.Description, p.Active, p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			return mapError("create preset", err)
		}
		return insertPresetItems(ctx, q, p)
	})
}

func (r *PresetRepo) GetByID(ctx context.Context, id string) (*entity.Preset, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.get(ctx, `SELECT `+presetColumns+` FROM presets WHERE id = $1`, id)
}

func (r *PresetRepo) GetByName(ctx context.Context, name string) (*entity.Preset, error) {
	return r.get(ctx, `SELECT `+presetColumns+` FROM presets WHERE lower(name) = lower($1)`, name)
}

func (r *PresetRepo) get(ctx context.Context, query, arg string) (*entity.Preset, error) {
	p, err := scanPreset(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get preset", err)
	}
	if err := r.loadItems(ctx, []*entity.Preset{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// Update reemplaza la cabecera y todas las líneas.
func (r *PresetRepo) Update(ctx context.Context, p *entity.Preset) error {
	return atomic(ctx, r.q, func(q Querier) error {
		tag, err := q.Exec(ctx, `
			UPDATE presets SET name = $2, type = $3, description = $4, active = $5, updated_at = $6
			WHERE id = $1`,
			p.ID, p.Name, p.Type, p.Description, p.Active, p.UpdatedAt,
		)
		if err != nil {
			return mapError("update preset", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("preset %s: %w", p.ID, domain.ErrNotFound)
		}
		if _, err := q.Exec(ctx, `DELETE FROM preset_items WHERE preset_id = $1`, p.ID); err != nil {
			return mapError("clear preset items", err)
		}
		return insertPresetItems(ctx, q, p)
	})
}

func (r *PresetRepo) List(ctx context.Context, includeInactive bool) ([]*entity.Preset, error) {
	query := `SELECT ` + presetColumns + ` FROM presets`
	if !includeInactive {
		query += ` WHERE active`
	}
	query += ` ORDER BY name`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, mapError("list presets", err)
	}
	list := []*entity.Preset{}
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			rows.Close()
			return nil, mapError("scan preset", err)
		}
		list = append(list, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, mapError("list presets", err)
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PresetRepo) loadItems(ctx context.Context, presets []*entity.Preset) error {
	if len(presets) == 0 {
		return nil
	}
	ids := make([]string, len(presets))
	byID := make(map[string]*entity.Preset, len(presets))
	for i, p := range presets {
		ids[i] = p.ID
		byID[p.ID] = p
	}
	rows, err := r.q.Query(ctx, `
		SELECT preset_id, item_id, quantity, notes
		FROM preset_items WHERE preset_id = ANY($1::uuid[])
		ORDER BY preset_id, position`, ids)
	if err != nil {
		return mapError("list preset items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			presetID string
			line     entity.PresetItem
		)
		if err := rows.Scan(&presetID, &line.ItemID, &line.Quantity, &line.Notes); err != nil {
			return mapError("scan preset item", err)
		}
		if p := byID[presetID]; p != nil {
			p.Items = append(p.Items, line)
		}
	}
	return rows.Err()
}

func insertPresetItems(ctx context.Context, q Querier, p *entity.Preset) error {
	for i, line := range p.Items {
		_, err := q.Exec(ctx, `
			INSERT INTO preset_items (preset_id, position, item_id, quantity, notes)
			VALUES ($1, $2, $3, $4, $5)`,
			p.ID, i, line.ItemID, line.Quantity, line.Notes,
		)
		if err != nil {
			return mapError("create preset item", err)
		}
	}
	return nil
}

func scanPreset(row pgx.Row) (*entity.Preset, error) {
	var p entity.Preset
	if err := row.Scan(&p.ID, &p.Name, &p.Type, &p.Description, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
