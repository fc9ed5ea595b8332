// Package memory implementa los puertos de persistencia en memoria. Se usa en tests y
// con STORE=memory para desarrollo local sin PostgreSQL.
//
// El estado publicado nunca se modifica en sitio: cada escritura trabaja sobre una copia
// y la reemplaza. Una transacción toma su copia al empezar, sin retener ningún lock, y
// registra cada escritura como una operación. En el commit las operaciones se vuelven a
// aplicar sobre el estado vigente bajo el lock de escritura, de modo que transacciones
// sobre pares distintos no se esperan entre sí. La exclusión por par la da el Locker de
// la capa de aplicación, igual que con PostgreSQL.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	domaininv "github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var errReadOnly = errors.New("memory: escritura en transacción de solo lectura")

// op escritura (o verificación) diferida de una transacción.
type op func(st *state) error

type state struct {
	items      map[string]entity.Item
	locations  map[string]entity.Location
	balances   map[domaininv.Pair]entity.InventoryBalance
	movements  []entity.Movement
	requests   map[string]entity.MaterialRequest
	requestSeq int
	presets    map[string]entity.Preset
	tickets    map[string]entity.Ticket

	// solo en copias de transacción
	readOnly bool
	redo     []op
}

func newState() *state {
	return &state{
		items:     make(map[string]entity.Item),
		locations: make(map[string]entity.Location),
		balances:  make(map[domaininv.Pair]entity.InventoryBalance),
		requests:  make(map[string]entity.MaterialRequest),
		presets:   make(map[string]entity.Preset),
		tickets:   make(map[string]entity.Ticket),
	}
}

func (s *state) clone() *state {
	c := &state{
		items:      make(map[string]entity.Item, len(s.items)),
		locations:  make(map[string]entity.Location, len(s.locations)),
		balances:   make(map[domaininv.Pair]entity.InventoryBalance, len(s.balances)),
		movements:  s.movements[:len(s.movements):len(s.movements)],
		requests:   make(map[string]entity.MaterialRequest, len(s.requests)),
		requestSeq: s.requestSeq,
		presets:    make(map[string]entity.Preset, len(s.presets)),
		tickets:    make(map[string]entity.Ticket, len(s.tickets)),
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	// Las líneas de solicitudes y presets se copian al escribir, nunca se mutan en sitio.
	for k, v := range s.requests {
		c.requests[k] = v
	}
	for k, v := range s.presets {
		c.presets[k] = v
	}
	for k, v := range s.tickets {
		c.tickets[k] = v
	}
	return c
}

// Store estado compartido del backend en memoria.
type Store struct {
	mu   sync.RWMutex
	data *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

func (s *Store) snapshot() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func (s *Store) view(tx *state, fn func(st *state) error) error {
	if tx != nil {
		return fn(tx)
	}
	return fn(s.snapshot())
}

// update aplica fn. Fuera de una tx se publica de inmediato; dentro, se aplica a la copia
// de la tx (para que ella misma lea lo que escribió) y se agenda para el commit.
func (s *Store) update(tx *state, fn op) error {
	if tx != nil {
		if tx.readOnly {
			return errReadOnly
		}
		if err := fn(tx); err != nil {
			return err
		}
		tx.redo = append(tx.redo, fn)
		return nil
	}
	return s.commit([]op{fn})
}

// guard agenda una verificación que se evalúa otra vez sobre el estado vigente en el commit.
func (s *Store) guard(tx *state, check op) {
	if tx != nil && !tx.readOnly {
		tx.redo = append(tx.redo, check)
	}
}

// commit aplica ops en orden sobre una copia del estado vigente y la publica si ninguna falla.
func (s *Store) commit(ops []op) error {
	if len(ops) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.data.clone()
	for _, fn := range ops {
		if err := fn(work); err != nil {
			return err
		}
	}
	s.data = work
	return nil
}

// Items repositorio de items fuera de transacción.
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

// Locations repositorio de ubicaciones.
func (s *Store) Locations() *LocationRepo { return &LocationRepo{s: s} }

// Balances repositorio de balances fuera de transacción.
func (s *Store) Balances() *BalanceRepo { return &BalanceRepo{s: s} }

// Movements repositorio de movimientos fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// Requests repositorio de solicitudes fuera de transacción.
func (s *Store) Requests() *MaterialRequestRepo { return &MaterialRequestRepo{s: s} }

// Presets repositorio de presets.
func (s *Store) Presets() *PresetRepo { return &PresetRepo{s: s} }

// Tickets repositorio de tickets.
func (s *Store) Tickets() *TicketRepo { return &TicketRepo{s: s} }

func (s *Store) txRepos(st *state) repository.Tx {
	return repository.Tx{
		Items:     &ItemRepo{s: s, tx: st},
		Locations: &LocationRepo{s: s, tx: st},
		Balances:  &BalanceRepo{s: s, tx: st},
		Movements: &MovementRepo{s: s, tx: st},
		Requests:  &MaterialRequestRepo{s: s, tx: st},
	}
}

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner transacciones sobre el Store.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn sobre una copia privada del estado. Si fn no falla, sus escrituras se
// aplican de nuevo sobre el estado vigente y se publican todas juntas.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	work := r.s.snapshot().clone()
	if err := fn(r.s.txRepos(work)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.s.commit(work.redo)
}

// ReadOnly ejecuta fn sobre la instantánea publicada al empezar. No bloquea a los escritores.
func (r *TxRunner) ReadOnly(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	snap := *r.s.snapshot()
	snap.readOnly = true
	return fn(r.s.txRepos(&snap))
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
