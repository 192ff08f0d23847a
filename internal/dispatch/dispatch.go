// Package dispatch executes the state-changing turn actions behind the
// dashboard buttons: call, attend, cancel and call-next. Every successful
// action re-fetches the queue and the statistics views (two independent
// refreshes) and, for calls, hands the announcement to the speech layer.
// There are no optimistic updates: the UI shows whatever the next fetch
// returns.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/turnosuite/turnos-panel/internal/apiclient"
	"github.com/turnosuite/turnos-panel/internal/audit"
	"github.com/turnosuite/turnos-panel/internal/models"
	"github.com/turnosuite/turnos-panel/internal/notify"
	"github.com/turnosuite/turnos-panel/internal/queueview"
)

// Action names accepted by Dispatch. The queue actions come from
// queueview; Siguiente is the queue-level "call next" button.
const (
	Llamar    = queueview.ActionLlamar
	Atender   = queueview.ActionAtender
	Cancelar  = queueview.ActionCancelar
	Siguiente = queueview.Action("llamar_siguiente")
)

var (
	// ErrSinPendientes reports an empty queue on call-next. It is a
	// normal condition surfaced as a warning, never a failure page.
	ErrSinPendientes = errors.New("no hay turnos pendientes")

	// ErrConfirmacionRequerida rejects a cancel without the explicit
	// confirmation flag.
	ErrConfirmacionRequerida = errors.New("la cancelación requiere confirmación")

	// ErrAccionInvalida rejects an unknown action name.
	ErrAccionInvalida = errors.New("acción desconocida")

	// ErrAccionNoPermitida rejects an action the turn's status does not
	// admit.
	ErrAccionNoPermitida = errors.New("acción no permitida para el estado del turno")
)

// API is the slice of the backend client the dispatcher drives.
type API interface {
	LlamarTurno(ctx context.Context, id int) (apiclient.Llamada, error)
	UpdateEstado(ctx context.Context, id int, estado string) (models.Turno, error)
	SiguienteTurno(ctx context.Context) (*models.ColaEntry, error)
}

// Announcer receives the voice phrase for a called turn.
type Announcer interface {
	Announce(turno models.Turno, mensaje string)
}

// Request identifies the turn an action applies to. EstadoActual, when
// known, lets the dispatcher re-check the action table server-side;
// Confirmado must be set for cancellations.
type Request struct {
	TurnoID      int
	EstadoActual string
	Confirmado   bool
}

type handlerFunc func(ctx context.Context, req Request) error

// Dispatcher maps action names to handlers.
type Dispatcher struct {
	api       API
	announcer Announcer
	notify    *notify.Center
	audit     *audit.Dispatcher
	log       zerolog.Logger

	refreshQueue func(ctx context.Context)
	refreshStats func(ctx context.Context)

	table map[queueview.Action]handlerFunc
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRefresh installs the view refresh hooks run after every successful
// action.
func WithRefresh(queue, stats func(ctx context.Context)) Option {
	return func(d *Dispatcher) {
		d.refreshQueue = queue
		d.refreshStats = stats
	}
}

// WithAudit records every successful action on the audit trail.
func WithAudit(trail *audit.Dispatcher) Option {
	return func(d *Dispatcher) {
		d.audit = trail
	}
}

func New(api API, announcer Announcer, center *notify.Center, logger zerolog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		api:       api,
		announcer: announcer,
		notify:    center,
		log:       logger.With().Str("component", "dispatch").Logger(),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.table = map[queueview.Action]handlerFunc{
		Llamar:    d.llamar,
		Atender:   d.atender,
		Cancelar:  d.cancelar,
		Siguiente: d.llamarSiguiente,
	}
	return d
}

// Dispatch runs one action by name.
func (d *Dispatcher) Dispatch(ctx context.Context, action queueview.Action, req Request) error {
	handler, ok := d.table[action]
	if !ok {
		return fmt.Errorf("%w: %q", ErrAccionInvalida, action)
	}

	// status gate, when the caller knows the current status
	if req.EstadoActual != "" && action != Siguiente {
		if !queueview.CanApply(action, req.EstadoActual) {
			return fmt.Errorf("%w: %s sobre %s", ErrAccionNoPermitida, action, req.EstadoActual)
		}
	}

	return handler(ctx, req)
}

// Actions returns the registered action names, for routing tables.
func (d *Dispatcher) Actions() []queueview.Action {
	out := make([]queueview.Action, 0, len(d.table))
	for action := range d.table {
		out = append(out, action)
	}
	return out
}

func (d *Dispatcher) llamar(ctx context.Context, req Request) error {
	llamada, err := d.api.LlamarTurno(ctx, req.TurnoID)
	if err != nil {
		return err
	}

	if d.announcer != nil {
		d.announcer.Announce(llamada.Turno, llamada.MensajeVoz)
	}
	d.notify.Success(fmt.Sprintf("Llamando turno %s", llamada.Turno.NumeroTurno))
	d.log.Info().Int("turno", req.TurnoID).Str("numero", llamada.Turno.NumeroTurno).Msg("turno llamado")
	d.registrar("turno_llamado", llamada.Turno.ID, map[string]any{"numero": llamada.Turno.NumeroTurno})

	d.refresh(ctx)
	return nil
}

func (d *Dispatcher) atender(ctx context.Context, req Request) error {
	turno, err := d.api.UpdateEstado(ctx, req.TurnoID, models.EstadoAtendido)
	if err != nil {
		return err
	}

	d.notify.Success("Turno marcado como atendido")
	d.log.Info().Int("turno", turno.ID).Msg("turno atendido")
	d.registrar("turno_atendido", turno.ID, nil)

	d.refresh(ctx)
	return nil
}

func (d *Dispatcher) cancelar(ctx context.Context, req Request) error {
	if !req.Confirmado {
		return ErrConfirmacionRequerida
	}

	turno, err := d.api.UpdateEstado(ctx, req.TurnoID, models.EstadoCancelado)
	if err != nil {
		return err
	}

	d.notify.Success("Turno cancelado correctamente")
	d.log.Info().Int("turno", turno.ID).Msg("turno cancelado")
	d.registrar("turno_cancelado", turno.ID, nil)

	d.refresh(ctx)
	return nil
}

// llamarSiguiente is the two-step protocol: peek the next pending turn,
// then call it. An empty queue is reported, not failed.
func (d *Dispatcher) llamarSiguiente(ctx context.Context, _ Request) error {
	entry, err := d.api.SiguienteTurno(ctx)
	if err != nil {
		return err
	}
	if entry == nil || entry.Turno == nil {
		d.notify.Warning("No hay turnos pendientes para llamar")
		return ErrSinPendientes
	}

	return d.llamar(ctx, Request{TurnoID: entry.Turno.ID})
}

func (d *Dispatcher) registrar(accion string, turnoID int, detalle map[string]any) {
	if d.audit == nil {
		return
	}
	d.audit.Dispatch(audit.Event{
		Accion:    accion,
		Entidad:   "turno",
		EntidadID: turnoID,
		Detalle:   detalle,
	})
}

// refresh re-reads both dependent views. The two refreshes are
// independent: one failing does not skip the other, and each reports its
// own errors through the notification center.
func (d *Dispatcher) refresh(ctx context.Context) {
	if d.refreshQueue != nil {
		d.refreshQueue(ctx)
	}
	if d.refreshStats != nil {
		d.refreshStats(ctx)
	}
}
