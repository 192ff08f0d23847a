// Package audit records operator actions (calls, attends, cancels,
// configuration changes) as structured log entries. The panel keeps no
// database: the trail goes to the log stream, queued through a worker so
// a slow writer never blocks an action handler.
package audit

import (
	"github.com/rs/zerolog"
)

type Event struct {
	Accion    string
	Entidad   string
	EntidadID int
	Detalle   map[string]any
}

type Dispatcher struct {
	log   zerolog.Logger
	queue chan Event
}

func NewDispatcher(logger zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		log:   logger.With().Str("component", "audit").Logger(),
		queue: make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		entry := d.log.Info().
			Str("accion", ev.Accion).
			Str("entidad", ev.Entidad)
		if ev.EntidadID != 0 {
			entry = entry.Int("entidad_id", ev.EntidadID)
		}
		if ev.Detalle != nil {
			entry = entry.Interface("detalle", ev.Detalle)
		}
		entry.Msg("auditoría")
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		// full queue: drop the trail entry, never break the panel
		d.log.Warn().Msg("cola de auditoría llena, evento descartado")
	}
}
