// Package queueview derives render-ready queue rows and the set of
// actions an operator may take on each turn given its status.
package queueview

import (
	"encoding/json"
	"time"

	"github.com/turnosuite/turnos-panel/internal/models"
)

// Action is an operator action on a turn.
type Action string

const (
	ActionLlamar   Action = "llamar"
	ActionAtender  Action = "atender"
	ActionCancelar Action = "cancelar"
)

// actionTable maps a canonical status to the actions it admits. A called
// turn can be called again (repeat announcement); terminal states admit
// nothing.
var actionTable = map[string][]Action{
	models.EstadoPendiente: {ActionLlamar, ActionAtender, ActionCancelar},
	models.EstadoLlamado:   {ActionAtender, ActionLlamar},
	models.EstadoAtendido:  {},
	models.EstadoCancelado: {},
}

// AllowedActions returns the actions valid for a turn in the given
// status. Unknown statuses admit nothing.
func AllowedActions(estado string) []Action {
	actions, ok := actionTable[models.NormalizeEstado(estado)]
	if !ok {
		return []Action{}
	}
	out := make([]Action, len(actions))
	copy(out, actions)
	return out
}

// CanApply reports whether the action is valid for the status.
func CanApply(action Action, estado string) bool {
	for _, a := range AllowedActions(estado) {
		if a == action {
			return true
		}
	}
	return false
}

// Entry is one render-ready queue row.
type Entry struct {
	ID            int       `json:"id"`
	Posicion      int       `json:"posicion,omitempty"`
	NumeroTurno   string    `json:"numero_turno"`
	NombreCliente string    `json:"nombre_cliente"`
	Servicio      string    `json:"servicio"`
	FechaCita     time.Time `json:"fecha_cita"`
	Estado        string    `json:"estado"`
	Acciones      []Action  `json:"acciones"`
}

// FromCola builds entries from queue envelopes, preserving input order.
// Envelopes without an embedded turn are skipped.
func FromCola(cola []models.ColaEntry) []Entry {
	out := make([]Entry, 0, len(cola))
	for _, item := range cola {
		if item.Turno == nil {
			continue
		}
		entry := fromTurno(*item.Turno)
		entry.Posicion = item.Posicion
		out = append(out, entry)
	}
	return out
}

// FromTurnos builds entries from flat turn records, preserving order.
func FromTurnos(turnos []models.Turno) []Entry {
	out := make([]Entry, 0, len(turnos))
	for _, t := range turnos {
		out = append(out, fromTurno(t))
	}
	return out
}

// Normalize accepts either queue shape the API responds with: an array
// of envelopes ({posicion, turno:{...}}) or an array of flat turns.
func Normalize(raw json.RawMessage) ([]Entry, error) {
	var cola []models.ColaEntry
	if err := json.Unmarshal(raw, &cola); err == nil && looksLikeCola(cola) {
		return FromCola(cola), nil
	}

	var turnos []models.Turno
	if err := json.Unmarshal(raw, &turnos); err != nil {
		return nil, err
	}
	return FromTurnos(turnos), nil
}

func looksLikeCola(cola []models.ColaEntry) bool {
	for _, item := range cola {
		if item.Turno != nil {
			return true
		}
	}
	return false
}

func fromTurno(t models.Turno) Entry {
	estado := models.NormalizeEstado(t.Estado)
	return Entry{
		ID:            t.ID,
		NumeroTurno:   t.NumeroTurno,
		NombreCliente: t.NombreCliente,
		Servicio:      t.Servicio,
		FechaCita:     t.CitaTime(),
		Estado:        estado,
		Acciones:      AllowedActions(estado),
	}
}
