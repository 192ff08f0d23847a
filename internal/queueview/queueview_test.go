package queueview

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/turnosuite/turnos-panel/internal/models"
)

func TestAllowedActions(t *testing.T) {
	cases := []struct {
		estado string
		want   []Action
	}{
		{"pendiente", []Action{ActionLlamar, ActionAtender, ActionCancelar}},
		{"", []Action{ActionLlamar, ActionAtender, ActionCancelar}},
		{"PENDIENTE", []Action{ActionLlamar, ActionAtender, ActionCancelar}},
		{"llamado", []Action{ActionAtender, ActionLlamar}},
		{"atendido", []Action{}},
		{"cancelado", []Action{}},
		{"desconocido", []Action{}},
	}

	for _, tt := range cases {
		if got := AllowedActions(tt.estado); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("AllowedActions(%q)=%v, want %v", tt.estado, got, tt.want)
		}
	}
}

func TestCanApply(t *testing.T) {
	cases := []struct {
		action Action
		estado string
		want   bool
	}{
		{ActionLlamar, "pendiente", true},
		{ActionAtender, "pendiente", true},
		{ActionCancelar, "pendiente", true},
		{ActionLlamar, "llamado", true}, // repeat announcement
		{ActionAtender, "llamado", true},
		{ActionCancelar, "llamado", false},
		{ActionAtender, "atendido", false},
		{ActionLlamar, "atendido", false},
		{ActionCancelar, "cancelado", false},
	}

	for _, tt := range cases {
		if got := CanApply(tt.action, tt.estado); got != tt.want {
			t.Errorf("CanApply(%q, %q)=%v, want %v", tt.action, tt.estado, got, tt.want)
		}
	}
}

func TestFromColaPreservesOrder(t *testing.T) {
	cola := []models.ColaEntry{
		{Posicion: 1, Turno: &models.Turno{ID: 7, NumeroTurno: "1503-003", Estado: "llamado"}},
		{Posicion: 2, Turno: nil},
		{Posicion: 3, Turno: &models.Turno{ID: 2, NumeroTurno: "1503-001", Estado: "pendiente"}},
		{Posicion: 4, Turno: &models.Turno{ID: 9, NumeroTurno: "1503-004", Estado: "atendido"}},
	}

	entries := FromCola(cola)
	if len(entries) != 3 {
		t.Fatalf("len=%d, want 3", len(entries))
	}

	// arrival order, never re-sorted
	wantIDs := []int{7, 2, 9}
	for i, id := range wantIDs {
		if entries[i].ID != id {
			t.Errorf("entries[%d].ID=%d, want %d", i, entries[i].ID, id)
		}
	}

	if len(entries[0].Acciones) != 2 {
		t.Errorf("llamado actions=%v", entries[0].Acciones)
	}
	if len(entries[2].Acciones) != 0 {
		t.Errorf("atendido actions=%v, want none", entries[2].Acciones)
	}
}

func TestNormalizeBothShapes(t *testing.T) {
	envelope := json.RawMessage(`[
		{"id": 1, "posicion": 1, "turno": {"id": 10, "numero_turno": "1503-001", "estado": "PENDIENTE", "fecha_cita": "2024-03-15T09:00:00"}}
	]`)
	flat := json.RawMessage(`[
		{"id": 10, "numero_turno": "1503-001", "estado": "pendiente", "fecha_cita": "2024-03-15T09:00:00"}
	]`)

	for name, raw := range map[string]json.RawMessage{"envelope": envelope, "flat": flat} {
		entries, err := Normalize(raw)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(entries) != 1 {
			t.Fatalf("%s: len=%d, want 1", name, len(entries))
		}
		if entries[0].ID != 10 || entries[0].Estado != "pendiente" {
			t.Errorf("%s: entry=%+v", name, entries[0])
		}
	}
}
