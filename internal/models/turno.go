package models

import (
	"strings"
	"time"
)

// ===============================
// Estados de turno
// ===============================

// Canonical turn statuses. The backend has historically emitted these in
// both upper and lower case; everything is normalized to lower case at the
// API boundary (see NormalizeEstado).
const (
	EstadoPendiente = "pendiente"
	EstadoLlamado   = "llamado"
	EstadoAtendido  = "atendido"
	EstadoCancelado = "cancelado"
)

// Registration origin of a turn.
const (
	RegistroManual = "manual"
	RegistroQR     = "qr"
)

// NormalizeEstado lower-cases a backend status and maps a missing status
// to "pendiente".
func NormalizeEstado(estado string) string {
	estado = strings.ToLower(strings.TrimSpace(estado))
	if estado == "" {
		return EstadoPendiente
	}
	return estado
}

// IsTerminal reports whether a status admits no further transitions.
func IsTerminal(estado string) bool {
	switch NormalizeEstado(estado) {
	case EstadoAtendido, EstadoCancelado:
		return true
	}
	return false
}

// ===============================
// Turno
// ===============================

// Turno mirrors the backend's turn record. Timestamps travel as ISO
// strings without zone, exactly as the backend serializes them.
type Turno struct {
	ID             int    `json:"id"`
	NumeroTurno    string `json:"numero_turno"`
	NombreCliente  string `json:"nombre_cliente"`
	Telefono       string `json:"telefono,omitempty"`
	Servicio       string `json:"servicio"`
	FechaCreacion  string `json:"fecha_creacion,omitempty"`
	FechaCita      string `json:"fecha_cita"`
	Estado         string `json:"estado"`
	TipoRegistro   string `json:"tipo_registro,omitempty"`
	QRCode         string `json:"qr_code,omitempty"`
	Observaciones  string `json:"observaciones,omitempty"`
	TiempoLlamado  string `json:"tiempo_llamado,omitempty"`
	TiempoAtencion string `json:"tiempo_atencion,omitempty"`
}

// citaLayouts covers the formats the backend emits for fecha_cita.
var citaLayouts = []string{
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseFecha parses a backend timestamp in any of its known layouts.
func ParseFecha(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range citaLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// CitaTime returns the scheduled time of the turn, zero on parse failure.
func (t *Turno) CitaTime() time.Time {
	when, err := ParseFecha(t.FechaCita)
	if err != nil {
		return time.Time{}
	}
	return when
}

// ===============================
// Cola
// ===============================

// ColaEntry is the queue envelope: a position plus the embedded turn.
type ColaEntry struct {
	ID       int    `json:"id"`
	Posicion int    `json:"posicion"`
	Fecha    string `json:"fecha,omitempty"`
	Turno    *Turno `json:"turno"`
}

// ===============================
// Servicio
// ===============================

type Servicio struct {
	ID             int    `json:"id"`
	Nombre         string `json:"nombre"`
	Descripcion    string `json:"descripcion,omitempty"`
	TiempoEstimado int    `json:"tiempo_estimado,omitempty"`
	Activo         bool   `json:"activo"`
}

// ===============================
// Cita (calendar view of a turn)
// ===============================

// Cita is the flattened appointment shape returned by /citas/{fecha}.
type Cita struct {
	ID             int    `json:"id"`
	Numero         string `json:"numero"`
	NombreCliente  string `json:"nombre_cliente"`
	Telefono       string `json:"telefono,omitempty"`
	ServicioNombre string `json:"servicio_nombre"`
	FechaCita      string `json:"fecha_cita"`
	Estado         string `json:"estado"`
	Observaciones  string `json:"observaciones,omitempty"`
}

// CitaTime returns the scheduled time, zero on parse failure.
func (c *Cita) CitaTime() time.Time {
	when, err := ParseFecha(c.FechaCita)
	if err != nil {
		return time.Time{}
	}
	return when
}

// ===============================
// Disponibilidad
// ===============================

type Horario struct {
	Hora       string `json:"hora"`
	Disponible bool   `json:"disponible"`
}

type Disponibilidad struct {
	Fecha    string    `json:"fecha"`
	Horarios []Horario `json:"horarios"`
}
