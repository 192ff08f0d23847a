// Package qrflow issues QR-backed appointments and validates scanned or
// typed QR payloads against turn records.
package qrflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/turnosuite/turnos-panel/internal/apiclient"
	"github.com/turnosuite/turnos-panel/internal/models"
	"github.com/turnosuite/turnos-panel/internal/queueview"
)

// ValidationError reports an invalid QR payload or issuance form.
type ValidationError struct {
	Campo  string
	Motivo string
}

func (e *ValidationError) Error() string {
	if e.Campo != "" {
		return fmt.Sprintf("%s: %s", e.Campo, e.Motivo)
	}
	return e.Motivo
}

// Payload is the structured content encoded inside a turn's QR code.
// Older backends wrote the client name under "nombre"; both keys are
// accepted on parse.
type Payload struct {
	NumeroTurno   string `json:"numero_turno"`
	NombreCliente string `json:"nombre_cliente,omitempty"`
	Nombre        string `json:"nombre,omitempty"`
	Servicio      string `json:"servicio,omitempty"`
	FechaCita     string `json:"fecha_cita,omitempty"`
}

// Cliente returns the client name regardless of which key carried it.
func (p Payload) Cliente() string {
	if p.NombreCliente != "" {
		return p.NombreCliente
	}
	return p.Nombre
}

// ParsePayload decodes a structured QR payload. Bare strings (turn
// numbers typed by hand) are not payloads and return a ValidationError.
func ParsePayload(data string) (*Payload, error) {
	data = strings.TrimSpace(data)
	if !strings.HasPrefix(data, "{") {
		return nil, &ValidationError{Campo: "qr_data", Motivo: "no es un código estructurado"}
	}

	var p Payload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, &ValidationError{Campo: "qr_data", Motivo: "código ilegible"}
	}
	if p.NumeroTurno == "" {
		return nil, &ValidationError{Campo: "numero_turno", Motivo: "el código no referencia ningún turno"}
	}
	return &p, nil
}

// API is the slice of the backend client the flow needs.
type API interface {
	ValidateQR(ctx context.Context, qrData string) (*models.Turno, error)
	GetTurnos(ctx context.Context, filter apiclient.TurnoFilter) ([]models.Turno, error)
	GenerateQR(ctx context.Context, req apiclient.CreateTurnoRequest) (apiclient.QRGenerado, error)
}

// Resultado is a validated QR: the resolved turn plus the actions its
// status admits, same gating as the queue view.
type Resultado struct {
	Turno    models.Turno
	Acciones []queueview.Action
}

// Flow drives issuance and validation against the backend.
type Flow struct {
	api API
}

func New(api API) *Flow {
	return &Flow{api: api}
}

// Validate resolves a scanned or typed input to a turn. Structured
// payloads are validated against the backend; anything else falls back
// to a turn-number lookup.
func (f *Flow) Validate(ctx context.Context, input string) (*Resultado, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, &ValidationError{Campo: "qr_data", Motivo: "código vacío"}
	}

	if _, err := ParsePayload(input); err == nil {
		turno, err := f.api.ValidateQR(ctx, input)
		if err != nil {
			return nil, &ValidationError{Motivo: "código no válido"}
		}
		return resultado(*turno), nil
	}

	return f.buscarPorNumero(ctx, input)
}

func (f *Flow) buscarPorNumero(ctx context.Context, numero string) (*Resultado, error) {
	turnos, err := f.api.GetTurnos(ctx, apiclient.TurnoFilter{NumeroTurno: numero})
	if err != nil {
		return nil, err
	}
	if len(turnos) == 0 {
		return nil, &ValidationError{Campo: "numero_turno", Motivo: "turno no encontrado"}
	}
	return resultado(turnos[0]), nil
}

func resultado(turno models.Turno) *Resultado {
	return &Resultado{
		Turno:    turno,
		Acciones: queueview.AllowedActions(turno.Estado),
	}
}

// IssueRequest collects the QR appointment form.
type IssueRequest struct {
	Servicio      string
	NombreCliente string
	Telefono      string
	FechaCita     time.Time
	Observaciones string
}

// Emitido is a freshly issued QR appointment.
type Emitido struct {
	Turno  models.Turno
	QRData string
}

// Issue creates a QR-backed turn. The turn number is minted client-side
// the way the dashboard always has: a QR prefix plus the issuance
// instant.
func (f *Flow) Issue(ctx context.Context, req IssueRequest) (*Emitido, error) {
	if req.Servicio == "" {
		return nil, &ValidationError{Campo: "servicio", Motivo: "campo requerido"}
	}
	if req.NombreCliente == "" {
		return nil, &ValidationError{Campo: "nombre_cliente", Motivo: "campo requerido"}
	}
	if req.FechaCita.IsZero() {
		return nil, &ValidationError{Campo: "fecha_cita", Motivo: "campo requerido"}
	}

	generado, err := f.api.GenerateQR(ctx, apiclient.CreateTurnoRequest{
		NumeroTurno:   fmt.Sprintf("QR%d", time.Now().UnixMilli()),
		NombreCliente: req.NombreCliente,
		Telefono:      req.Telefono,
		Servicio:      req.Servicio,
		FechaCita:     req.FechaCita.Format(time.RFC3339),
		TipoRegistro:  models.RegistroQR,
		Observaciones: req.Observaciones,
	})
	if err != nil {
		return nil, err
	}

	qrData := generado.QRData
	if qrData == "" {
		qrData = generado.Turno.QRCode
	}
	return &Emitido{Turno: generado.Turno, QRData: qrData}, nil
}

// RenderPNG encodes a payload as a QR image for display or download.
func RenderPNG(data string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(data, qrcode.Medium, size)
}
