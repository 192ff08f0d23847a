package qrflow

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/turnosuite/turnos-panel/internal/apiclient"
	"github.com/turnosuite/turnos-panel/internal/models"
)

type fakeAPI struct {
	porNumero   map[string]models.Turno
	validados   map[string]models.Turno
	lastRequest apiclient.CreateTurnoRequest
}

func (f *fakeAPI) ValidateQR(ctx context.Context, qrData string) (*models.Turno, error) {
	p, err := ParsePayload(qrData)
	if err != nil {
		return nil, err
	}
	turno, ok := f.validados[p.NumeroTurno]
	if !ok {
		return nil, errors.New("turno no encontrado")
	}
	return &turno, nil
}

func (f *fakeAPI) GetTurnos(ctx context.Context, filter apiclient.TurnoFilter) ([]models.Turno, error) {
	if turno, ok := f.porNumero[filter.NumeroTurno]; ok {
		return []models.Turno{turno}, nil
	}
	return []models.Turno{}, nil
}

func (f *fakeAPI) GenerateQR(ctx context.Context, req apiclient.CreateTurnoRequest) (apiclient.QRGenerado, error) {
	f.lastRequest = req
	return apiclient.QRGenerado{
		Success: true,
		Turno: models.Turno{
			ID:            42,
			NumeroTurno:   req.NumeroTurno,
			NombreCliente: req.NombreCliente,
			Servicio:      req.Servicio,
			Estado:        models.EstadoPendiente,
		},
		QRData: `{"numero_turno":"` + req.NumeroTurno + `"}`,
	}, nil
}

func TestParsePayload(t *testing.T) {
	p, err := ParsePayload(`{"numero_turno":"1503-001","nombre":"Ana","servicio":"Caja"}`)
	if err != nil {
		t.Fatal(err)
	}
	if p.NumeroTurno != "1503-001" || p.Cliente() != "Ana" {
		t.Errorf("payload=%+v", p)
	}

	// both client-name keys resolve
	p, err = ParsePayload(`{"numero_turno":"1503-002","nombre_cliente":"Luis"}`)
	if err != nil {
		t.Fatal(err)
	}
	if p.Cliente() != "Luis" {
		t.Errorf("Cliente()=%q", p.Cliente())
	}

	for _, bad := range []string{"T-204", "{broken", `{"nombre":"sin numero"}`} {
		if _, err := ParsePayload(bad); err == nil {
			t.Errorf("ParsePayload(%q) should fail", bad)
		}
	}
}

func TestValidateStructuredPayload(t *testing.T) {
	api := &fakeAPI{validados: map[string]models.Turno{
		"1503-001": {ID: 1, NumeroTurno: "1503-001", Estado: "pendiente"},
	}}
	flow := New(api)

	res, err := flow.Validate(context.Background(), `{"numero_turno":"1503-001"}`)
	if err != nil {
		t.Fatal(err)
	}
	if res.Turno.ID != 1 {
		t.Errorf("turno=%+v", res.Turno)
	}
	if len(res.Acciones) != 3 {
		t.Errorf("acciones=%v, want the pendiente set", res.Acciones)
	}
}

func TestValidateFallsBackToTurnNumber(t *testing.T) {
	api := &fakeAPI{porNumero: map[string]models.Turno{
		"T-204": {ID: 204, NumeroTurno: "T-204", Estado: "llamado"},
	}}
	flow := New(api)

	// "T-204" is not structured data: must go through number lookup
	res, err := flow.Validate(context.Background(), "T-204")
	if err != nil {
		t.Fatal(err)
	}
	if res.Turno.ID != 204 {
		t.Errorf("turno=%+v", res.Turno)
	}
	if len(res.Acciones) != 2 {
		t.Errorf("acciones=%v, want the llamado set", res.Acciones)
	}
}

func TestValidateUnknownInput(t *testing.T) {
	flow := New(&fakeAPI{})

	_, err := flow.Validate(context.Background(), "NO-EXISTE")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err=%v, want ValidationError", err)
	}

	if _, err := flow.Validate(context.Background(), "   "); err == nil {
		t.Error("empty input should fail")
	}
}

func TestIssue(t *testing.T) {
	api := &fakeAPI{}
	flow := New(api)

	cita := time.Date(2024, 3, 15, 9, 30, 0, 0, time.Local)
	emitido, err := flow.Issue(context.Background(), IssueRequest{
		Servicio:      "Caja",
		NombreCliente: "Ana",
		Telefono:      "555-0101",
		FechaCita:     cita,
	})
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(emitido.Turno.NumeroTurno, "QR") {
		t.Errorf("numero=%q, want QR prefix", emitido.Turno.NumeroTurno)
	}
	if emitido.QRData == "" {
		t.Error("missing QR payload")
	}
	if api.lastRequest.TipoRegistro != models.RegistroQR {
		t.Errorf("tipo_registro=%q", api.lastRequest.TipoRegistro)
	}
}

func TestIssueValidatesRequiredFields(t *testing.T) {
	flow := New(&fakeAPI{})

	// each request omits one required field
	cases := []IssueRequest{
		{NombreCliente: "Ana", FechaCita: time.Now()},
		{Servicio: "Caja", FechaCita: time.Now()},
		{Servicio: "Caja", NombreCliente: "Ana"},
	}

	for i, req := range cases {
		_, err := flow.Issue(context.Background(), req)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("case %d: err=%v, want ValidationError", i, err)
		}
	}
}

func TestRenderPNG(t *testing.T) {
	png, err := RenderPNG(`{"numero_turno":"1503-001"}`, 0)
	if err != nil {
		t.Fatal(err)
	}
	// PNG signature
	if len(png) < 8 || png[1] != 'P' || png[2] != 'N' || png[3] != 'G' {
		t.Error("output is not a PNG")
	}
}
