package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/turnosuite/turnos-panel/internal/models"
	"github.com/turnosuite/turnos-panel/internal/notify"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *notify.Center, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	center := notify.NewCenter()
	return New(srv.URL+"/api", center, zerolog.Nop()), center, srv
}

func TestResolveBaseURL(t *testing.T) {
	cases := []struct {
		override string
		hostname string
		want     string
	}{
		{"", "localhost", "http://127.0.0.1:8080/api"},
		{"", "127.0.0.1", "http://127.0.0.1:8080/api"},
		{"", "", "http://127.0.0.1:8080/api"},
		{"", "192.168.1.40", "http://192.168.1.40:8080/api"},
		{"http://backend:9000/api", "192.168.1.40", "http://backend:9000/api"},
	}

	for _, tt := range cases {
		if got := ResolveBaseURL(tt.override, tt.hostname); got != tt.want {
			t.Errorf("ResolveBaseURL(%q, %q)=%q, want %q", tt.override, tt.hostname, got, tt.want)
		}
	}
}

func TestRequestErrorCarriesStatus(t *testing.T) {
	client, center, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "algo falló"})
	}))

	_, err := client.GetCola(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}

	rerr, ok := err.(*RequestError)
	if !ok {
		t.Fatalf("expected *RequestError, got %T", err)
	}
	if rerr.Status != 500 {
		t.Errorf("Status=%d, want 500", rerr.Status)
	}
	if rerr.Message != "algo falló" {
		t.Errorf("Message=%q", rerr.Message)
	}

	pending := center.Pending()
	if len(pending) != 1 || pending[0].Level != notify.LevelError {
		t.Errorf("expected one error notification, got %+v", pending)
	}
}

func TestConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	center := notify.NewCenter()
	client := New(url+"/api", center, zerolog.Nop())

	_, err := client.GetCola(context.Background())
	if !IsConnection(err) {
		t.Fatalf("expected ConnectionError, got %v", err)
	}
	if len(center.Pending()) != 1 {
		t.Error("expected a connection notification")
	}
}

func TestSiguienteTurnoEmptyQueue(t *testing.T) {
	client, center, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "No hay turnos pendientes"})
	}))

	entry, err := client.SiguienteTurno(context.Background())
	if err != nil {
		t.Fatalf("empty queue must not be an error: %v", err)
	}
	if entry != nil {
		t.Errorf("entry=%+v, want nil", entry)
	}
	// a 404 peek is a normal condition, not worth a notification
	if len(center.Pending()) != 0 {
		t.Errorf("unexpected notifications: %+v", center.Pending())
	}
}

func TestGetColaNormalizesStatus(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.ColaEntry{
			{Posicion: 1, Turno: &models.Turno{ID: 1, NumeroTurno: "1503-001", Estado: "PENDIENTE"}},
			{Posicion: 2, Turno: &models.Turno{ID: 2, NumeroTurno: "1503-002", Estado: "Llamado"}},
		})
	}))

	cola, err := client.GetCola(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cola[0].Turno.Estado != models.EstadoPendiente {
		t.Errorf("estado[0]=%q", cola[0].Turno.Estado)
	}
	if cola[1].Turno.Estado != models.EstadoLlamado {
		t.Errorf("estado[1]=%q", cola[1].Turno.Estado)
	}
}

func TestConfiguracionRoundTrip(t *testing.T) {
	var saved models.Configuracion

	mux := http.NewServeMux()
	mux.HandleFunc("/api/configuracion", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			if err := json.NewDecoder(r.Body).Decode(&saved); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"success": true, "config": saved})
		default:
			json.NewEncoder(w).Encode(saved)
		}
	})

	client, _, _ := newTestClient(t, mux)

	voz := true
	vol := 0.5
	in := models.Configuracion{
		NombreEmpresa:           "Acme",
		TiempoEsperaCancelacion: 45,
		VozHabilitada:           &voz,
		VolumenVoz:              &vol,
	}

	if _, err := client.SaveConfiguracion(context.Background(), in); err != nil {
		t.Fatal(err)
	}

	got, err := client.GetConfiguracion(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if got.NombreEmpresa != "Acme" {
		t.Errorf("NombreEmpresa=%q", got.NombreEmpresa)
	}
	if got.TiempoEsperaCancelacion != 45 {
		t.Errorf("TiempoEsperaCancelacion=%d", got.TiempoEsperaCancelacion)
	}
	if !got.VozActiva() {
		t.Error("VozActiva()=false")
	}
	if got.Volumen() != 0.5 {
		t.Errorf("Volumen()=%v", got.Volumen())
	}
}

func TestValidateQRInvalid(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Turno no encontrado"})
	}))

	_, err := client.ValidateQR(context.Background(), `{"numero_turno":"XX"}`)
	if err == nil {
		t.Fatal("expected error for unknown turn")
	}
}
