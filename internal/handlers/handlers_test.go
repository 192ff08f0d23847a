package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/turnosuite/turnos-panel/internal/apiclient"
	"github.com/turnosuite/turnos-panel/internal/config"
	"github.com/turnosuite/turnos-panel/internal/dispatch"
	"github.com/turnosuite/turnos-panel/internal/hub"
	"github.com/turnosuite/turnos-panel/internal/models"
	"github.com/turnosuite/turnos-panel/internal/notify"
	"github.com/turnosuite/turnos-panel/internal/qrflow"
	"github.com/turnosuite/turnos-panel/internal/routes"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// fakeBackend imitates the turnos API the panel proxies.
func fakeBackend(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()

	var calls []string

	mux := http.NewServeMux()
	mux.HandleFunc("/cola", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "GET /cola")
		json.NewEncoder(w).Encode([]models.ColaEntry{
			{Posicion: 1, Turno: &models.Turno{ID: 7, NumeroTurno: "A007", NombreCliente: "Marta", Servicio: "Caja", Estado: "PENDIENTE", FechaCita: "2026-08-28T10:00:00"}},
		})
	})
	mux.HandleFunc("/cola/siguiente", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "GET /cola/siguiente")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "cola vacía"})
	})
	mux.HandleFunc("/cola/llamar/7", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "POST /cola/llamar/7")
		json.NewEncoder(w).Encode(map[string]any{
			"turno":       models.Turno{ID: 7, NumeroTurno: "A007", NombreCliente: "Marta", Estado: "llamado"},
			"mensaje_voz": "Turno A007, Marta, acérquese por favor",
		})
	})
	mux.HandleFunc("/estadisticas", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "GET /estadisticas")
		json.NewEncoder(w).Encode(models.Estadisticas{TotalTurnos: 4, Pendientes: 1, Atendidos: 2, Cancelados: 1})
	})
	mux.HandleFunc("/configuracion", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.Configuracion{NombreEmpresa: "Clínica Norte"})
	})
	mux.HandleFunc("/turnos", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("numero_turno") == "A007" {
			json.NewEncoder(w).Encode([]models.Turno{{ID: 7, NumeroTurno: "A007", NombreCliente: "Marta", Estado: "pendiente"}})
			return
		}
		json.NewEncoder(w).Encode([]models.Turno{})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newPanel(t *testing.T, cfg *config.Config) (*gin.Engine, *[]string) {
	t.Helper()

	backend, calls := fakeBackend(t)

	logger := zerolog.Nop()
	center := notify.NewCenter()
	api := apiclient.New(backend.URL, center, logger)

	dispatcher := dispatch.New(api, nil, center, logger)
	flow := qrflow.New(api)
	snapshots := hub.New(nil, hub.DefaultInterval, logger)

	r := gin.New()
	routes.RegisterRoutes(r, routes.Deps{
		Cfg:        cfg,
		API:        api,
		Dispatcher: dispatcher,
		Flow:       flow,
		Hub:        snapshots,
		Notify:     center,
	})
	return r, calls
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestColaListIncludesActions(t *testing.T) {
	r, _ := newPanel(t, config.Load())

	w := do(r, http.MethodGet, "/api/cola", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data []struct {
			NumeroTurno string   `json:"numero_turno"`
			Estado      string   `json:"estado"`
			Acciones    []string `json:"acciones"`
		} `json:"data"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("respuesta ilegible: %v", err)
	}
	if resp.Total != 1 || len(resp.Data) != 1 {
		t.Fatalf("total = %d, filas = %d", resp.Total, len(resp.Data))
	}

	row := resp.Data[0]
	if row.Estado != "pendiente" {
		t.Errorf("estado = %q, se esperaba normalizado a pendiente", row.Estado)
	}
	want := []string{"llamar", "atender", "cancelar"}
	if len(row.Acciones) != len(want) {
		t.Fatalf("acciones = %v", row.Acciones)
	}
	for i, a := range want {
		if row.Acciones[i] != a {
			t.Errorf("acciones[%d] = %q, se esperaba %q", i, row.Acciones[i], a)
		}
	}
}

func TestSiguienteConColaVacia(t *testing.T) {
	r, _ := newPanel(t, config.Load())

	w := do(r, http.MethodPost, "/api/cola/siguiente", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, se esperaba 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "sin_pendientes") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestAccionLlamar(t *testing.T) {
	r, calls := newPanel(t, config.Load())

	w := do(r, http.MethodPost, "/api/turnos/7/accion",
		`{"accion":"llamar","estado_actual":"pendiente"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	found := false
	for _, call := range *calls {
		if call == "POST /cola/llamar/7" {
			found = true
		}
	}
	if !found {
		t.Errorf("el backend no recibió la llamada: %v", *calls)
	}
}

func TestAccionBloqueadaPorEstado(t *testing.T) {
	r, calls := newPanel(t, config.Load())

	w := do(r, http.MethodPost, "/api/turnos/7/accion",
		`{"accion":"llamar","estado_actual":"atendido"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, se esperaba 400", w.Code)
	}
	for _, call := range *calls {
		if call == "POST /cola/llamar/7" {
			t.Fatal("una acción bloqueada no debe llegar al backend")
		}
	}
}

func TestCancelarSinConfirmacion(t *testing.T) {
	r, _ := newPanel(t, config.Load())

	w := do(r, http.MethodPost, "/api/turnos/7/accion",
		`{"accion":"cancelar","estado_actual":"pendiente"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, se esperaba 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "confirmacion_requerida") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestValidarQRPorNumero(t *testing.T) {
	r, _ := newPanel(t, config.Load())

	w := do(r, http.MethodPost, "/api/qr/validar", `{"qr_data":"A007"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Valid bool `json:"valid"`
		Turno struct {
			NumeroTurno string `json:"numero_turno"`
		} `json:"turno"`
		Acciones []string `json:"acciones"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("respuesta ilegible: %v", err)
	}
	if !resp.Valid || resp.Turno.NumeroTurno != "A007" {
		t.Errorf("turno = %+v", resp)
	}
	if len(resp.Acciones) == 0 {
		t.Error("un turno pendiente debe admitir acciones")
	}
}

func TestQRImagen(t *testing.T) {
	r, _ := newPanel(t, config.Load())

	w := do(r, http.MethodGet, "/api/qr/imagen?data=A007&size=128", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content-type = %q", ct)
	}
	png := w.Body.Bytes()
	if len(png) < 8 || png[1] != 'P' || png[2] != 'N' || png[3] != 'G' {
		t.Error("la respuesta no es un PNG")
	}
}

func TestConfiguracionProtegidaPorPIN(t *testing.T) {
	cfg := config.Load()
	cfg.PanelPIN = "4321"
	cfg.JWTSecret = "secreto-de-prueba"
	r, _ := newPanel(t, cfg)

	// sin sesión
	w := do(r, http.MethodGet, "/api/configuracion", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("sin token: status = %d, se esperaba 401", w.Code)
	}

	// PIN incorrecto
	w = do(r, http.MethodPost, "/login", `{"pin":"0000"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("pin incorrecto: status = %d", w.Code)
	}

	// PIN correcto entrega token utilizable como Bearer
	w = do(r, http.MethodPost, "/login", `{"pin":"4321"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body = %s", w.Code, w.Body.String())
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &login); err != nil || login.Token == "" {
		t.Fatalf("login sin token: %s", w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/configuracion", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("con token: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Clínica Norte") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestConfiguracionSinPINEsAbierta(t *testing.T) {
	cfg := config.Load()
	cfg.PanelPIN = ""
	r, _ := newPanel(t, cfg)

	w := do(r, http.MethodGet, "/api/configuracion", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGuardarConfiguracionInvalida(t *testing.T) {
	r, _ := newPanel(t, config.Load())

	w := do(r, http.MethodPost, "/api/configuracion", `{"nombre_empresa":"   "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, se esperaba 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "nombre_empresa_requerido") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestEstadisticasDerivadas(t *testing.T) {
	r, _ := newPanel(t, config.Load())

	w := do(r, http.MethodGet, "/api/estadisticas?fecha=2026-08-28", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("respuesta ilegible: %v", err)
	}
	if resp["eficiencia"].(float64) != 50 {
		t.Errorf("eficiencia = %v, se esperaba 50", resp["eficiencia"])
	}
	if resp["resueltos"].(float64) != 3 {
		t.Errorf("resueltos = %v", resp["resueltos"])
	}
}
