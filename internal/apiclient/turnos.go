package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/turnosuite/turnos-panel/internal/models"
)

// ===============================
// Configuración
// ===============================

type saveConfigResponse struct {
	Success bool                 `json:"success"`
	Config  models.Configuracion `json:"config"`
}

type uploadLogoResponse struct {
	Success bool   `json:"success"`
	LogoURL string `json:"logo_url"`
	Message string `json:"message"`
}

func (c *Client) GetConfiguracion(ctx context.Context) (models.Configuracion, error) {
	var cfg models.Configuracion
	if err := c.doJSON(ctx, http.MethodGet, "/configuracion", nil, &cfg); err != nil {
		return models.Configuracion{}, err
	}
	return cfg.WithDefaults(), nil
}

func (c *Client) SaveConfiguracion(ctx context.Context, cfg models.Configuracion) (models.Configuracion, error) {
	var resp saveConfigResponse
	if err := c.doJSON(ctx, http.MethodPost, "/configuracion", cfg, &resp); err != nil {
		return models.Configuracion{}, err
	}
	return resp.Config.WithDefaults(), nil
}

func (c *Client) UploadLogo(ctx context.Context, filename string, file io.Reader) (string, error) {
	var resp uploadLogoResponse
	if err := c.uploadMultipart(ctx, "/upload-logo", "logo", filename, file, &resp); err != nil {
		return "", err
	}
	return resp.LogoURL, nil
}

// ===============================
// Servicios
// ===============================

func (c *Client) GetServicios(ctx context.Context) ([]models.Servicio, error) {
	var servicios []models.Servicio
	if err := c.doJSON(ctx, http.MethodGet, "/servicios", nil, &servicios); err != nil {
		return nil, err
	}
	return servicios, nil
}

type CreateServicioRequest struct {
	Nombre         string `json:"nombre"`
	Descripcion    string `json:"descripcion,omitempty"`
	TiempoEstimado int    `json:"tiempo_estimado,omitempty"`
}

func (c *Client) CreateServicio(ctx context.Context, req CreateServicioRequest) (models.Servicio, error) {
	var servicio models.Servicio
	if err := c.doJSON(ctx, http.MethodPost, "/servicios", req, &servicio); err != nil {
		return models.Servicio{}, err
	}
	return servicio, nil
}

// ===============================
// Turnos
// ===============================

type CreateTurnoRequest struct {
	NumeroTurno   string `json:"numero_turno,omitempty"`
	NombreCliente string `json:"nombre_cliente"`
	Telefono      string `json:"telefono,omitempty"`
	Servicio      string `json:"servicio"`
	FechaCita     string `json:"fecha_cita"`
	TipoRegistro  string `json:"tipo_registro"`
	Observaciones string `json:"observaciones,omitempty"`
}

func (c *Client) CreateTurno(ctx context.Context, req CreateTurnoRequest) (models.Turno, error) {
	var turno models.Turno
	if err := c.doJSON(ctx, http.MethodPost, "/turnos", req, &turno); err != nil {
		return models.Turno{}, err
	}
	normalizeTurno(&turno)
	return turno, nil
}

func (c *Client) GetTurno(ctx context.Context, id int) (models.Turno, error) {
	var turno models.Turno
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/turno/%d", id), nil, &turno); err != nil {
		return models.Turno{}, err
	}
	normalizeTurno(&turno)
	return turno, nil
}

// TurnoFilter narrows /turnos listings. Zero values are omitted.
type TurnoFilter struct {
	Fecha       string
	Estado      string
	NumeroTurno string
}

func (c *Client) GetTurnos(ctx context.Context, filter TurnoFilter) ([]models.Turno, error) {
	query := url.Values{}
	if filter.Fecha != "" {
		query.Set("fecha", filter.Fecha)
	}
	if filter.Estado != "" {
		query.Set("estado", filter.Estado)
	}
	if filter.NumeroTurno != "" {
		query.Set("numero_turno", filter.NumeroTurno)
	}

	endpoint := "/turnos"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var turnos []models.Turno
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &turnos); err != nil {
		return nil, err
	}
	for i := range turnos {
		normalizeTurno(&turnos[i])
	}
	return turnos, nil
}

// UpdateEstado transitions a turn to the given status.
func (c *Client) UpdateEstado(ctx context.Context, id int, estado string) (models.Turno, error) {
	body := map[string]string{"estado": models.NormalizeEstado(estado)}

	var turno models.Turno
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/turnos/%d", id), body, &turno); err != nil {
		return models.Turno{}, err
	}
	normalizeTurno(&turno)
	return turno, nil
}

// ===============================
// Cola
// ===============================

func (c *Client) GetCola(ctx context.Context) ([]models.ColaEntry, error) {
	var cola []models.ColaEntry
	if err := c.doJSON(ctx, http.MethodGet, "/cola", nil, &cola); err != nil {
		return nil, err
	}
	for _, entry := range cola {
		if entry.Turno != nil {
			normalizeTurno(entry.Turno)
		}
	}
	return cola, nil
}

// SiguienteTurno peeks at the next pending turn without calling it.
// An empty queue is not an error: it returns (nil, nil).
func (c *Client) SiguienteTurno(ctx context.Context) (*models.ColaEntry, error) {
	var entry models.ColaEntry
	err := c.doJSON(ctx, http.MethodGet, "/cola/siguiente", nil, &entry)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if entry.Turno != nil {
		normalizeTurno(entry.Turno)
	}
	return &entry, nil
}

// Llamada is the backend's response to calling a turn: the updated turn
// plus the phrase to announce.
type Llamada struct {
	Turno      models.Turno `json:"turno"`
	MensajeVoz string       `json:"mensaje_voz"`
}

func (c *Client) LlamarTurno(ctx context.Context, id int) (Llamada, error) {
	var llamada Llamada
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/cola/llamar/%d", id), nil, &llamada); err != nil {
		return Llamada{}, err
	}
	normalizeTurno(&llamada.Turno)
	return llamada, nil
}

// ===============================
// Estadísticas / Citas
// ===============================

func (c *Client) GetEstadisticas(ctx context.Context, fecha string) (models.Estadisticas, error) {
	endpoint := "/estadisticas"
	if fecha != "" {
		endpoint += "?fecha=" + url.QueryEscape(fecha)
	}

	var stats models.Estadisticas
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &stats); err != nil {
		return models.Estadisticas{}, err
	}
	if stats.Fecha == "" {
		stats.Fecha = fecha
	}
	return stats, nil
}

func (c *Client) GetCitas(ctx context.Context, fecha string) ([]models.Cita, error) {
	var citas []models.Cita
	if err := c.doJSON(ctx, http.MethodGet, "/citas/"+url.PathEscape(fecha), nil, &citas); err != nil {
		return nil, err
	}
	for i := range citas {
		citas[i].Estado = models.NormalizeEstado(citas[i].Estado)
	}
	return citas, nil
}

func (c *Client) CancelarCita(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/cita/%d/cancelar", id), nil, nil)
}

func (c *Client) GetDisponibilidad(ctx context.Context, fecha string) (models.Disponibilidad, error) {
	endpoint := "/calendario/disponibilidad?fecha=" + url.QueryEscape(fecha)

	var disp models.Disponibilidad
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &disp); err != nil {
		return models.Disponibilidad{}, err
	}
	return disp, nil
}

// ===============================
// QR
// ===============================

type QRGenerado struct {
	Success bool         `json:"success"`
	Turno   models.Turno `json:"turno"`
	QRData  string       `json:"qr_data"`
}

func (c *Client) GenerateQR(ctx context.Context, req CreateTurnoRequest) (QRGenerado, error) {
	var resp QRGenerado
	if err := c.doJSON(ctx, http.MethodPost, "/qr/generate", req, &resp); err != nil {
		return QRGenerado{}, err
	}
	normalizeTurno(&resp.Turno)
	return resp, nil
}

type qrValidation struct {
	Valid bool          `json:"valid"`
	Turno *models.Turno `json:"turno"`
}

// ValidateQR asks the backend to resolve a structured QR payload.
func (c *Client) ValidateQR(ctx context.Context, qrData string) (*models.Turno, error) {
	body := map[string]string{"qr_data": qrData}

	var resp qrValidation
	if err := c.doJSON(ctx, http.MethodPost, "/qr/validate", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Valid || resp.Turno == nil {
		return nil, &RequestError{Endpoint: "/qr/validate", Status: http.StatusNotFound, Message: "turno no encontrado"}
	}
	normalizeTurno(resp.Turno)
	return resp.Turno, nil
}

// QRRegistro is one entry of the generated-QR history.
type QRRegistro struct {
	ID            int    `json:"id"`
	NumeroTurno   string `json:"numero_turno"`
	NombreCliente string `json:"nombre_cliente"`
	Servicio      string `json:"servicio"`
	FechaCita     string `json:"fecha_cita"`
	FechaCreacion string `json:"fecha_creacion"`
	Estado        string `json:"estado"`
	QRData        string `json:"qr_data"`
}

func (c *Client) QRHistorial(ctx context.Context) ([]QRRegistro, error) {
	var historial []QRRegistro
	if err := c.doJSON(ctx, http.MethodGet, "/qr/historial", nil, &historial); err != nil {
		return nil, err
	}
	for i := range historial {
		historial[i].Estado = models.NormalizeEstado(historial[i].Estado)
	}
	return historial, nil
}

func (c *Client) DownloadQR(ctx context.Context, id int) ([]byte, error) {
	return c.download(ctx, fmt.Sprintf("/qr/%d/download", id))
}

func normalizeTurno(t *models.Turno) {
	t.Estado = models.NormalizeEstado(t.Estado)
}
