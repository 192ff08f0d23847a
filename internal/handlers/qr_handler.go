package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turnosuite/turnos-panel/internal/apiclient"
	"github.com/turnosuite/turnos-panel/internal/httperr"
	"github.com/turnosuite/turnos-panel/internal/httpresp"
	"github.com/turnosuite/turnos-panel/internal/models"
	"github.com/turnosuite/turnos-panel/internal/notify"
	"github.com/turnosuite/turnos-panel/internal/qrflow"
)

// ======================================================
// HANDLER
// ======================================================

type QRHandler struct {
	api    *apiclient.Client
	flow   *qrflow.Flow
	notify *notify.Center
}

func NewQRHandler(api *apiclient.Client, flow *qrflow.Flow, center *notify.Center) *QRHandler {
	return &QRHandler{
		api:    api,
		flow:   flow,
		notify: center,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ValidarQRRequest struct {
	QRData string `json:"qr_data" binding:"required"`
}

type EmitirQRRequest struct {
	Servicio      string `json:"servicio" binding:"required"`
	NombreCliente string `json:"nombre_cliente" binding:"required"`
	Telefono      string `json:"telefono"`
	Fecha         string `json:"fecha" binding:"required"`
	Hora          string `json:"hora" binding:"required"`
	Observaciones string `json:"observaciones"`
}

// ======================================================
// HISTORIAL
// ======================================================

// Historial lists the most recent QR turns, capped at 20 like the
// original history panel.
func (h *QRHandler) Historial(c *gin.Context) {
	historial, err := h.api.QRHistorial(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	if len(historial) > 20 {
		historial = historial[:20]
	}
	httpresp.List(c, historial)
}

// ======================================================
// VALIDAR
// ======================================================

// Validar resolves a scanned payload or a typed turn number to a turn
// and the actions its status admits.
func (h *QRHandler) Validar(c *gin.Context) {
	var req ValidarQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Código QR requerido.")
		return
	}

	resultado, err := h.flow.Validate(c.Request.Context(), req.QRData)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"valid":    true,
		"turno":    resultado.Turno,
		"acciones": resultado.Acciones,
	})
}

// ======================================================
// EMITIR
// ======================================================

func (h *QRHandler) Emitir(c *gin.Context) {
	var req EmitirQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos del turno QR incompletos.")
		return
	}

	fechaCita, err := models.ParseFecha(req.Fecha + "T" + req.Hora + ":00")
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Fecha u hora inválida.")
		return
	}

	emitido, err := h.flow.Issue(c.Request.Context(), qrflow.IssueRequest{
		Servicio:      req.Servicio,
		NombreCliente: req.NombreCliente,
		Telefono:      req.Telefono,
		FechaCita:     fechaCita,
		Observaciones: req.Observaciones,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.notify.Success("Turno QR generado: " + emitido.Turno.NumeroTurno)
	c.JSON(201, gin.H{
		"success": true,
		"turno":   emitido.Turno,
		"qr_data": emitido.QRData,
	})
}

// ======================================================
// IMAGEN
// ======================================================

// Imagen renders a QR payload as PNG for on-screen display.
func (h *QRHandler) Imagen(c *gin.Context) {
	data := c.Query("data")
	if data == "" {
		httperr.BadRequest(c, "missing_data", "Contenido del código requerido.")
		return
	}

	size := 256
	if sizeStr := c.Query("size"); sizeStr != "" {
		if n, err := strconv.Atoi(sizeStr); err == nil && n > 0 && n <= 1024 {
			size = n
		}
	}

	png, err := qrflow.RenderPNG(data, size)
	if err != nil {
		httperr.Internal(c, "qr_render_error", "No se pudo generar la imagen.")
		return
	}
	c.Data(200, "image/png", png)
}

// ======================================================
// DESCARGAR
// ======================================================

// Descargar proxies the backend's QR download for a stored turn.
func (h *QRHandler) Descargar(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	png, err := h.api.DownloadQR(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=qr_turno_%d.png", id))
	c.Data(200, "image/png", png)
}
