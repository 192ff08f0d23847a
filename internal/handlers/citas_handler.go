package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turnosuite/turnos-panel/internal/apiclient"
	"github.com/turnosuite/turnos-panel/internal/calendar"
	"github.com/turnosuite/turnos-panel/internal/httperr"
	"github.com/turnosuite/turnos-panel/internal/httpresp"
	"github.com/turnosuite/turnos-panel/internal/models"
	"github.com/turnosuite/turnos-panel/internal/notify"
)

// ======================================================
// HANDLER
// ======================================================

type CitasHandler struct {
	api    *apiclient.Client
	notify *notify.Center
}

func NewCitasHandler(api *apiclient.Client, center *notify.Center) *CitasHandler {
	return &CitasHandler{
		api:    api,
		notify: center,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CrearCitaRequest struct {
	NombreCliente string `json:"nombre_cliente" binding:"required"`
	Telefono      string `json:"telefono"`
	Servicio      string `json:"servicio" binding:"required"`
	Fecha         string `json:"fecha" binding:"required"`
	Hora          string `json:"hora" binding:"required"`
	Observaciones string `json:"observaciones"`
}

type CrearServicioRequest struct {
	Nombre         string `json:"nombre" binding:"required"`
	Descripcion    string `json:"descripcion"`
	TiempoEstimado int    `json:"tiempo_estimado"`
}

// ======================================================
// SERVICIOS
// ======================================================

func (h *CitasHandler) Servicios(c *gin.Context) {
	servicios, err := h.api.GetServicios(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, servicios)
}

func (h *CitasHandler) CrearServicio(c *gin.Context) {
	var req CrearServicioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Nombre del servicio requerido.")
		return
	}

	servicio, err := h.api.CreateServicio(c.Request.Context(), apiclient.CreateServicioRequest{
		Nombre:         strings.TrimSpace(req.Nombre),
		Descripcion:    req.Descripcion,
		TiempoEstimado: req.TiempoEstimado,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.notify.Success("Servicio creado correctamente")
	c.JSON(201, servicio)
}

// ======================================================
// DISPONIBILIDAD
// ======================================================

func (h *CitasHandler) Disponibilidad(c *gin.Context) {
	fecha := c.Query("fecha")
	if fecha == "" {
		httperr.BadRequest(c, "missing_fecha", "Fecha obligatoria.")
		return
	}

	disp, err := h.api.GetDisponibilidad(c.Request.Context(), fecha)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, disp)
}

// ======================================================
// CREAR (ASIGNAR CITA)
// ======================================================

func (h *CitasHandler) Crear(c *gin.Context) {
	var req CrearCitaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos de la cita incompletos.")
		return
	}

	fechaCita := req.Fecha + "T" + req.Hora + ":00"
	if _, err := models.ParseFecha(fechaCita); err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Fecha u hora inválida.")
		return
	}

	turno, err := h.api.CreateTurno(c.Request.Context(), apiclient.CreateTurnoRequest{
		NombreCliente: strings.TrimSpace(req.NombreCliente),
		Telefono:      req.Telefono,
		Servicio:      req.Servicio,
		FechaCita:     fechaCita,
		TipoRegistro:  models.RegistroManual,
		Observaciones: req.Observaciones,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.notify.Success("Cita asignada: turno " + turno.NumeroTurno)
	c.JSON(201, turno)
}

// ======================================================
// CITAS DEL DÍA
// ======================================================

func (h *CitasHandler) DelDia(c *gin.Context) {
	fecha := c.Param("fecha")

	citas, err := h.api.GetCitas(c.Request.Context(), fecha)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, calendar.DayDetail(citas))
}

// ======================================================
// CANCELAR
// ======================================================

func (h *CitasHandler) Cancelar(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador de cita inválido.")
		return
	}

	if err := h.api.CancelarCita(c.Request.Context(), id); err != nil {
		httperr.FromError(c, err)
		return
	}

	h.notify.Success("Cita cancelada correctamente")
	httpresp.Success(c, "Cita cancelada.")
}
