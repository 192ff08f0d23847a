package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turnosuite/turnos-panel/internal/apiclient"
	"github.com/turnosuite/turnos-panel/internal/dispatch"
	"github.com/turnosuite/turnos-panel/internal/httperr"
	"github.com/turnosuite/turnos-panel/internal/httpresp"
	"github.com/turnosuite/turnos-panel/internal/queueview"
)

// ======================================================
// HANDLER
// ======================================================

type ColaHandler struct {
	api        *apiclient.Client
	dispatcher *dispatch.Dispatcher
}

func NewColaHandler(api *apiclient.Client, dispatcher *dispatch.Dispatcher) *ColaHandler {
	return &ColaHandler{
		api:        api,
		dispatcher: dispatcher,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type AccionRequest struct {
	Accion       string `json:"accion" binding:"required"`
	EstadoActual string `json:"estado_actual"`
	Confirmado   bool   `json:"confirmado"`
}

// ======================================================
// LIST
// ======================================================

func (h *ColaHandler) List(c *gin.Context) {
	cola, err := h.api.GetCola(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, queueview.FromCola(cola))
}

// ======================================================
// LLAMAR SIGUIENTE
// ======================================================

func (h *ColaHandler) Siguiente(c *gin.Context) {
	err := h.dispatcher.Dispatch(c.Request.Context(), dispatch.Siguiente, dispatch.Request{})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Success(c, "Siguiente turno llamado.")
}

// ======================================================
// ACCIONES SOBRE UN TURNO
// ======================================================

func (h *ColaHandler) Accion(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador de turno inválido.")
		return
	}

	var req AccionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Acción requerida.")
		return
	}

	err = h.dispatcher.Dispatch(c.Request.Context(), queueview.Action(req.Accion), dispatch.Request{
		TurnoID:      id,
		EstadoActual: req.EstadoActual,
		Confirmado:   req.Confirmado,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Success(c, "Acción aplicada.")
}
