package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/turnosuite/turnos-panel/internal/apiclient"
	"github.com/turnosuite/turnos-panel/internal/httperr"
	"github.com/turnosuite/turnos-panel/internal/httpresp"
	"github.com/turnosuite/turnos-panel/internal/notify"
	"github.com/turnosuite/turnos-panel/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type PanelHandler struct {
	api    *apiclient.Client
	notify *notify.Center
}

func NewPanelHandler(api *apiclient.Client, center *notify.Center) *PanelHandler {
	return &PanelHandler{
		api:    api,
		notify: center,
	}
}

// ======================================================
// ESTADÍSTICAS
// ======================================================

func (h *PanelHandler) Estadisticas(c *gin.Context) {
	fecha := c.Query("fecha")
	if fecha == "" {
		fecha = timezone.Hoy()
	}

	stats, err := h.api.GetEstadisticas(c.Request.Context(), fecha)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"fecha":          fecha,
		"total_turnos":   stats.TotalTurnos,
		"pendientes":     stats.Pendientes,
		"llamados":       stats.Llamados,
		"atendidos":      stats.Atendidos,
		"cancelados":     stats.Cancelados,
		"en_curso":       stats.EnCurso(),
		"resueltos":      stats.Resueltos(),
		"eficiencia":     stats.Eficiencia(),
		"espera_minutos": stats.EsperaMinutos,
	})
}

// ======================================================
// NOTIFICACIONES
// ======================================================

// Notificaciones drains the pending notification buffer: each message is
// delivered to exactly one poll.
func (h *PanelHandler) Notificaciones(c *gin.Context) {
	httpresp.List(c, h.notify.Drain())
}
