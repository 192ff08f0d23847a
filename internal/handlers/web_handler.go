package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turnosuite/turnos-panel/internal/apiclient"
	"github.com/turnosuite/turnos-panel/internal/config"
	"github.com/turnosuite/turnos-panel/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type WebHandler struct {
	api *apiclient.Client
	cfg *config.Config
}

func NewWebHandler(api *apiclient.Client, cfg *config.Config) *WebHandler {
	return &WebHandler{
		api: api,
		cfg: cfg,
	}
}

// empresa resolves the company name for the page header. A backend that
// is down falls back to the default name rather than breaking the page.
func (h *WebHandler) empresa(c *gin.Context) models.Configuracion {
	cfg, err := h.api.GetConfiguracion(c.Request.Context())
	if err != nil {
		return models.Configuracion{}.WithDefaults()
	}
	return cfg
}

func (h *WebHandler) render(c *gin.Context, page string) {
	c.HTML(http.StatusOK, "base", gin.H{
		"Page":    page,
		"Config":  h.empresa(c),
		"Auth":    h.cfg.AuthRequired(),
		"Backend": h.api.BaseURL(),
	})
}

// ======================================================
// PÁGINAS
// ======================================================

func (h *WebHandler) Dashboard(c *gin.Context)     { h.render(c, "dashboard") }
func (h *WebHandler) Cola(c *gin.Context)          { h.render(c, "cola") }
func (h *WebHandler) Calendario(c *gin.Context)    { h.render(c, "calendario") }
func (h *WebHandler) QR(c *gin.Context)            { h.render(c, "qr") }
func (h *WebHandler) Configuracion(c *gin.Context) { h.render(c, "configuracion") }

func (h *WebHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "base", gin.H{
		"Page": "login",
		"Auth": h.cfg.AuthRequired(),
	})
}
