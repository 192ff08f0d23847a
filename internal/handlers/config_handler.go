package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/turnosuite/turnos-panel/internal/apiclient"
	"github.com/turnosuite/turnos-panel/internal/httperr"
	"github.com/turnosuite/turnos-panel/internal/httpresp"
	"github.com/turnosuite/turnos-panel/internal/models"
	"github.com/turnosuite/turnos-panel/internal/notify"
	"github.com/turnosuite/turnos-panel/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type ConfigHandler struct {
	api    *apiclient.Client
	notify *notify.Center
}

func NewConfigHandler(api *apiclient.Client, center *notify.Center) *ConfigHandler {
	return &ConfigHandler{
		api:    api,
		notify: center,
	}
}

// ======================================================
// GET
// ======================================================

func (h *ConfigHandler) Get(c *gin.Context) {
	cfg, err := h.api.GetConfiguracion(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, cfg)
}

// ======================================================
// SAVE
// ======================================================

func (h *ConfigHandler) Save(c *gin.Context) {
	var cfg models.Configuracion
	if err := c.ShouldBindJSON(&cfg); err != nil {
		httperr.BadRequest(c, "invalid_request", "Configuración inválida.")
		return
	}

	if err := validators.ValidarConfiguracion(cfg); err != nil {
		httperr.FromError(c, err)
		return
	}

	saved, err := h.api.SaveConfiguracion(c.Request.Context(), cfg)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.notify.Success("Configuración guardada correctamente")
	httpresp.OK(c, gin.H{"success": true, "config": saved})
}

// ======================================================
// LOGO
// ======================================================

func (h *ConfigHandler) SubirLogo(c *gin.Context) {
	file, err := c.FormFile("logo")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Archivo de logo requerido.")
		return
	}

	if err := validators.ValidarLogo(file.Filename, file.Size); err != nil {
		httperr.FromError(c, err)
		return
	}

	reader, err := file.Open()
	if err != nil {
		httperr.Internal(c, "file_error", "No se pudo leer el archivo.")
		return
	}
	defer reader.Close()

	logoURL, err := h.api.UploadLogo(c.Request.Context(), file.Filename, reader)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.notify.Success("Logo actualizado")
	httpresp.OK(c, gin.H{"success": true, "logo_url": logoURL})
}
