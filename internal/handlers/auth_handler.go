package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turnosuite/turnos-panel/internal/config"
	"github.com/turnosuite/turnos-panel/internal/httperr"
	"github.com/turnosuite/turnos-panel/internal/middleware"
)

// ======================================================
// HANDLER
// ======================================================

type AuthHandler struct {
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// ======================================================
// REQUESTS
// ======================================================

type LoginRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// ======================================================
// LOGIN
// ======================================================

func (h *AuthHandler) Login(c *gin.Context) {
	if !h.cfg.AuthRequired() {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "PIN requerido.")
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.PIN), []byte(h.cfg.PanelPIN)) != 1 {
		httperr.Unauthorized(c, "invalid_pin", "PIN incorrecto.")
		return
	}

	token, err := middleware.IssueToken(h.cfg)
	if err != nil {
		httperr.Internal(c, "token_error", "No se pudo iniciar la sesión.")
		return
	}

	c.SetCookie(middleware.SessionCookie, token, 12*60*60, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
