package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/turnosuite/turnos-panel/internal/apiclient"
	"github.com/turnosuite/turnos-panel/internal/config"
	"github.com/turnosuite/turnos-panel/internal/dispatch"
	"github.com/turnosuite/turnos-panel/internal/handlers"
	"github.com/turnosuite/turnos-panel/internal/hub"
	"github.com/turnosuite/turnos-panel/internal/middleware"
	"github.com/turnosuite/turnos-panel/internal/notify"
	"github.com/turnosuite/turnos-panel/internal/qrflow"
)

// Deps holds the singletons the route tree hangs off. They are built in
// main because the dispatcher, announcer and hub are wired together.
type Deps struct {
	Cfg        *config.Config
	API        *apiclient.Client
	Dispatcher *dispatch.Dispatcher
	Flow       *qrflow.Flow
	Hub        *hub.Hub
	Notify     *notify.Center
}

func RegisterRoutes(r *gin.Engine, deps Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(deps.Cfg)
	webHandler := handlers.NewWebHandler(deps.API, deps.Cfg)

	colaHandler := handlers.NewColaHandler(deps.API, deps.Dispatcher)
	panelHandler := handlers.NewPanelHandler(deps.API, deps.Notify)
	citasHandler := handlers.NewCitasHandler(deps.API, deps.Notify)
	calendarioHandler := handlers.NewCalendarioHandler(deps.API)
	qrHandler := handlers.NewQRHandler(deps.API, deps.Flow, deps.Notify)
	configHandler := handlers.NewConfigHandler(deps.API, deps.Notify)
	eventsHandler := handlers.NewEventsHandler(deps.Hub)

	// ======================================================
	// RUTAS WEB (HTML)
	// ======================================================
	r.GET("/", webHandler.Dashboard)
	r.GET("/cola", webHandler.Cola)
	r.GET("/calendario", webHandler.Calendario)
	r.GET("/qr", webHandler.QR)
	r.GET("/configuracion", webHandler.Configuracion)
	r.GET("/login", webHandler.LoginPage)

	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// COLA Y ACCIONES
		// ------------------------------
		api.GET("/cola", colaHandler.List)
		api.POST("/cola/siguiente", colaHandler.Siguiente)
		api.POST("/turnos/:id/accion", colaHandler.Accion)

		// ------------------------------
		// PANEL
		// ------------------------------
		api.GET("/estadisticas", panelHandler.Estadisticas)
		api.GET("/notificaciones", panelHandler.Notificaciones)
		api.GET("/eventos", eventsHandler.Stream)

		// ------------------------------
		// CITAS
		// ------------------------------
		api.GET("/servicios", citasHandler.Servicios)
		api.POST("/servicios", citasHandler.CrearServicio)
		api.GET("/disponibilidad", citasHandler.Disponibilidad)
		api.POST("/citas", citasHandler.Crear)
		api.GET("/citas/:fecha", citasHandler.DelDia)
		api.POST("/cita/:id/cancelar", citasHandler.Cancelar)

		// ------------------------------
		// CALENDARIO
		// ------------------------------
		api.GET("/calendario", calendarioHandler.Mes)

		// ------------------------------
		// QR
		// ------------------------------
		api.GET("/qr/historial", qrHandler.Historial)
		api.POST("/qr/validar", qrHandler.Validar)
		api.POST("/qr/emitir", qrHandler.Emitir)
		api.GET("/qr/imagen", qrHandler.Imagen)
		api.GET("/qr/:id/descargar", qrHandler.Descargar)

		// ------------------------------
		// CONFIGURACIÓN (PROTEGIDA)
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(deps.Cfg))
		{
			secured.GET("/configuracion", configHandler.Get)
			secured.POST("/configuracion", configHandler.Save)
			secured.POST("/configuracion/logo", configHandler.SubirLogo)
		}
	}
}
