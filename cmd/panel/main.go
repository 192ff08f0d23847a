package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/turnosuite/turnos-panel/internal/apiclient"
	"github.com/turnosuite/turnos-panel/internal/audit"
	"github.com/turnosuite/turnos-panel/internal/config"
	"github.com/turnosuite/turnos-panel/internal/dispatch"
	"github.com/turnosuite/turnos-panel/internal/hub"
	"github.com/turnosuite/turnos-panel/internal/models"
	"github.com/turnosuite/turnos-panel/internal/notify"
	"github.com/turnosuite/turnos-panel/internal/qrflow"
	"github.com/turnosuite/turnos-panel/internal/queueview"
	"github.com/turnosuite/turnos-panel/internal/routes"
	"github.com/turnosuite/turnos-panel/internal/speech"
	"github.com/turnosuite/turnos-panel/internal/telemetry"
	"github.com/turnosuite/turnos-panel/internal/timezone"
	"github.com/turnosuite/turnos-panel/web"
)

func main() {

	_ = godotenv.Load()
	cfg := config.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "turnos-panel").Logger()

	shutdownTracing := telemetry.Setup("turnos-panel")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	center := notify.NewCenter()

	baseURL := apiclient.ResolveBaseURL(cfg.BackendURL, cfg.PanelHost)
	api := apiclient.New(baseURL, center, logger)
	logger.Info().Str("backend", baseURL).Msg("backend de turnos resuelto")

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	// configuración fresca para cada anuncio, con degradación a defaults
	configSource := func() models.Configuracion {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		resolved, err := api.GetConfiguracion(ctx)
		if err != nil {
			return models.Configuracion{}.WithDefaults()
		}
		return resolved
	}

	snapshots := hub.New(func(ctx context.Context) (hub.Snapshot, error) {
		cola, err := api.GetCola(ctx)
		if err != nil {
			return hub.Snapshot{}, err
		}
		stats, err := api.GetEstadisticas(ctx, timezone.Hoy())
		if err != nil {
			return hub.Snapshot{}, err
		}
		return hub.Snapshot{
			Cola:  queueview.FromCola(cola),
			Stats: stats,
			At:    time.Now(),
		}, nil
	}, cfg.RefreshInterval, logger)

	announcer := speech.New(speech.SinkFunc(func(a speech.Announcement) {
		snapshots.Publish("anuncio", a)
	}), rdb, configSource, logger)
	defer announcer.Close()

	trail := audit.NewDispatcher(logger)

	dispatcher := dispatch.New(api, announcer, center, logger,
		dispatch.WithAudit(trail),
		dispatch.WithRefresh(
			func(ctx context.Context) {
				if cola, err := api.GetCola(ctx); err == nil {
					snapshots.Publish("cola", queueview.FromCola(cola))
				}
			},
			func(ctx context.Context) {
				if stats, err := api.GetEstadisticas(ctx, timezone.Hoy()); err == nil {
					snapshots.Publish("estadisticas", stats)
				}
			},
		),
	)

	flow := qrflow.New(api)

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.Default()
	r.SetHTMLTemplate(web.Templates())
	r.StaticFS("/static", http.FS(web.Static()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, routes.Deps{
		Cfg:        cfg,
		API:        api,
		Dispatcher: dispatcher,
		Flow:       flow,
		Hub:        snapshots,
		Notify:     center,
	})

	logger.Info().Str("addr", cfg.Addr()).Msg("panel de turnos escuchando")
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Fatal().Err(err).Msg("no se pudo iniciar el servidor")
	}
}
