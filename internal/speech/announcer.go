// Package speech turns called turns into voice announcements. The panel
// itself has no speakers: announcements go to an injected sink (the SSE
// stream feeding browser speech synthesis) and, when Redis is configured,
// to a pub/sub channel that TV displays subscribe to.
package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/turnosuite/turnos-panel/internal/models"
)

// Channel carries announcements to display clients.
const Channel = "turnos:anuncios"

// Announcement is one phrase to speak.
type Announcement struct {
	TurnoID     int       `json:"turno_id"`
	NumeroTurno string    `json:"numero_turno"`
	Mensaje     string    `json:"mensaje"`
	Volumen     float64   `json:"volumen"`
	Idioma      string    `json:"idioma"`
	At          time.Time `json:"at"`
}

// Sink receives announcements that passed the enabled/volume gate.
type Sink interface {
	Speak(Announcement)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Announcement)

func (f SinkFunc) Speak(a Announcement) { f(a) }

// ConfigSource yields the current resolved configuration.
type ConfigSource func() models.Configuracion

// Mensaje builds the fallback phrase when the backend supplies none.
func Mensaje(numeroTurno, nombreCliente string) string {
	return fmt.Sprintf("Turno %s, %s, acérquese por favor", numeroTurno, nombreCliente)
}

// Announcer serializes announcements through a buffered channel and a
// single worker so a slow Redis can never stall an action handler.
// Announcements are dropped, not queued unboundedly, when the buffer
// fills.
type Announcer struct {
	queue  chan Announcement
	sink   Sink
	rdb    *redis.Client
	config ConfigSource
	log    zerolog.Logger
	done   chan struct{}
}

const queueSize = 32

// New starts the announcer worker. rdb may be nil (no broadcast).
func New(sink Sink, rdb *redis.Client, config ConfigSource, logger zerolog.Logger) *Announcer {
	a := &Announcer{
		queue:  make(chan Announcement, queueSize),
		sink:   sink,
		rdb:    rdb,
		config: config,
		log:    logger.With().Str("component", "speech").Logger(),
		done:   make(chan struct{}),
	}
	go a.worker()
	return a
}

// Announce enqueues a phrase for the given turn. The server-supplied
// message wins; an empty mensaje falls back to the standard template.
// Disabled voice drops the announcement silently.
func (a *Announcer) Announce(turno models.Turno, mensaje string) {
	cfg := a.config()
	if !cfg.VozActiva() {
		return
	}
	if mensaje == "" {
		mensaje = Mensaje(turno.NumeroTurno, turno.NombreCliente)
	}

	ann := Announcement{
		TurnoID:     turno.ID,
		NumeroTurno: turno.NumeroTurno,
		Mensaje:     mensaje,
		Volumen:     cfg.Volumen(),
		Idioma:      "es-ES",
		At:          time.Now(),
	}

	select {
	case a.queue <- ann:
	default:
		a.log.Warn().Str("turno", turno.NumeroTurno).Msg("cola de anuncios llena, anuncio descartado")
	}
}

func (a *Announcer) worker() {
	defer close(a.done)
	for ann := range a.queue {
		if a.sink != nil {
			a.sink.Speak(ann)
		}
		a.publish(ann)
	}
}

func (a *Announcer) publish(ann Announcement) {
	if a.rdb == nil {
		return
	}

	payload, err := json.Marshal(ann)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := a.rdb.Publish(ctx, Channel, payload).Err(); err != nil {
		a.log.Warn().Err(err).Msg("no se pudo publicar el anuncio")
	}
}

// Close drains the queue and stops the worker.
func (a *Announcer) Close() {
	close(a.queue)
	<-a.done
}
