package models

// ===============================
// Configuración
// ===============================

// Defaults applied when the backend record omits optional fields.
const (
	DefaultNombreEmpresa     = "Sistema de Turnos"
	DefaultHorarioInicio     = "08:00"
	DefaultHorarioFin        = "18:00"
	DefaultIntervaloCitas    = 30
	DefaultVolumenVoz        = 0.8
	DefaultTiempoCancelacion = 30
)

// Configuracion is the singleton settings record.
type Configuracion struct {
	ID                      int      `json:"id,omitempty"`
	NombreEmpresa           string   `json:"nombre_empresa"`
	LogoURL                 string   `json:"logo_url,omitempty"`
	HorarioInicio           string   `json:"horario_inicio,omitempty"`
	HorarioFin              string   `json:"horario_fin,omitempty"`
	IntervaloCitas          int      `json:"intervalo_citas,omitempty"`
	VozHabilitada           *bool    `json:"voz_habilitada,omitempty"`
	VolumenVoz              *float64 `json:"volumen_voz,omitempty"`
	TiempoEsperaCancelacion int      `json:"tiempo_espera_cancelacion,omitempty"`
	ReinicioDiario          *bool    `json:"reinicio_diario,omitempty"`
}

// WithDefaults returns a copy with every optional field resolved, so the
// rest of the panel never has to nil-check settings.
func (c Configuracion) WithDefaults() Configuracion {
	if c.NombreEmpresa == "" {
		c.NombreEmpresa = DefaultNombreEmpresa
	}
	if c.HorarioInicio == "" {
		c.HorarioInicio = DefaultHorarioInicio
	}
	if c.HorarioFin == "" {
		c.HorarioFin = DefaultHorarioFin
	}
	if c.IntervaloCitas <= 0 {
		c.IntervaloCitas = DefaultIntervaloCitas
	}
	if c.VozHabilitada == nil {
		enabled := true
		c.VozHabilitada = &enabled
	}
	if c.VolumenVoz == nil {
		vol := DefaultVolumenVoz
		c.VolumenVoz = &vol
	}
	if c.TiempoEsperaCancelacion <= 0 {
		c.TiempoEsperaCancelacion = DefaultTiempoCancelacion
	}
	if c.ReinicioDiario == nil {
		reset := true
		c.ReinicioDiario = &reset
	}
	return c
}

// VozActiva reports whether announcements are enabled, defaulting to true.
func (c Configuracion) VozActiva() bool {
	return c.VozHabilitada == nil || *c.VozHabilitada
}

// Volumen returns the announcement volume in [0,1].
func (c Configuracion) Volumen() float64 {
	if c.VolumenVoz == nil {
		return DefaultVolumenVoz
	}
	return *c.VolumenVoz
}
