package models

// Estadisticas holds the daily aggregate counts returned by
// /estadisticas. Derived metrics are computed here rather than trusted
// from the wire, so older backends without them still render.
type Estadisticas struct {
	Fecha         string  `json:"fecha,omitempty"`
	TotalTurnos   int     `json:"total_turnos"`
	Pendientes    int     `json:"pendientes"`
	Llamados      int     `json:"llamados"`
	Atendidos     int     `json:"atendidos"`
	Cancelados    int     `json:"cancelados"`
	EsperaMinutos float64 `json:"tiempo_espera_promedio,omitempty"`
}

// Eficiencia is the share of the day's turns already attended, in percent.
func (e Estadisticas) Eficiencia() float64 {
	if e.TotalTurnos == 0 {
		return 0
	}
	return float64(e.Atendidos) / float64(e.TotalTurnos) * 100
}

// Resueltos counts turns in a terminal state.
func (e Estadisticas) Resueltos() int {
	return e.Atendidos + e.Cancelados
}

// EnCurso counts turns still moving through the queue.
func (e Estadisticas) EnCurso() int {
	return e.Pendientes + e.Llamados
}
