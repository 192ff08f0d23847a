// Package calendar assembles the month view: a fixed 6-week grid of day
// cells, each annotated with that day's appointments fetched from the
// backend one day at a time.
package calendar

import (
	"context"
	"sync"
	"time"

	"github.com/turnosuite/turnos-panel/internal/models"
	"github.com/turnosuite/turnos-panel/internal/queueview"
)

// GridCells is always 6 weeks by 7 columns, Sunday first.
const (
	GridCells    = 42
	maxVisible   = 3
	fetchWorkers = 7
)

const dateLayout = "2006-01-02"

// Cell is one day of the month grid.
type Cell struct {
	Fecha        time.Time
	ISO          string
	Dia          int
	EnMes        bool
	EsHoy        bool
	Seleccionado bool
	Citas        []models.Cita
	Visibles     []models.Cita
	Desborde     int
}

// CitasFetcher is the slice of the API client the aggregator needs.
type CitasFetcher interface {
	GetCitas(ctx context.Context, fecha string) ([]models.Cita, error)
}

// GridStart returns the Sunday on or before the 1st of the month.
func GridStart(year int, month time.Month) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	return first.AddDate(0, 0, -int(first.Weekday()))
}

// LoadMonth fetches the appointments for every day visible in the grid,
// one request per day, concurrently and keyed by ISO date. A day whose
// fetch fails degrades to an empty list; it never fails the month.
func LoadMonth(ctx context.Context, fetcher CitasFetcher, year int, month time.Month) map[string][]models.Cita {
	start := GridStart(year, month)

	citas := make(map[string][]models.Cita, GridCells)
	var mu sync.Mutex

	days := make(chan string)
	var wg sync.WaitGroup

	for i := 0; i < fetchWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for fecha := range days {
				list, err := fetcher.GetCitas(ctx, fecha)
				if err != nil {
					list = []models.Cita{}
				}
				mu.Lock()
				citas[fecha] = list
				mu.Unlock()
			}
		}()
	}

	for i := 0; i < GridCells; i++ {
		days <- start.AddDate(0, 0, i).Format(dateLayout)
	}
	close(days)
	wg.Wait()

	return citas
}

// MonthGrid builds the 42 cells for a month. today marks the current-date
// cell when the grid contains it; selected (ISO date, may be empty) marks
// the operator's selection.
func MonthGrid(year int, month time.Month, today time.Time, selected string, citas map[string][]models.Cita) []Cell {
	start := GridStart(year, month)
	todayISO := today.Format(dateLayout)

	cells := make([]Cell, 0, GridCells)
	for i := 0; i < GridCells; i++ {
		day := start.AddDate(0, 0, i)
		iso := day.Format(dateLayout)
		dayCitas := citas[iso]

		visibles := dayCitas
		desborde := 0
		if len(dayCitas) > maxVisible {
			visibles = dayCitas[:maxVisible]
			desborde = len(dayCitas) - maxVisible
		}

		cells = append(cells, Cell{
			Fecha:        day,
			ISO:          iso,
			Dia:          day.Day(),
			EnMes:        day.Month() == month,
			EsHoy:        iso == todayISO,
			Seleccionado: selected != "" && iso == selected,
			Citas:        dayCitas,
			Visibles:     visibles,
			Desborde:     desborde,
		})
	}
	return cells
}

// DayCita is an appointment row of the selected-day detail panel.
type DayCita struct {
	models.Cita
	Hora     string
	Acciones []queueview.Action
}

// DayDetail annotates a day's appointments with their allowed actions,
// preserving the backend's order.
func DayDetail(citas []models.Cita) []DayCita {
	out := make([]DayCita, 0, len(citas))
	for _, cita := range citas {
		hora := ""
		if when := cita.CitaTime(); !when.IsZero() {
			hora = when.Format("15:04")
		}
		out = append(out, DayCita{
			Cita:     cita,
			Hora:     hora,
			Acciones: queueview.AllowedActions(cita.Estado),
		})
	}
	return out
}

// MonthAdd shifts a (year, month) pair by delta months.
func MonthAdd(year int, month time.Month, delta int) (int, time.Month) {
	shifted := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	return shifted.Year(), shifted.Month()
}

// MonthTitle renders the Spanish month header ("Marzo 2024").
func MonthTitle(year int, month time.Month) string {
	names := [...]string{"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre"}
	return names[month-1] + " " + time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("2006")
}
