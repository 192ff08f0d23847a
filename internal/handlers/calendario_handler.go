package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turnosuite/turnos-panel/internal/apiclient"
	"github.com/turnosuite/turnos-panel/internal/calendar"
	"github.com/turnosuite/turnos-panel/internal/httperr"
	"github.com/turnosuite/turnos-panel/internal/httpresp"
	"github.com/turnosuite/turnos-panel/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type CalendarioHandler struct {
	api *apiclient.Client
}

func NewCalendarioHandler(api *apiclient.Client) *CalendarioHandler {
	return &CalendarioHandler{api: api}
}

// ======================================================
// MES
// ======================================================

// Mes returns the 42-cell month grid plus the detail panel for the
// selected day. Without year/month it shows the current month.
func (h *CalendarioHandler) Mes(c *gin.Context) {
	now := timezone.Now()

	year := now.Year()
	month := now.Month()

	if yearStr := c.Query("year"); yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil || y < 2000 || y > 2100 {
			httperr.BadRequest(c, "invalid_year", "Año inválido.")
			return
		}
		year = y
	}

	if monthStr := c.Query("month"); monthStr != "" {
		m, err := strconv.Atoi(monthStr)
		if err != nil || m < 1 || m > 12 {
			httperr.BadRequest(c, "invalid_month", "Mes inválido.")
			return
		}
		month = time.Month(m)
	}

	seleccion := c.Query("seleccion")
	if seleccion != "" {
		if _, err := time.Parse("2006-01-02", seleccion); err != nil {
			httperr.BadRequest(c, "invalid_seleccion", "Fecha seleccionada inválida.")
			return
		}
	}

	citas := calendar.LoadMonth(c.Request.Context(), h.api, year, month)
	celdas := calendar.MonthGrid(year, month, now, seleccion, citas)

	var detalle []calendar.DayCita
	if seleccion != "" {
		detalle = calendar.DayDetail(citas[seleccion])
	}

	prevYear, prevMonth := calendar.MonthAdd(year, month, -1)
	nextYear, nextMonth := calendar.MonthAdd(year, month, 1)

	httpresp.OK(c, gin.H{
		"titulo":    calendar.MonthTitle(year, month),
		"year":      year,
		"month":     int(month),
		"celdas":    celdas,
		"seleccion": seleccion,
		"detalle":   detalle,
		"anterior":  gin.H{"year": prevYear, "month": int(prevMonth)},
		"siguiente": gin.H{"year": nextYear, "month": int(nextMonth)},
	})
}
