package httperr

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/turnosuite/turnos-panel/internal/apiclient"
	"github.com/turnosuite/turnos-panel/internal/dispatch"
	"github.com/turnosuite/turnos-panel/internal/qrflow"
)

// FromError maps the panel's error taxonomy onto an HTTP response:
// backend connectivity becomes a 502, backend rejections keep their
// status, validation problems are 400s. Anything unrecognized is a 500.
func FromError(c *gin.Context, err error) {
	var cerr *apiclient.ConnectionError
	if errors.As(err, &cerr) {
		BadGateway(c, "backend_unreachable", "No hay conexión con el servidor de turnos.")
		return
	}

	var rerr *apiclient.RequestError
	if errors.As(err, &rerr) {
		if rerr.Status == 404 {
			NotFound(c, "not_found", "El recurso solicitado no existe.")
			return
		}
		Write(c, rerr.Status, "backend_error", rerr.Message)
		return
	}

	var verr *qrflow.ValidationError
	if errors.As(err, &verr) {
		BadRequest(c, "validation_error", verr.Error())
		return
	}

	var berr BusinessError
	if errors.As(err, &berr) {
		BadRequest(c, berr.Code, "Datos inválidos.")
		return
	}

	switch {
	case errors.Is(err, dispatch.ErrSinPendientes):
		NotFound(c, "sin_pendientes", "No hay turnos pendientes para llamar.")
	case errors.Is(err, dispatch.ErrConfirmacionRequerida):
		BadRequest(c, "confirmacion_requerida", "La cancelación requiere confirmación.")
	case errors.Is(err, dispatch.ErrAccionNoPermitida):
		BadRequest(c, "accion_no_permitida", "El estado del turno no permite esa acción.")
	case errors.Is(err, dispatch.ErrAccionInvalida):
		BadRequest(c, "accion_invalida", "Acción desconocida.")
	default:
		Internal(c, "internal_error", "Error interno del panel.")
	}
}
