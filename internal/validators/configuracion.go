package validators

import (
	"path/filepath"
	"strings"

	"github.com/turnosuite/turnos-panel/internal/httperr"
	"github.com/turnosuite/turnos-panel/internal/models"
)

// MaxLogoBytes caps logo uploads at 2MB.
const MaxLogoBytes = 2 << 20

var allowedLogoExt = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// ValidarConfiguracion checks the configuration form before it is sent
// to the backend.
func ValidarConfiguracion(cfg models.Configuracion) error {
	if strings.TrimSpace(cfg.NombreEmpresa) == "" {
		return httperr.ErrBusiness("nombre_empresa_requerido")
	}
	if cfg.VolumenVoz != nil && (*cfg.VolumenVoz < 0 || *cfg.VolumenVoz > 1) {
		return httperr.ErrBusiness("volumen_fuera_de_rango")
	}
	if cfg.TiempoEsperaCancelacion < 0 {
		return httperr.ErrBusiness("tiempo_espera_invalido")
	}
	if cfg.IntervaloCitas < 0 {
		return httperr.ErrBusiness("intervalo_invalido")
	}
	return nil
}

// ValidarLogo checks an uploaded logo file by extension and size.
func ValidarLogo(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedLogoExt[ext] {
		return httperr.ErrBusiness("tipo_archivo_no_permitido")
	}
	if size > MaxLogoBytes {
		return httperr.ErrBusiness("archivo_demasiado_grande")
	}
	return nil
}
