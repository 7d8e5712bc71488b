// Progreso de entrega: seis pipelines independientes que el equipo edita
// campo por campo desde el panel admin.

package servicio

import (
	"context"
	"time"

	"github.com/google/uuid"

	"losimple/dto"
)

// progresoInicial arma el progreso que se crea al arrancar un lanzamiento,
// con los textos iniciales fijos de cada pipeline.
func progresoInicial(solicitudID string) *dto.Progreso {
	ahora := time.Now()
	pendiente := func(actual, siguiente string) dto.Pipeline {
		return dto.Pipeline{
			Estado:        dto.PipelinePendiente,
			Avance:        0,
			PasoActual:    actual,
			SiguientePaso: siguiente,
		}
	}
	return &dto.Progreso{
		ID:            uuid.NewString(),
		SolicitudID:   solicitudID,
		Logo:          pendiente("Recopilación de referencias de marca", "Propuestas de logo"),
		SitioWeb:      pendiente("Definición de contenido", "Diseño de la página"),
		RedesSociales: pendiente("Creación de cuentas", "Línea gráfica de publicaciones"),
		Empresa:       pendiente("Reserva de denominación", "Elaboración de estatutos"),
		Facturacion:   pendiente("Solicitud de RUC", "Configuración de facturación electrónica"),
		Firma:         pendiente("Solicitud de firma electrónica", "Entrega de la firma"),
		CreadoEn:      ahora,
		ActualizadoEn: ahora,
	}
}

// PipelineParche es una edición parcial de un pipeline: solo los campos
// presentes cambian. estado y avance se aceptan por separado aunque queden
// incoherentes entre sí; así trabaja el equipo.
type PipelineParche struct {
	Estado        *string `json:"estado"`
	Avance        *int    `json:"avance"`
	PasoActual    *string `json:"paso_actual"`
	SiguientePaso *string `json:"siguiente_paso"`
}

// AplicarA copia sobre el pipeline solo los campos presentes en el parche.
func (p PipelineParche) AplicarA(pl *dto.Pipeline) {
	if p.Estado != nil {
		pl.Estado = *p.Estado
	}
	if p.Avance != nil {
		pl.Avance = *p.Avance
	}
	if p.PasoActual != nil {
		pl.PasoActual = *p.PasoActual
	}
	if p.SiguientePaso != nil {
		pl.SiguientePaso = *p.SiguientePaso
	}
}

func estadoPipelineValido(estado string) bool {
	switch estado {
	case dto.PipelinePendiente, dto.PipelineEnProgreso, dto.PipelineCompletado:
		return true
	}
	return false
}

func nombrePipelineValido(nombre string) bool {
	switch nombre {
	case dto.PipelineLogo, dto.PipelineSitioWeb, dto.PipelineRedesSociales,
		dto.PipelineEmpresa, dto.PipelineFacturacion, dto.PipelineFirma:
		return true
	}
	return false
}

// ObtenerProgreso devuelve el progreso de una solicitud, visible para su
// dueño o para el equipo. ErrNoEncontrado si el lanzamiento no ha arrancado.
func (s *Servicio) ObtenerProgreso(ctx context.Context, solicitudID string, actor dto.Actor) (*dto.Progreso, error) {
	sol, err := s.Solicitudes.PorID(ctx, solicitudID)
	if err != nil {
		return nil, err
	}
	if !Autorizar(actor, AccionVerSolicitud, Recurso{Solicitud: sol}) {
		return nil, ErrProhibido
	}
	return s.Progresos.PorSolicitud(ctx, solicitudID)
}

// ActualizarProgreso aplica parches por pipeline. Solo se valida la forma:
// pipeline conocido, estado dentro del enum y avance entre 0 y 100. El
// almacén aplica los parches sobre su propia lectura y escribe solo los
// pipelines tocados, así dos ediciones concurrentes de pipelines distintos
// no se pisan entre sí.
func (s *Servicio) ActualizarProgreso(ctx context.Context, progresoID string, parches map[string]PipelineParche, actor dto.Actor) (*dto.Progreso, error) {
	if !Autorizar(actor, AccionEditarProgreso, Recurso{}) {
		return nil, ErrProhibido
	}
	if len(parches) == 0 {
		return nil, ErrValidacion
	}
	for nombre, parche := range parches {
		if !nombrePipelineValido(nombre) {
			return nil, ErrValidacion
		}
		if parche.Estado != nil && !estadoPipelineValido(*parche.Estado) {
			return nil, ErrValidacion
		}
		if parche.Avance != nil && (*parche.Avance < 0 || *parche.Avance > 100) {
			return nil, ErrValidacion
		}
	}
	return s.Progresos.Parchar(ctx, progresoID, parches)
}
