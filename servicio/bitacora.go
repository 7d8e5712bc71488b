// Bitácora interna de una solicitud: observaciones del equipo y anticipos
// registrados contra el valor del servicio. Solo visible para el equipo.

package servicio

import (
	"context"
	"time"

	"github.com/google/uuid"

	"losimple/dto"
)

func (s *Servicio) RegistrarAnticipo(ctx context.Context, solicitudID string, monto float64, descripcion string, actor dto.Actor) (*dto.Anticipo, error) {
	if !Autorizar(actor, AccionVerBitacora, Recurso{}) {
		return nil, ErrProhibido
	}
	if monto <= 0 {
		return nil, ErrValidacion
	}
	if _, err := s.Solicitudes.PorID(ctx, solicitudID); err != nil {
		return nil, err
	}

	a := &dto.Anticipo{
		ID:          uuid.NewString(),
		SolicitudID: solicitudID,
		Monto:       monto,
		Descripcion: descripcion,
		CreadoEn:    time.Now(),
	}
	if err := s.Bitacora.CrearAnticipo(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Servicio) ListarAnticipos(ctx context.Context, solicitudID string, actor dto.Actor) ([]dto.Anticipo, error) {
	if !Autorizar(actor, AccionVerBitacora, Recurso{}) {
		return nil, ErrProhibido
	}
	if _, err := s.Solicitudes.PorID(ctx, solicitudID); err != nil {
		return nil, err
	}
	return s.Bitacora.AnticiposPorSolicitud(ctx, solicitudID)
}

func (s *Servicio) RegistrarObservacion(ctx context.Context, solicitudID, texto, autorNombre string, actor dto.Actor) (*dto.Observacion, error) {
	if !Autorizar(actor, AccionVerBitacora, Recurso{}) {
		return nil, ErrProhibido
	}
	if texto == "" {
		return nil, ErrValidacion
	}
	if _, err := s.Solicitudes.PorID(ctx, solicitudID); err != nil {
		return nil, err
	}

	o := &dto.Observacion{
		ID:          uuid.NewString(),
		SolicitudID: solicitudID,
		AutorNombre: autorNombre,
		Texto:       texto,
		CreadoEn:    time.Now(),
	}
	if err := s.Bitacora.CrearObservacion(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Servicio) ListarObservaciones(ctx context.Context, solicitudID string, actor dto.Actor) ([]dto.Observacion, error) {
	if !Autorizar(actor, AccionVerBitacora, Recurso{}) {
		return nil, ErrProhibido
	}
	if _, err := s.Solicitudes.PorID(ctx, solicitudID); err != nil {
		return nil, err
	}
	return s.Bitacora.ObservacionesPorSolicitud(ctx, solicitudID)
}
