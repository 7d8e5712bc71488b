// Hilo de mensajes equipo-cliente de una solicitud. Comunicación asíncrona,
// no chat en tiempo real: el equipo publica, el cliente responde una sola
// vez por mensaje y cualquiera de los dos lados marca resuelto.

package servicio

import (
	"context"
	"time"

	"github.com/google/uuid"

	"losimple/dto"
)

// ListarMensajes devuelve el hilo de una solicitud en orden de creación.
func (s *Servicio) ListarMensajes(ctx context.Context, solicitudID string, actor dto.Actor) ([]dto.Mensaje, error) {
	sol, err := s.Solicitudes.PorID(ctx, solicitudID)
	if err != nil {
		return nil, err
	}
	if !Autorizar(actor, AccionVerSolicitud, Recurso{Solicitud: sol}) {
		return nil, ErrProhibido
	}
	return s.Mensajes.PorSolicitud(ctx, solicitudID)
}

// PublicarMensaje crea un mensaje del equipo en el hilo de la solicitud.
// Nace sin resolver y sin respuesta del cliente.
func (s *Servicio) PublicarMensaje(ctx context.Context, solicitudID, texto, nombreEmisor string, actor dto.Actor) (*dto.Mensaje, error) {
	if !Autorizar(actor, AccionPublicarMensaje, Recurso{}) {
		return nil, ErrProhibido
	}
	if texto == "" {
		return nil, ErrValidacion
	}
	if _, err := s.Solicitudes.PorID(ctx, solicitudID); err != nil {
		return nil, err
	}

	m := &dto.Mensaje{
		ID:           uuid.NewString(),
		SolicitudID:  solicitudID,
		Mensaje:      texto,
		RolEmisor:    actor.Rol,
		NombreEmisor: nombreEmisor,
		Resuelto:     false,
		CreadoEn:     time.Now(),
	}
	if err := s.Mensajes.Crear(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ResponderMensaje guarda la respuesta del cliente dueño. Cada mensaje admite
// una sola respuesta: el segundo intento falla con ErrPrecondicion en vez de
// sobrescribir.
func (s *Servicio) ResponderMensaje(ctx context.Context, mensajeID, texto string, actor dto.Actor) (*dto.Mensaje, error) {
	if texto == "" {
		return nil, ErrValidacion
	}
	m, err := s.Mensajes.PorID(ctx, mensajeID)
	if err != nil {
		return nil, err
	}
	sol, err := s.Solicitudes.PorID(ctx, m.SolicitudID)
	if err != nil {
		return nil, err
	}
	if !Autorizar(actor, AccionResponderMensaje, Recurso{Solicitud: sol}) {
		return nil, ErrProhibido
	}

	ok, err := s.Mensajes.Responder(ctx, mensajeID, texto)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPrecondicion
	}
	m.RespuestaCliente = &texto
	return m, nil
}

// ResolverMensaje marca o desmarca un mensaje como resuelto. Lo puede hacer
// el cliente dueño o cualquier miembro del equipo; no se guarda quién fue.
func (s *Servicio) ResolverMensaje(ctx context.Context, mensajeID string, resuelto bool, actor dto.Actor) (*dto.Mensaje, error) {
	m, err := s.Mensajes.PorID(ctx, mensajeID)
	if err != nil {
		return nil, err
	}
	sol, err := s.Solicitudes.PorID(ctx, m.SolicitudID)
	if err != nil {
		return nil, err
	}
	if !Autorizar(actor, AccionResolverMensaje, Recurso{Solicitud: sol}) {
		return nil, ErrProhibido
	}

	if err := s.Mensajes.Resolver(ctx, mensajeID, resuelto); err != nil {
		return nil, err
	}
	m.Resuelto = resuelto
	return m, nil
}
