// Autorización por capacidades. Todas las reglas de rol y propiedad viven
// aquí; la lógica de transiciones nunca compara roles directamente.

package servicio

import "losimple/dto"

type Accion string

const (
	AccionVerSolicitud     Accion = "ver_solicitud"
	AccionAsignar          Accion = "asignar"
	AccionCambiarEstado    Accion = "cambiar_estado"
	AccionEditarProgreso   Accion = "editar_progreso"
	AccionPublicarMensaje  Accion = "publicar_mensaje"
	AccionResponderMensaje Accion = "responder_mensaje"
	AccionResolverMensaje  Accion = "resolver_mensaje"
	AccionVerBitacora      Accion = "ver_bitacora"
)

// Alcance es el recorte de solicitudes que un rol puede listar.
type Alcance int

const (
	AlcanceNinguno Alcance = iota
	AlcanceTodas
	AlcanceAsignadas
)

// AlcanceListado decide qué listan los roles: todo para superadmin, solo lo
// asignado para simplificador, nada para el resto.
func AlcanceListado(actor dto.Actor) Alcance {
	switch actor.Rol {
	case dto.RolSuperadmin:
		return AlcanceTodas
	case dto.RolSimplificador:
		return AlcanceAsignadas
	}
	return AlcanceNinguno
}

// Recurso describe la entidad sobre la que se pide la acción.
type Recurso struct {
	Solicitud *dto.Solicitud
	// AsignadaA es el valor propuesto para asignada_a, solo en AccionAsignar.
	AsignadaA *string
}

// Autorizar decide si el actor puede ejecutar la acción sobre el recurso.
//
// Reglas de asignación: un superadmin asigna a cualquier miembro del equipo o
// desasigna; un simplificador solo puede reclamar la solicitud para sí mismo.
func Autorizar(actor dto.Actor, accion Accion, r Recurso) bool {
	switch accion {
	case AccionAsignar:
		switch actor.Rol {
		case dto.RolSuperadmin:
			return true
		case dto.RolSimplificador:
			return r.AsignadaA != nil && *r.AsignadaA == actor.ID
		}
		return false

	case AccionResponderMensaje:
		// Solo el cliente dueño de la solicitud responde mensajes.
		return actor.Rol == dto.RolCliente &&
			r.Solicitud != nil && r.Solicitud.UsuarioID == actor.ID

	case AccionResolverMensaje, AccionVerSolicitud:
		if dto.EsEquipo(actor.Rol) {
			return true
		}
		return r.Solicitud != nil && r.Solicitud.UsuarioID == actor.ID

	case AccionCambiarEstado, AccionEditarProgreso, AccionPublicarMensaje, AccionVerBitacora:
		return dto.EsEquipo(actor.Rol)
	}
	return false
}
