// Interfaces de persistencia del núcleo. Las operaciones sensibles a la
// concurrencia viven en el almacén: iniciar y responder son check-and-set,
// y el parche de progreso es una lectura-modificación-escritura bajo una
// sola transacción o bloqueo.

package servicio

import (
	"context"

	"losimple/dto"
)

type AlmacenSolicitudes interface {
	PorID(ctx context.Context, id string) (*dto.Solicitud, error)
	PorUsuario(ctx context.Context, usuarioID string) (*dto.Solicitud, error)
	Crear(ctx context.Context, s *dto.Solicitud) error
	Guardar(ctx context.Context, s *dto.Solicitud) error

	// Iniciar marca la solicitud como iniciada y crea su progreso en una sola
	// operación atómica, solo si iniciada=false, estado_pago=completado y
	// formulario_completo=true. Devuelve false si la guarda no se cumplió.
	Iniciar(ctx context.Context, solicitudID string, p *dto.Progreso) (bool, error)

	Asignar(ctx context.Context, solicitudID string, asignadaA *string) error
	CambiarEstadoAdmin(ctx context.Context, solicitudID, estado string) error
	MarcarPagoCompletado(ctx context.Context, solicitudID string, monto float64) error

	// Listar devuelve todas las solicitudes, opcionalmente filtradas por
	// estado_admin. ListarAsignadas devuelve solo las asignadas a un usuario.
	// Ambas ordenan de la más reciente a la más antigua por creado_en.
	Listar(ctx context.Context, filtroEstado string) ([]dto.Solicitud, error)
	ListarAsignadas(ctx context.Context, usuarioID string) ([]dto.Solicitud, error)
}

type AlmacenProgresos interface {
	PorID(ctx context.Context, id string) (*dto.Progreso, error)
	PorSolicitud(ctx context.Context, solicitudID string) (*dto.Progreso, error)

	// Parchar aplica los parches sobre el progreso leído dentro de la misma
	// transacción o bloqueo y escribe solo los pipelines parchados, para que
	// ediciones concurrentes de pipelines distintos no se sobrescriban.
	// Devuelve el progreso resultante.
	Parchar(ctx context.Context, progresoID string, parches map[string]PipelineParche) (*dto.Progreso, error)
}

type AlmacenMensajes interface {
	PorID(ctx context.Context, id string) (*dto.Mensaje, error)
	Crear(ctx context.Context, m *dto.Mensaje) error
	PorSolicitud(ctx context.Context, solicitudID string) ([]dto.Mensaje, error)

	// Responder guarda la respuesta del cliente solo si aún no existe una.
	// Devuelve false si el mensaje ya tenía respuesta.
	Responder(ctx context.Context, mensajeID, texto string) (bool, error)

	Resolver(ctx context.Context, mensajeID string, resuelto bool) error
}

type AlmacenUsuarios interface {
	PorID(ctx context.Context, id string) (*dto.Usuario, error)
	PorCorreo(ctx context.Context, correo string) (*dto.Usuario, error)
	Crear(ctx context.Context, u *dto.Usuario) error
}

type AlmacenBitacora interface {
	CrearAnticipo(ctx context.Context, a *dto.Anticipo) error
	AnticiposPorSolicitud(ctx context.Context, solicitudID string) ([]dto.Anticipo, error)
	CrearObservacion(ctx context.Context, o *dto.Observacion) error
	ObservacionesPorSolicitud(ctx context.Context, solicitudID string) ([]dto.Observacion, error)
}
