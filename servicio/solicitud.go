// Ciclo de vida de la solicitud de lanzamiento: guardado incremental del
// formulario, arranque, asignación y listado con alcance por rol.

package servicio

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"losimple/dto"
)

type Servicio struct {
	Solicitudes AlmacenSolicitudes
	Progresos   AlmacenProgresos
	Mensajes    AlmacenMensajes
	Usuarios    AlmacenUsuarios
	Bitacora    AlmacenBitacora
}

func Nuevo(sol AlmacenSolicitudes, prog AlmacenProgresos, men AlmacenMensajes, usu AlmacenUsuarios, bit AlmacenBitacora) *Servicio {
	return &Servicio{
		Solicitudes: sol,
		Progresos:   prog,
		Mensajes:    men,
		Usuarios:    usu,
		Bitacora:    bit,
	}
}

// Respuestas son las secciones del formulario que llegan en un guardado de
// paso. Cada sección es una bolsa abierta de campos opcionales; solo se
// valida la forma de los valores, nunca su completitud de negocio.
type Respuestas struct {
	DatosPersonales  map[string]any `json:"datos_personales"`
	DatosEmpresa     map[string]any `json:"datos_empresa"`
	DatosMarca       map[string]any `json:"datos_marca"`
	DatosFacturacion map[string]any `json:"datos_facturacion"`
}

func valorValido(v any) bool {
	switch v := v.(type) {
	case nil, string, bool, float64:
		return true
	case []any:
		for _, e := range v {
			switch e.(type) {
			case string, bool, float64:
			default:
				return false
			}
		}
		return true
	default:
		return false
	}
}

func validarSeccion(m map[string]any) bool {
	for _, v := range m {
		if !valorValido(v) {
			return false
		}
	}
	return true
}

func fusionar(destino map[string]any, origen map[string]any) map[string]any {
	if origen == nil {
		return destino
	}
	if destino == nil {
		destino = map[string]any{}
	}
	for k, v := range origen {
		destino[k] = v
	}
	return destino
}

// ObtenerSolicitud devuelve la solicitud del usuario, o ErrNoEncontrado si
// todavía no ha guardado ningún paso.
func (s *Servicio) ObtenerSolicitud(ctx context.Context, usuarioID string) (*dto.Solicitud, error) {
	return s.Solicitudes.PorUsuario(ctx, usuarioID)
}

// GuardarPaso persiste un paso del formulario. Crea la solicitud en el primer
// guardado (a lo sumo una por usuario) y después fusiona las respuestas sobre
// lo ya guardado. No se impone orden entre pasos: el cliente puede retroceder
// o saltar, igual que en el formulario original.
func (s *Servicio) GuardarPaso(ctx context.Context, usuarioID string, paso int, r Respuestas) (*dto.Solicitud, error) {
	if paso < 1 || paso > dto.PasoFinal {
		return nil, ErrValidacion
	}
	for _, seccion := range []map[string]any{r.DatosPersonales, r.DatosEmpresa, r.DatosMarca, r.DatosFacturacion} {
		if !validarSeccion(seccion) {
			return nil, ErrValidacion
		}
	}

	ahora := time.Now()
	nueva := false
	sol, err := s.Solicitudes.PorUsuario(ctx, usuarioID)
	if errors.Is(err, ErrNoEncontrado) {
		// Primer guardado: se crea el borrador (a lo sumo uno por usuario).
		nueva = true
		sol = &dto.Solicitud{
			ID:         uuid.NewString(),
			UsuarioID:  usuarioID,
			EstadoPago: dto.PagoPendiente,
			CreadoEn:   ahora,
		}
	} else if err != nil {
		return nil, err
	}

	sol.PasoActual = paso
	sol.FormularioCompleto = paso == dto.PasoFinal
	sol.DatosPersonales = fusionar(sol.DatosPersonales, r.DatosPersonales)
	sol.DatosEmpresa = fusionar(sol.DatosEmpresa, r.DatosEmpresa)
	sol.DatosMarca = fusionar(sol.DatosMarca, r.DatosMarca)
	sol.DatosFacturacion = fusionar(sol.DatosFacturacion, r.DatosFacturacion)
	sol.ActualizadoEn = ahora

	if nueva {
		err = s.Solicitudes.Crear(ctx, sol)
	} else {
		err = s.Solicitudes.Guardar(ctx, sol)
	}
	if err != nil {
		return nil, err
	}
	return sol, nil
}

// Iniciar arranca el lanzamiento: exige pago completado y formulario
// completo, marca la solicitud como iniciada y crea su progreso con los
// textos iniciales de cada pipeline. La guarda se evalúa con check-and-set
// en el almacén, así que dos llamadas simultáneas nunca crean dos progresos;
// la segunda recibe ErrPrecondicion.
func (s *Servicio) Iniciar(ctx context.Context, usuarioID string) (*dto.Solicitud, error) {
	sol, err := s.Solicitudes.PorUsuario(ctx, usuarioID)
	if err != nil {
		return nil, err
	}

	prog := progresoInicial(sol.ID)
	ok, err := s.Solicitudes.Iniciar(ctx, sol.ID, prog)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPrecondicion
	}

	sol.Iniciada = true
	sol.EstadoAdmin = "new"
	sol.ActualizadoEn = time.Now()
	return sol, nil
}

// ConfirmarPago registra la confirmación que manda el procesador de pagos.
// El núcleo solo escribe el campo; nunca habla con el procesador.
func (s *Servicio) ConfirmarPago(ctx context.Context, solicitudID string, monto float64) (*dto.Solicitud, error) {
	if monto <= 0 {
		return nil, ErrValidacion
	}
	if err := s.Solicitudes.MarcarPagoCompletado(ctx, solicitudID, monto); err != nil {
		return nil, err
	}
	return s.Solicitudes.PorID(ctx, solicitudID)
}

// Asignar cambia la asignación de una solicitud respetando las reglas de rol:
// superadmin asigna libremente, simplificador solo se reclama a sí mismo.
func (s *Servicio) Asignar(ctx context.Context, solicitudID string, asignadaA *string, actor dto.Actor) (*dto.Solicitud, error) {
	sol, err := s.Solicitudes.PorID(ctx, solicitudID)
	if err != nil {
		return nil, err
	}
	if !Autorizar(actor, AccionAsignar, Recurso{Solicitud: sol, AsignadaA: asignadaA}) {
		return nil, ErrProhibido
	}
	if asignadaA != nil {
		destinatario, err := s.Usuarios.PorID(ctx, *asignadaA)
		if err != nil {
			return nil, err
		}
		if !dto.EsEquipo(destinatario.Rol) {
			return nil, ErrValidacion
		}
	}
	if err := s.Solicitudes.Asignar(ctx, solicitudID, asignadaA); err != nil {
		return nil, err
	}
	sol.AsignadaA = asignadaA
	sol.ActualizadoEn = time.Now()
	return sol, nil
}

// CambiarEstadoAdmin mueve la solicitud a otra columna del tablero admin.
func (s *Servicio) CambiarEstadoAdmin(ctx context.Context, solicitudID, estado string, actor dto.Actor) (*dto.Solicitud, error) {
	if !Autorizar(actor, AccionCambiarEstado, Recurso{}) {
		return nil, ErrProhibido
	}
	if estado == "" {
		return nil, ErrValidacion
	}
	if err := s.Solicitudes.CambiarEstadoAdmin(ctx, solicitudID, estado); err != nil {
		return nil, err
	}
	return s.Solicitudes.PorID(ctx, solicitudID)
}

// ListarSolicitudes devuelve las solicitudes que el alcance del actor
// permite: todas para superadmin (con filtro opcional por estado_admin),
// solo las propias asignadas para simplificador.
func (s *Servicio) ListarSolicitudes(ctx context.Context, actor dto.Actor, filtroEstado string) ([]dto.Solicitud, error) {
	switch AlcanceListado(actor) {
	case AlcanceTodas:
		return s.Solicitudes.Listar(ctx, filtroEstado)
	case AlcanceAsignadas:
		return s.Solicitudes.ListarAsignadas(ctx, actor.ID)
	}
	return nil, ErrProhibido
}

// VerSolicitud devuelve una solicitud por id, visible para su dueño o para
// cualquier miembro del equipo.
func (s *Servicio) VerSolicitud(ctx context.Context, solicitudID string, actor dto.Actor) (*dto.Solicitud, error) {
	sol, err := s.Solicitudes.PorID(ctx, solicitudID)
	if err != nil {
		return nil, err
	}
	if !Autorizar(actor, AccionVerSolicitud, Recurso{Solicitud: sol}) {
		return nil, ErrProhibido
	}
	return sol, nil
}
