// Almacén en memoria. Implementa las mismas interfaces que los almacenes
// MySQL y reproduce sus garantías de check-and-set bajo un mutex; lo usan
// las pruebas del núcleo y de los handlers sin levantar una base de datos.

package almacen

import (
	"context"
	"sort"
	"sync"
	"time"

	"losimple/dto"
	"losimple/servicio"
)

type Memoria struct {
	mu            sync.Mutex
	solicitudes   map[string]dto.Solicitud
	progresos     map[string]dto.Progreso
	mensajes      map[string]dto.Mensaje
	ordenMensajes []string
	usuarios      map[string]dto.Usuario
	anticipos     map[string][]dto.Anticipo
	observaciones map[string][]dto.Observacion
}

func NuevaMemoria() *Memoria {
	return &Memoria{
		solicitudes:   map[string]dto.Solicitud{},
		progresos:     map[string]dto.Progreso{},
		mensajes:      map[string]dto.Mensaje{},
		usuarios:      map[string]dto.Usuario{},
		anticipos:     map[string][]dto.Anticipo{},
		observaciones: map[string][]dto.Observacion{},
	}
}

// --- solicitudes ---

func (m *Memoria) PorID(ctx context.Context, id string) (*dto.Solicitud, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, existe := m.solicitudes[id]
	if !existe {
		return nil, servicio.ErrNoEncontrado
	}
	return &s, nil
}

func (m *Memoria) PorUsuario(ctx context.Context, usuarioID string) (*dto.Solicitud, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.solicitudes {
		if s.UsuarioID == usuarioID {
			s := s
			return &s, nil
		}
	}
	return nil, servicio.ErrNoEncontrado
}

func (m *Memoria) Crear(ctx context.Context, s *dto.Solicitud) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.solicitudes[s.ID] = *s
	return nil
}

func (m *Memoria) Guardar(ctx context.Context, s *dto.Solicitud) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, existe := m.solicitudes[s.ID]; !existe {
		return servicio.ErrNoEncontrado
	}
	m.solicitudes[s.ID] = *s
	return nil
}

func (m *Memoria) Iniciar(ctx context.Context, solicitudID string, p *dto.Progreso) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, existe := m.solicitudes[solicitudID]
	if !existe {
		return false, servicio.ErrNoEncontrado
	}
	if s.Iniciada || s.EstadoPago != dto.PagoCompletado || !s.FormularioCompleto {
		return false, nil
	}
	s.Iniciada = true
	s.EstadoAdmin = "new"
	s.ActualizadoEn = time.Now()
	m.solicitudes[solicitudID] = s
	m.progresos[p.ID] = *p
	return true, nil
}

func (m *Memoria) Asignar(ctx context.Context, solicitudID string, asignadaA *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, existe := m.solicitudes[solicitudID]
	if !existe {
		return servicio.ErrNoEncontrado
	}
	s.AsignadaA = asignadaA
	s.ActualizadoEn = time.Now()
	m.solicitudes[solicitudID] = s
	return nil
}

func (m *Memoria) CambiarEstadoAdmin(ctx context.Context, solicitudID, estado string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, existe := m.solicitudes[solicitudID]
	if !existe {
		return servicio.ErrNoEncontrado
	}
	s.EstadoAdmin = estado
	s.ActualizadoEn = time.Now()
	m.solicitudes[solicitudID] = s
	return nil
}

func (m *Memoria) MarcarPagoCompletado(ctx context.Context, solicitudID string, monto float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, existe := m.solicitudes[solicitudID]
	if !existe {
		return servicio.ErrNoEncontrado
	}
	s.EstadoPago = dto.PagoCompletado
	s.MontoPagado = monto
	s.ActualizadoEn = time.Now()
	m.solicitudes[solicitudID] = s
	return nil
}

func (m *Memoria) Listar(ctx context.Context, filtroEstado string) ([]dto.Solicitud, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var resultado []dto.Solicitud
	for _, s := range m.solicitudes {
		if filtroEstado == "" || s.EstadoAdmin == filtroEstado {
			resultado = append(resultado, s)
		}
	}
	ordenarPorCreacion(resultado)
	return resultado, nil
}

func (m *Memoria) ListarAsignadas(ctx context.Context, usuarioID string) ([]dto.Solicitud, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var resultado []dto.Solicitud
	for _, s := range m.solicitudes {
		if s.AsignadaA != nil && *s.AsignadaA == usuarioID {
			resultado = append(resultado, s)
		}
	}
	ordenarPorCreacion(resultado)
	return resultado, nil
}

// Más recientes primero, como el ORDER BY creado_en DESC del almacén MySQL.
func ordenarPorCreacion(solicitudes []dto.Solicitud) {
	sort.Slice(solicitudes, func(i, j int) bool {
		return solicitudes[i].CreadoEn.After(solicitudes[j].CreadoEn)
	})
}

// --- progresos ---

func (m *Memoria) ProgresoPorID(ctx context.Context, id string) (*dto.Progreso, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, existe := m.progresos[id]
	if !existe {
		return nil, servicio.ErrNoEncontrado
	}
	return &p, nil
}

func (m *Memoria) ProgresoPorSolicitud(ctx context.Context, solicitudID string) (*dto.Progreso, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.progresos {
		if p.SolicitudID == solicitudID {
			p := p
			return &p, nil
		}
	}
	return nil, servicio.ErrNoEncontrado
}

// ParcharProgreso aplica los parches sobre la copia leída y la guarda sin
// soltar el mutex, igual que la transacción del almacén MySQL.
func (m *Memoria) ParcharProgreso(ctx context.Context, progresoID string, parches map[string]servicio.PipelineParche) (*dto.Progreso, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, existe := m.progresos[progresoID]
	if !existe {
		return nil, servicio.ErrNoEncontrado
	}
	for nombre, parche := range parches {
		pipeline := p.PorNombre(nombre)
		if pipeline == nil {
			return nil, servicio.ErrValidacion
		}
		parche.AplicarA(pipeline)
	}
	p.ActualizadoEn = time.Now()
	m.progresos[progresoID] = p
	return &p, nil
}

// Progresos adapta la Memoria a la interfaz AlmacenProgresos, cuyos nombres
// de método chocan con los de solicitudes.
type progresosMemoria struct{ m *Memoria }

func (m *Memoria) Progresos() servicio.AlmacenProgresos { return progresosMemoria{m} }

func (p progresosMemoria) PorID(ctx context.Context, id string) (*dto.Progreso, error) {
	return p.m.ProgresoPorID(ctx, id)
}

func (p progresosMemoria) PorSolicitud(ctx context.Context, solicitudID string) (*dto.Progreso, error) {
	return p.m.ProgresoPorSolicitud(ctx, solicitudID)
}

func (p progresosMemoria) Parchar(ctx context.Context, progresoID string, parches map[string]servicio.PipelineParche) (*dto.Progreso, error) {
	return p.m.ParcharProgreso(ctx, progresoID, parches)
}

// --- mensajes ---

func (m *Memoria) MensajePorID(ctx context.Context, id string) (*dto.Mensaje, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	men, existe := m.mensajes[id]
	if !existe {
		return nil, servicio.ErrNoEncontrado
	}
	return &men, nil
}

func (m *Memoria) CrearMensaje(ctx context.Context, men *dto.Mensaje) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mensajes[men.ID] = *men
	m.ordenMensajes = append(m.ordenMensajes, men.ID)
	return nil
}

func (m *Memoria) MensajesPorSolicitud(ctx context.Context, solicitudID string) ([]dto.Mensaje, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var resultado []dto.Mensaje
	for _, id := range m.ordenMensajes {
		if men := m.mensajes[id]; men.SolicitudID == solicitudID {
			resultado = append(resultado, men)
		}
	}
	return resultado, nil
}

func (m *Memoria) ResponderMensaje(ctx context.Context, mensajeID, texto string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	men, existe := m.mensajes[mensajeID]
	if !existe {
		return false, servicio.ErrNoEncontrado
	}
	if men.RespuestaCliente != nil {
		return false, nil
	}
	men.RespuestaCliente = &texto
	m.mensajes[mensajeID] = men
	return true, nil
}

func (m *Memoria) ResolverMensaje(ctx context.Context, mensajeID string, resuelto bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	men, existe := m.mensajes[mensajeID]
	if !existe {
		return servicio.ErrNoEncontrado
	}
	men.Resuelto = resuelto
	m.mensajes[mensajeID] = men
	return nil
}

type mensajesMemoria struct{ m *Memoria }

func (m *Memoria) Mensajes() servicio.AlmacenMensajes { return mensajesMemoria{m} }

func (a mensajesMemoria) PorID(ctx context.Context, id string) (*dto.Mensaje, error) {
	return a.m.MensajePorID(ctx, id)
}

func (a mensajesMemoria) Crear(ctx context.Context, men *dto.Mensaje) error {
	return a.m.CrearMensaje(ctx, men)
}

func (a mensajesMemoria) PorSolicitud(ctx context.Context, solicitudID string) ([]dto.Mensaje, error) {
	return a.m.MensajesPorSolicitud(ctx, solicitudID)
}

func (a mensajesMemoria) Responder(ctx context.Context, mensajeID, texto string) (bool, error) {
	return a.m.ResponderMensaje(ctx, mensajeID, texto)
}

func (a mensajesMemoria) Resolver(ctx context.Context, mensajeID string, resuelto bool) error {
	return a.m.ResolverMensaje(ctx, mensajeID, resuelto)
}

// --- usuarios ---

func (m *Memoria) UsuarioPorID(ctx context.Context, id string) (*dto.Usuario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, existe := m.usuarios[id]
	if !existe {
		return nil, servicio.ErrNoEncontrado
	}
	return &u, nil
}

func (m *Memoria) UsuarioPorCorreo(ctx context.Context, correo string) (*dto.Usuario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.usuarios {
		if u.Correo == correo {
			u := u
			return &u, nil
		}
	}
	return nil, servicio.ErrNoEncontrado
}

func (m *Memoria) CrearUsuario(ctx context.Context, u *dto.Usuario) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usuarios[u.ID] = *u
	return nil
}

type usuariosMemoria struct{ m *Memoria }

func (m *Memoria) Usuarios() servicio.AlmacenUsuarios { return usuariosMemoria{m} }

func (a usuariosMemoria) PorID(ctx context.Context, id string) (*dto.Usuario, error) {
	return a.m.UsuarioPorID(ctx, id)
}

func (a usuariosMemoria) PorCorreo(ctx context.Context, correo string) (*dto.Usuario, error) {
	return a.m.UsuarioPorCorreo(ctx, correo)
}

func (a usuariosMemoria) Crear(ctx context.Context, u *dto.Usuario) error {
	return a.m.CrearUsuario(ctx, u)
}

// --- bitácora ---

func (m *Memoria) CrearAnticipo(ctx context.Context, a *dto.Anticipo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.anticipos[a.SolicitudID] = append(m.anticipos[a.SolicitudID], *a)
	return nil
}

func (m *Memoria) AnticiposPorSolicitud(ctx context.Context, solicitudID string) ([]dto.Anticipo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]dto.Anticipo(nil), m.anticipos[solicitudID]...), nil
}

func (m *Memoria) CrearObservacion(ctx context.Context, o *dto.Observacion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observaciones[o.SolicitudID] = append(m.observaciones[o.SolicitudID], *o)
	return nil
}

func (m *Memoria) ObservacionesPorSolicitud(ctx context.Context, solicitudID string) ([]dto.Observacion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]dto.Observacion(nil), m.observaciones[solicitudID]...), nil
}

// Servicio arma un Servicio completo sobre esta memoria.
func (m *Memoria) Servicio() *servicio.Servicio {
	return servicio.Nuevo(m, m.Progresos(), m.Mensajes(), m.Usuarios(), m)
}
