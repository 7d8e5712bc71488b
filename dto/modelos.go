// Definición de estructuras de datos principales: Usuario, Solicitud, Progreso, Mensaje.

package dto

import (
	"time"
)

// Roles de usuario
const (
	RolCliente       = "cliente"
	RolSimplificador = "simplificador"
	RolSuperadmin    = "superadmin"
)

// Estados de pago de una solicitud
const (
	PagoPendiente  = "pendiente"
	PagoCompletado = "completado"
)

// Estados de un pipeline de entrega
const (
	PipelinePendiente  = "pendiente"
	PipelineEnProgreso = "en_progreso"
	PipelineCompletado = "completado"
)

// PasoFinal es el último paso del formulario de lanzamiento.
const PasoFinal = 8

type Usuario struct {
	ID         string    `json:"id"`
	Nombre     string    `json:"nombre"`
	Correo     string    `json:"correo"`
	Cedula     string    `json:"cedula"`
	Contrasena string    `json:"-"`
	Rol        string    `json:"rol"` // cliente, simplificador o superadmin
	CreadoEn   time.Time `json:"creado_en"`
}

// EsEquipo indica si el rol pertenece al equipo interno.
func EsEquipo(rol string) bool {
	return rol == RolSimplificador || rol == RolSuperadmin
}

// Actor es el usuario autenticado que ejecuta una operación,
// tal como llega desde el token JWT.
type Actor struct {
	ID  string
	Rol string
}

// Solicitud es el registro canónico del onboarding de un cliente:
// respuestas del formulario, estado de pago, arranque y asignación.
type Solicitud struct {
	ID                 string         `json:"id"`
	UsuarioID          string         `json:"usuario_id"`
	PasoActual         int            `json:"paso_actual"` // 1..8
	FormularioCompleto bool           `json:"formulario_completo"`
	DatosPersonales    map[string]any `json:"datos_personales"`
	DatosEmpresa       map[string]any `json:"datos_empresa"`
	DatosMarca         map[string]any `json:"datos_marca"`
	DatosFacturacion   map[string]any `json:"datos_facturacion"`
	EstadoPago         string         `json:"estado_pago"` // pendiente o completado
	MontoPagado        float64        `json:"monto_pagado"`
	Iniciada           bool           `json:"iniciada"`
	EstadoAdmin        string         `json:"estado_admin"` // columna del tablero admin, texto libre
	AsignadaA          *string        `json:"asignada_a"`
	CreadoEn           time.Time      `json:"creado_en"`
	ActualizadoEn      time.Time      `json:"actualizado_en"`
}

// Pipeline es un frente de entrega dentro del progreso de un lanzamiento.
// estado y avance se editan por separado desde el panel admin; no se fuerza
// que coincidan.
type Pipeline struct {
	Estado        string `json:"estado"` // pendiente, en_progreso, completado
	Avance        int    `json:"avance"` // 0..100
	PasoActual    string `json:"paso_actual"`
	SiguientePaso string `json:"siguiente_paso"`
}

// Nombres de los seis pipelines de entrega
const (
	PipelineLogo          = "logo"
	PipelineSitioWeb      = "sitio_web"
	PipelineRedesSociales = "redes_sociales"
	PipelineEmpresa       = "empresa"
	PipelineFacturacion   = "facturacion"
	PipelineFirma         = "firma"
)

type Progreso struct {
	ID            string    `json:"id"`
	SolicitudID   string    `json:"solicitud_id"`
	Logo          Pipeline  `json:"logo"`
	SitioWeb      Pipeline  `json:"sitio_web"`
	RedesSociales Pipeline  `json:"redes_sociales"`
	Empresa       Pipeline  `json:"empresa"`
	Facturacion   Pipeline  `json:"facturacion"`
	Firma         Pipeline  `json:"firma"`
	CreadoEn      time.Time `json:"creado_en"`
	ActualizadoEn time.Time `json:"actualizado_en"`
}

// PorNombre devuelve el pipeline pedido, o nil si el nombre no existe.
func (p *Progreso) PorNombre(nombre string) *Pipeline {
	switch nombre {
	case PipelineLogo:
		return &p.Logo
	case PipelineSitioWeb:
		return &p.SitioWeb
	case PipelineRedesSociales:
		return &p.RedesSociales
	case PipelineEmpresa:
		return &p.Empresa
	case PipelineFacturacion:
		return &p.Facturacion
	case PipelineFirma:
		return &p.Firma
	}
	return nil
}

// Mensaje es una entrada del hilo de comunicación equipo-cliente de una
// solicitud. El cliente puede responder una sola vez por mensaje.
type Mensaje struct {
	ID               string    `json:"id"`
	SolicitudID      string    `json:"solicitud_id"`
	Mensaje          string    `json:"mensaje"`
	RolEmisor        string    `json:"rol_emisor"`
	NombreEmisor     string    `json:"nombre_emisor"`
	RespuestaCliente *string   `json:"respuesta_cliente"`
	Resuelto         bool      `json:"resuelto"`
	CreadoEn         time.Time `json:"creado_en"`
}

// Anticipo es un abono parcial registrado contra el valor total del servicio.
type Anticipo struct {
	ID          string    `json:"id"`
	SolicitudID string    `json:"solicitud_id"`
	Monto       float64   `json:"monto"`
	Descripcion string    `json:"descripcion"`
	CreadoEn    time.Time `json:"creado_en"`
}

// Observacion es una nota interna de la bitácora de una solicitud.
type Observacion struct {
	ID          string    `json:"id"`
	SolicitudID string    `json:"solicitud_id"`
	AutorNombre string    `json:"autor_nombre"`
	Texto       string    `json:"texto"`
	CreadoEn    time.Time `json:"creado_en"`
}
