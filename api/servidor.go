package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"losimple/servicio"
)

var nucleo *servicio.Servicio

func InicializarServidor(s *servicio.Servicio) *gin.Engine {
	nucleo = s
	router := gin.Default()

	// Middleware CORS para el frontend
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"POST", "GET", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Token-Pago"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// RUTAS PÚBLICAS
	router.POST("/usuarios", RegistrarUsuario)
	router.POST("/login", LoginUsuario)
	router.POST("/pagos/confirmar", ConfirmarPago)

	// RUTAS PROTEGIDAS

	autorizado := router.Group("/")
	autorizado.Use(Autenticar())

	autorizado.GET("/solicitud", ObtenerMiSolicitud)
	autorizado.PUT("/solicitud/paso", GuardarPaso)
	autorizado.POST("/solicitud/iniciar", IniciarLanzamiento)

	autorizado.GET("/solicitudes/:id", VerSolicitud)
	autorizado.GET("/solicitudes/:id/progreso", ObtenerProgreso)
	autorizado.PATCH("/progreso/:id", ActualizarProgreso)

	autorizado.GET("/solicitudes/:id/mensajes", ListarMensajes)
	autorizado.POST("/solicitudes/:id/mensajes", PublicarMensaje)
	autorizado.PATCH("/mensajes/:id/responder", ResponderMensaje)
	autorizado.PATCH("/mensajes/:id/resolver", ResolverMensaje)

	autorizado.GET("/admin/solicitudes", ListarSolicitudesAdmin)
	autorizado.PATCH("/solicitudes/:id/asignar", AsignarSolicitud)
	autorizado.PATCH("/solicitudes/:id/estado", CambiarEstadoSolicitud)
	autorizado.POST("/admin/usuarios", RegistrarUsuarioComoAdmin)

	autorizado.GET("/solicitudes/:id/anticipos", ListarAnticipos)
	autorizado.POST("/solicitudes/:id/anticipos", RegistrarAnticipo)
	autorizado.GET("/solicitudes/:id/observaciones", ListarObservaciones)
	autorizado.POST("/solicitudes/:id/observaciones", RegistrarObservacion)

	autorizado.GET("/solicitudes/:id/recibo", GenerarReciboPDF)

	return router
}
