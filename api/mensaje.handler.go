// Manejador del hilo de mensajes equipo-cliente.

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /solicitudes/:id/mensajes
func ListarMensajes(c *gin.Context) {
	actor := actorDesdeContexto(c)

	mensajes, err := nucleo.ListarMensajes(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		responderError(c, err, "Error al consultar los mensajes")
		return
	}
	c.JSON(http.StatusOK, mensajes)
}

// POST /solicitudes/:id/mensajes — solo el equipo publica en el hilo.
func PublicarMensaje(c *gin.Context) {
	actor := actorDesdeContexto(c)
	nombre, _ := c.Get("nombre")
	nombreEmisor, _ := nombre.(string)

	var entrada struct {
		Mensaje string `json:"mensaje"`
	}
	if err := c.ShouldBindJSON(&entrada); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	m, err := nucleo.PublicarMensaje(c.Request.Context(), c.Param("id"), entrada.Mensaje, nombreEmisor, actor)
	if err != nil {
		responderError(c, err, "Error al publicar el mensaje")
		return
	}
	c.JSON(http.StatusCreated, m)
}

// PATCH /mensajes/:id/responder — una sola respuesta por mensaje; el segundo
// intento recibe 412.
func ResponderMensaje(c *gin.Context) {
	actor := actorDesdeContexto(c)

	var entrada struct {
		Respuesta string `json:"respuesta"`
	}
	if err := c.ShouldBindJSON(&entrada); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	m, err := nucleo.ResponderMensaje(c.Request.Context(), c.Param("id"), entrada.Respuesta, actor)
	if err != nil {
		responderError(c, err, "Error al responder el mensaje")
		return
	}
	c.JSON(http.StatusOK, m)
}

// PATCH /mensajes/:id/resolver
func ResolverMensaje(c *gin.Context) {
	actor := actorDesdeContexto(c)

	var entrada struct {
		Resuelto *bool `json:"resuelto"`
	}
	if err := c.ShouldBindJSON(&entrada); err != nil || entrada.Resuelto == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	m, err := nucleo.ResolverMensaje(c.Request.Context(), c.Param("id"), *entrada.Resuelto, actor)
	if err != nil {
		responderError(c, err, "Error al resolver el mensaje")
		return
	}
	c.JSON(http.StatusOK, m)
}
