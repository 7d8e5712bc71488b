// Manejador del ciclo de vida de solicitudes: formulario por pasos, arranque
// del lanzamiento, confirmación de pago, listado admin y asignación.

package api

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"losimple/servicio"
)

// GET /solicitud — la solicitud del usuario autenticado, o null si aún no
// guarda ningún paso.
func ObtenerMiSolicitud(c *gin.Context) {
	actor := actorDesdeContexto(c)

	sol, err := nucleo.ObtenerSolicitud(c.Request.Context(), actor.ID)
	if err == servicio.ErrNoEncontrado {
		c.JSON(http.StatusOK, nil)
		return
	}
	if err != nil {
		responderError(c, err, "Error al consultar la solicitud")
		return
	}
	c.JSON(http.StatusOK, sol)
}

// PUT /solicitud/paso
func GuardarPaso(c *gin.Context) {
	actor := actorDesdeContexto(c)

	var entrada struct {
		Paso int `json:"paso"`
		servicio.Respuestas
	}
	if err := c.ShouldBindJSON(&entrada); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	sol, err := nucleo.GuardarPaso(c.Request.Context(), actor.ID, entrada.Paso, entrada.Respuestas)
	if err != nil {
		responderError(c, err, "Error al guardar el paso")
		return
	}
	c.JSON(http.StatusOK, sol)
}

// POST /solicitud/iniciar — falla con 412 si el pago o el formulario no
// están completos.
func IniciarLanzamiento(c *gin.Context) {
	actor := actorDesdeContexto(c)

	sol, err := nucleo.Iniciar(c.Request.Context(), actor.ID)
	if err != nil {
		responderError(c, err, "Error al iniciar el lanzamiento")
		return
	}
	c.JSON(http.StatusOK, sol)
}

// POST /pagos/confirmar — callback del procesador de pagos, protegido por
// token compartido.
func ConfirmarPago(c *gin.Context) {
	tokenEsperado := os.Getenv("LOSIMPLE_TOKEN_PAGOS")
	if tokenEsperado == "" {
		tokenEsperado = "token_pagos_dev"
	}
	if c.GetHeader("X-Token-Pago") != tokenEsperado {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token de pagos inválido"})
		return
	}

	var entrada struct {
		SolicitudID string  `json:"solicitud_id"`
		Monto       float64 `json:"monto"`
	}
	if err := c.ShouldBindJSON(&entrada); err != nil || entrada.SolicitudID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	sol, err := nucleo.ConfirmarPago(c.Request.Context(), entrada.SolicitudID, entrada.Monto)
	if err != nil {
		responderError(c, err, "Error al confirmar el pago")
		return
	}
	c.JSON(http.StatusOK, sol)
}

// GET /solicitudes/:id
func VerSolicitud(c *gin.Context) {
	actor := actorDesdeContexto(c)

	sol, err := nucleo.VerSolicitud(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		responderError(c, err, "Error al consultar la solicitud")
		return
	}
	c.JSON(http.StatusOK, sol)
}

// GET /admin/solicitudes?estado= — superadmin ve todas, simplificador solo
// las asignadas a él.
func ListarSolicitudesAdmin(c *gin.Context) {
	actor := actorDesdeContexto(c)

	solicitudes, err := nucleo.ListarSolicitudes(c.Request.Context(), actor, c.Query("estado"))
	if err != nil {
		responderError(c, err, "Error al listar solicitudes")
		return
	}
	c.JSON(http.StatusOK, solicitudes)
}

// PATCH /solicitudes/:id/asignar
func AsignarSolicitud(c *gin.Context) {
	actor := actorDesdeContexto(c)

	var entrada struct {
		AsignadaA *string `json:"asignada_a"`
	}
	if err := c.ShouldBindJSON(&entrada); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	sol, err := nucleo.Asignar(c.Request.Context(), c.Param("id"), entrada.AsignadaA, actor)
	if err != nil {
		responderError(c, err, "Error al asignar la solicitud")
		return
	}
	c.JSON(http.StatusOK, sol)
}

// PATCH /solicitudes/:id/estado — mueve la solicitud en el tablero admin.
func CambiarEstadoSolicitud(c *gin.Context) {
	actor := actorDesdeContexto(c)

	var entrada struct {
		Estado string `json:"estado"`
	}
	if err := c.ShouldBindJSON(&entrada); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	sol, err := nucleo.CambiarEstadoAdmin(c.Request.Context(), c.Param("id"), entrada.Estado, actor)
	if err != nil {
		responderError(c, err, "Error al cambiar el estado")
		return
	}
	c.JSON(http.StatusOK, sol)
}
