// Manejador de la bitácora: anticipos y observaciones del equipo.

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /solicitudes/:id/anticipos
func ListarAnticipos(c *gin.Context) {
	actor := actorDesdeContexto(c)

	anticipos, err := nucleo.ListarAnticipos(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		responderError(c, err, "Error al consultar los anticipos")
		return
	}
	c.JSON(http.StatusOK, anticipos)
}

// POST /solicitudes/:id/anticipos
func RegistrarAnticipo(c *gin.Context) {
	actor := actorDesdeContexto(c)

	var entrada struct {
		Monto       float64 `json:"monto"`
		Descripcion string  `json:"descripcion"`
	}
	if err := c.ShouldBindJSON(&entrada); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	a, err := nucleo.RegistrarAnticipo(c.Request.Context(), c.Param("id"), entrada.Monto, entrada.Descripcion, actor)
	if err != nil {
		responderError(c, err, "Error al registrar el anticipo")
		return
	}
	c.JSON(http.StatusCreated, a)
}

// GET /solicitudes/:id/observaciones
func ListarObservaciones(c *gin.Context) {
	actor := actorDesdeContexto(c)

	observaciones, err := nucleo.ListarObservaciones(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		responderError(c, err, "Error al consultar las observaciones")
		return
	}
	c.JSON(http.StatusOK, observaciones)
}

// POST /solicitudes/:id/observaciones
func RegistrarObservacion(c *gin.Context) {
	actor := actorDesdeContexto(c)
	nombre, _ := c.Get("nombre")
	autorNombre, _ := nombre.(string)

	var entrada struct {
		Texto string `json:"texto"`
	}
	if err := c.ShouldBindJSON(&entrada); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	o, err := nucleo.RegistrarObservacion(c.Request.Context(), c.Param("id"), entrada.Texto, autorNombre, actor)
	if err != nil {
		responderError(c, err, "Error al registrar la observación")
		return
	}
	c.JSON(http.StatusCreated, o)
}
