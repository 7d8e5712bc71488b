// Manejador del progreso de entrega.

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"losimple/servicio"
)

// GET /solicitudes/:id/progreso — null mientras el lanzamiento no arranca.
func ObtenerProgreso(c *gin.Context) {
	actor := actorDesdeContexto(c)

	prog, err := nucleo.ObtenerProgreso(c.Request.Context(), c.Param("id"), actor)
	if err == servicio.ErrNoEncontrado {
		c.JSON(http.StatusOK, nil)
		return
	}
	if err != nil {
		responderError(c, err, "Error al consultar el progreso")
		return
	}
	c.JSON(http.StatusOK, prog)
}

// PATCH /progreso/:id — parches por pipeline, por ejemplo:
// {"logo": {"avance": 60}, "firma": {"estado": "en_progreso"}}
func ActualizarProgreso(c *gin.Context) {
	actor := actorDesdeContexto(c)

	var parches map[string]servicio.PipelineParche
	if err := c.ShouldBindJSON(&parches); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	prog, err := nucleo.ActualizarProgreso(c.Request.Context(), c.Param("id"), parches, actor)
	if err != nil {
		responderError(c, err, "Error al actualizar el progreso")
		return
	}
	c.JSON(http.StatusOK, prog)
}
