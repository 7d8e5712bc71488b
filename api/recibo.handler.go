package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phpdave11/gofpdf"

	"losimple/dto"
)

// Genera en PDF el recibo de pago de una solicitud, con sus anticipos.
func GenerarReciboPDF(c *gin.Context) {
	actor := actorDesdeContexto(c)
	ctx := c.Request.Context()

	sol, err := nucleo.VerSolicitud(ctx, c.Param("id"), actor)
	if err != nil {
		responderError(c, err, "Error al consultar la solicitud")
		return
	}
	if sol.EstadoPago != dto.PagoCompletado {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La solicitud no tiene un pago completado"})
		return
	}

	var anticipos []dto.Anticipo
	if dto.EsEquipo(actor.Rol) {
		anticipos, err = nucleo.ListarAnticipos(ctx, sol.ID, actor)
		if err != nil {
			responderError(c, err, "Error al consultar los anticipos")
			return
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Recibo de pago - Lo Simple")

	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Solicitud: %s", sol.ID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Monto pagado: $%.2f", sol.MontoPagado))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Fecha: %s", sol.ActualizadoEn.Format("2006-01-02 15:04")))

	if len(anticipos) > 0 {
		pdf.Ln(12)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 10, "Anticipos registrados")
		pdf.SetFont("Arial", "", 12)
		var total float64
		for _, a := range anticipos {
			pdf.Ln(8)
			pdf.Cell(0, 10, fmt.Sprintf("%s  $%.2f  %s",
				a.CreadoEn.Format("2006-01-02"), a.Monto, a.Descripcion))
			total += a.Monto
		}
		pdf.Ln(8)
		pdf.Cell(0, 10, fmt.Sprintf("Total anticipos: $%.2f", total))
	}

	c.Header("Content-Type", "application/pdf")
	_ = pdf.Output(c.Writer)
}
