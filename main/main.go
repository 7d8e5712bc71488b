// Archivo principal para iniciar la conexión a la base de datos y el servidor.

package main

import (
	"os"

	"losimple/almacen"
	"losimple/api"
	"losimple/dto"
)

func main() {
	dto.ConectarBaseDatos()

	nucleo := almacen.ServicioMySQL(dto.DB)
	router := api.InicializarServidor(nucleo)

	direccion := os.Getenv("LOSIMPLE_DIRECCION")
	if direccion == "" {
		direccion = ":8080"
	}
	router.Run(direccion)
}
