// Armado del servicio sobre MySQL.

package almacen

import (
	"database/sql"

	"losimple/servicio"
)

func ServicioMySQL(db *sql.DB) *servicio.Servicio {
	return servicio.Nuevo(
		&SolicitudesMySQL{DB: db},
		&ProgresosMySQL{DB: db},
		&MensajesMySQL{DB: db},
		&UsuariosMySQL{DB: db},
		&BitacoraMySQL{DB: db},
	)
}
