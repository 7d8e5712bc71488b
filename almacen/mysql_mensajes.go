// Persistencia del hilo de mensajes. La respuesta única del cliente se
// garantiza con un UPDATE condicional sobre respuesta_cliente IS NULL.

package almacen

import (
	"context"
	"database/sql"

	"losimple/dto"
	"losimple/servicio"
)

type MensajesMySQL struct {
	DB *sql.DB
}

const columnasMensaje = `id, solicitud_id, mensaje, rol_emisor, nombre_emisor,
	respuesta_cliente, resuelto, creado_en`

func escanearMensaje(fila interface{ Scan(...any) error }) (*dto.Mensaje, error) {
	var m dto.Mensaje
	var respuesta sql.NullString

	err := fila.Scan(&m.ID, &m.SolicitudID, &m.Mensaje, &m.RolEmisor,
		&m.NombreEmisor, &respuesta, &m.Resuelto, &m.CreadoEn)
	if err == sql.ErrNoRows {
		return nil, servicio.ErrNoEncontrado
	}
	if err != nil {
		return nil, err
	}
	if respuesta.Valid {
		m.RespuestaCliente = &respuesta.String
	}
	return &m, nil
}

func (a *MensajesMySQL) PorID(ctx context.Context, id string) (*dto.Mensaje, error) {
	fila := a.DB.QueryRowContext(ctx,
		"SELECT "+columnasMensaje+" FROM mensajes WHERE id = ?", id)
	return escanearMensaje(fila)
}

func (a *MensajesMySQL) Crear(ctx context.Context, m *dto.Mensaje) error {
	_, err := a.DB.ExecContext(ctx, `
		INSERT INTO mensajes (id, solicitud_id, mensaje, rol_emisor, nombre_emisor,
			respuesta_cliente, resuelto, creado_en)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.SolicitudID, m.Mensaje, m.RolEmisor, m.NombreEmisor,
		m.RespuestaCliente, m.Resuelto, m.CreadoEn)
	return err
}

func (a *MensajesMySQL) PorSolicitud(ctx context.Context, solicitudID string) ([]dto.Mensaje, error) {
	filas, err := a.DB.QueryContext(ctx,
		"SELECT "+columnasMensaje+" FROM mensajes WHERE solicitud_id = ? ORDER BY creado_en",
		solicitudID)
	if err != nil {
		return nil, err
	}
	defer filas.Close()

	var mensajes []dto.Mensaje
	for filas.Next() {
		m, err := escanearMensaje(filas)
		if err != nil {
			return nil, err
		}
		mensajes = append(mensajes, *m)
	}
	return mensajes, filas.Err()
}

func (a *MensajesMySQL) Responder(ctx context.Context, mensajeID, texto string) (bool, error) {
	res, err := a.DB.ExecContext(ctx,
		"UPDATE mensajes SET respuesta_cliente=? WHERE id=? AND respuesta_cliente IS NULL",
		texto, mensajeID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (a *MensajesMySQL) Resolver(ctx context.Context, mensajeID string, resuelto bool) error {
	// Sin chequeo de filas afectadas: MySQL reporta 0 cuando el valor no
	// cambia, y marcar resuelto dos veces es válido.
	_, err := a.DB.ExecContext(ctx,
		"UPDATE mensajes SET resuelto=? WHERE id=?", resuelto, mensajeID)
	return err
}
