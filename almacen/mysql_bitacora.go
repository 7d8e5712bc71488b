// Persistencia de la bitácora: anticipos y observaciones.

package almacen

import (
	"context"
	"database/sql"

	"losimple/dto"
)

type BitacoraMySQL struct {
	DB *sql.DB
}

func (a *BitacoraMySQL) CrearAnticipo(ctx context.Context, an *dto.Anticipo) error {
	_, err := a.DB.ExecContext(ctx, `
		INSERT INTO anticipos (id, solicitud_id, monto, descripcion, creado_en)
		VALUES (?, ?, ?, ?, ?)`,
		an.ID, an.SolicitudID, an.Monto, an.Descripcion, an.CreadoEn)
	return err
}

func (a *BitacoraMySQL) AnticiposPorSolicitud(ctx context.Context, solicitudID string) ([]dto.Anticipo, error) {
	filas, err := a.DB.QueryContext(ctx, `
		SELECT id, solicitud_id, monto, descripcion, creado_en
		FROM anticipos WHERE solicitud_id = ? ORDER BY creado_en`, solicitudID)
	if err != nil {
		return nil, err
	}
	defer filas.Close()

	var anticipos []dto.Anticipo
	for filas.Next() {
		var an dto.Anticipo
		if err := filas.Scan(&an.ID, &an.SolicitudID, &an.Monto, &an.Descripcion, &an.CreadoEn); err != nil {
			return nil, err
		}
		anticipos = append(anticipos, an)
	}
	return anticipos, filas.Err()
}

func (a *BitacoraMySQL) CrearObservacion(ctx context.Context, o *dto.Observacion) error {
	_, err := a.DB.ExecContext(ctx, `
		INSERT INTO observaciones (id, solicitud_id, autor_nombre, texto, creado_en)
		VALUES (?, ?, ?, ?, ?)`,
		o.ID, o.SolicitudID, o.AutorNombre, o.Texto, o.CreadoEn)
	return err
}

func (a *BitacoraMySQL) ObservacionesPorSolicitud(ctx context.Context, solicitudID string) ([]dto.Observacion, error) {
	filas, err := a.DB.QueryContext(ctx, `
		SELECT id, solicitud_id, autor_nombre, texto, creado_en
		FROM observaciones WHERE solicitud_id = ? ORDER BY creado_en`, solicitudID)
	if err != nil {
		return nil, err
	}
	defer filas.Close()

	var observaciones []dto.Observacion
	for filas.Next() {
		var o dto.Observacion
		if err := filas.Scan(&o.ID, &o.SolicitudID, &o.AutorNombre, &o.Texto, &o.CreadoEn); err != nil {
			return nil, err
		}
		observaciones = append(observaciones, o)
	}
	return observaciones, filas.Err()
}
