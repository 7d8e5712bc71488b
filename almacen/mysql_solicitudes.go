// Persistencia de solicitudes sobre MySQL. Las secciones del formulario se
// guardan como JSON; la transición de arranque es un UPDATE condicional más
// el alta del progreso dentro de la misma transacción.

package almacen

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"losimple/dto"
	"losimple/servicio"
)

type SolicitudesMySQL struct {
	DB *sql.DB
}

const columnasSolicitud = `id, usuario_id, paso_actual, formulario_completo,
	datos_personales, datos_empresa, datos_marca, datos_facturacion,
	estado_pago, monto_pagado, iniciada, estado_admin, asignada_a,
	creado_en, actualizado_en`

func codificarSeccion(m map[string]any) ([]byte, error) {
	if m == nil {
		m = map[string]any{}
	}
	return json.Marshal(m)
}

func escanearSolicitud(fila interface{ Scan(...any) error }) (*dto.Solicitud, error) {
	var s dto.Solicitud
	var personales, empresa, marca, facturacion []byte
	var asignadaA sql.NullString

	err := fila.Scan(&s.ID, &s.UsuarioID, &s.PasoActual, &s.FormularioCompleto,
		&personales, &empresa, &marca, &facturacion,
		&s.EstadoPago, &s.MontoPagado, &s.Iniciada, &s.EstadoAdmin, &asignadaA,
		&s.CreadoEn, &s.ActualizadoEn)
	if err == sql.ErrNoRows {
		return nil, servicio.ErrNoEncontrado
	}
	if err != nil {
		return nil, err
	}

	if asignadaA.Valid {
		s.AsignadaA = &asignadaA.String
	}
	for destino, crudo := range map[*map[string]any][]byte{
		&s.DatosPersonales:  personales,
		&s.DatosEmpresa:     empresa,
		&s.DatosMarca:       marca,
		&s.DatosFacturacion: facturacion,
	} {
		if len(crudo) > 0 {
			if err := json.Unmarshal(crudo, destino); err != nil {
				return nil, err
			}
		}
	}
	return &s, nil
}

func (a *SolicitudesMySQL) PorID(ctx context.Context, id string) (*dto.Solicitud, error) {
	fila := a.DB.QueryRowContext(ctx,
		"SELECT "+columnasSolicitud+" FROM solicitudes WHERE id = ?", id)
	return escanearSolicitud(fila)
}

func (a *SolicitudesMySQL) PorUsuario(ctx context.Context, usuarioID string) (*dto.Solicitud, error) {
	fila := a.DB.QueryRowContext(ctx,
		"SELECT "+columnasSolicitud+" FROM solicitudes WHERE usuario_id = ?", usuarioID)
	return escanearSolicitud(fila)
}

func (a *SolicitudesMySQL) Crear(ctx context.Context, s *dto.Solicitud) error {
	personales, err := codificarSeccion(s.DatosPersonales)
	if err != nil {
		return err
	}
	empresa, err := codificarSeccion(s.DatosEmpresa)
	if err != nil {
		return err
	}
	marca, err := codificarSeccion(s.DatosMarca)
	if err != nil {
		return err
	}
	facturacion, err := codificarSeccion(s.DatosFacturacion)
	if err != nil {
		return err
	}

	_, err = a.DB.ExecContext(ctx, `
		INSERT INTO solicitudes (id, usuario_id, paso_actual, formulario_completo,
			datos_personales, datos_empresa, datos_marca, datos_facturacion,
			estado_pago, monto_pagado, iniciada, estado_admin, asignada_a,
			creado_en, actualizado_en)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UsuarioID, s.PasoActual, s.FormularioCompleto,
		personales, empresa, marca, facturacion,
		s.EstadoPago, s.MontoPagado, s.Iniciada, s.EstadoAdmin, s.AsignadaA,
		s.CreadoEn, s.ActualizadoEn)
	return err
}

func (a *SolicitudesMySQL) Guardar(ctx context.Context, s *dto.Solicitud) error {
	personales, err := codificarSeccion(s.DatosPersonales)
	if err != nil {
		return err
	}
	empresa, err := codificarSeccion(s.DatosEmpresa)
	if err != nil {
		return err
	}
	marca, err := codificarSeccion(s.DatosMarca)
	if err != nil {
		return err
	}
	facturacion, err := codificarSeccion(s.DatosFacturacion)
	if err != nil {
		return err
	}

	res, err := a.DB.ExecContext(ctx, `
		UPDATE solicitudes
		SET paso_actual=?, formulario_completo=?,
		    datos_personales=?, datos_empresa=?, datos_marca=?, datos_facturacion=?,
		    actualizado_en=?
		WHERE id=?`,
		s.PasoActual, s.FormularioCompleto,
		personales, empresa, marca, facturacion,
		s.ActualizadoEn, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return servicio.ErrNoEncontrado
	}
	return nil
}

func (a *SolicitudesMySQL) Iniciar(ctx context.Context, solicitudID string, p *dto.Progreso) (bool, error) {
	tx, err := a.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	// La guarda completa vive en el WHERE: solo una llamada puede ganar.
	res, err := tx.ExecContext(ctx, `
		UPDATE solicitudes
		SET iniciada=1, estado_admin='new', actualizado_en=?
		WHERE id=? AND iniciada=0 AND estado_pago=? AND formulario_completo=1`,
		time.Now(), solicitudID, dto.PagoCompletado)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}

	if err := crearProgresoTx(ctx, tx, p); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (a *SolicitudesMySQL) Asignar(ctx context.Context, solicitudID string, asignadaA *string) error {
	res, err := a.DB.ExecContext(ctx,
		"UPDATE solicitudes SET asignada_a=?, actualizado_en=? WHERE id=?",
		asignadaA, time.Now(), solicitudID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return servicio.ErrNoEncontrado
	}
	return nil
}

func (a *SolicitudesMySQL) CambiarEstadoAdmin(ctx context.Context, solicitudID, estado string) error {
	res, err := a.DB.ExecContext(ctx,
		"UPDATE solicitudes SET estado_admin=?, actualizado_en=? WHERE id=?",
		estado, time.Now(), solicitudID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return servicio.ErrNoEncontrado
	}
	return nil
}

func (a *SolicitudesMySQL) MarcarPagoCompletado(ctx context.Context, solicitudID string, monto float64) error {
	res, err := a.DB.ExecContext(ctx,
		"UPDATE solicitudes SET estado_pago=?, monto_pagado=?, actualizado_en=? WHERE id=?",
		dto.PagoCompletado, monto, time.Now(), solicitudID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return servicio.ErrNoEncontrado
	}
	return nil
}

func (a *SolicitudesMySQL) Listar(ctx context.Context, filtroEstado string) ([]dto.Solicitud, error) {
	consulta := "SELECT " + columnasSolicitud + " FROM solicitudes"
	var args []any
	if filtroEstado != "" {
		consulta += " WHERE estado_admin = ?"
		args = append(args, filtroEstado)
	}
	consulta += " ORDER BY creado_en DESC"
	return a.listar(ctx, consulta, args...)
}

func (a *SolicitudesMySQL) ListarAsignadas(ctx context.Context, usuarioID string) ([]dto.Solicitud, error) {
	return a.listar(ctx,
		"SELECT "+columnasSolicitud+" FROM solicitudes WHERE asignada_a = ? ORDER BY creado_en DESC",
		usuarioID)
}

func (a *SolicitudesMySQL) listar(ctx context.Context, consulta string, args ...any) ([]dto.Solicitud, error) {
	filas, err := a.DB.QueryContext(ctx, consulta, args...)
	if err != nil {
		return nil, err
	}
	defer filas.Close()

	var solicitudes []dto.Solicitud
	for filas.Next() {
		s, err := escanearSolicitud(filas)
		if err != nil {
			return nil, err
		}
		solicitudes = append(solicitudes, *s)
	}
	return solicitudes, filas.Err()
}
