// Persistencia del progreso de entrega. Cada pipeline se guarda como una
// columna JSON propia.

package almacen

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"losimple/dto"
	"losimple/servicio"
)

type ProgresosMySQL struct {
	DB *sql.DB
}

const columnasProgreso = `id, solicitud_id, logo, sitio_web, redes_sociales,
	empresa, facturacion, firma, creado_en, actualizado_en`

func codificarPipelines(p *dto.Progreso) (map[string][]byte, error) {
	codificados := map[string][]byte{}
	for nombre, pipeline := range map[string]dto.Pipeline{
		dto.PipelineLogo:          p.Logo,
		dto.PipelineSitioWeb:      p.SitioWeb,
		dto.PipelineRedesSociales: p.RedesSociales,
		dto.PipelineEmpresa:       p.Empresa,
		dto.PipelineFacturacion:   p.Facturacion,
		dto.PipelineFirma:         p.Firma,
	} {
		crudo, err := json.Marshal(pipeline)
		if err != nil {
			return nil, err
		}
		codificados[nombre] = crudo
	}
	return codificados, nil
}

func escanearProgreso(fila interface{ Scan(...any) error }) (*dto.Progreso, error) {
	var p dto.Progreso
	var logo, sitioWeb, redes, empresa, facturacion, firma []byte

	err := fila.Scan(&p.ID, &p.SolicitudID, &logo, &sitioWeb, &redes,
		&empresa, &facturacion, &firma, &p.CreadoEn, &p.ActualizadoEn)
	if err == sql.ErrNoRows {
		return nil, servicio.ErrNoEncontrado
	}
	if err != nil {
		return nil, err
	}

	for destino, crudo := range map[*dto.Pipeline][]byte{
		&p.Logo:          logo,
		&p.SitioWeb:      sitioWeb,
		&p.RedesSociales: redes,
		&p.Empresa:       empresa,
		&p.Facturacion:   facturacion,
		&p.Firma:         firma,
	} {
		if err := json.Unmarshal(crudo, destino); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

// crearProgresoTx inserta el progreso dentro de la transacción de arranque.
func crearProgresoTx(ctx context.Context, tx *sql.Tx, p *dto.Progreso) error {
	codificados, err := codificarPipelines(p)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO progresos (id, solicitud_id, logo, sitio_web, redes_sociales,
			empresa, facturacion, firma, creado_en, actualizado_en)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.SolicitudID,
		codificados[dto.PipelineLogo], codificados[dto.PipelineSitioWeb],
		codificados[dto.PipelineRedesSociales], codificados[dto.PipelineEmpresa],
		codificados[dto.PipelineFacturacion], codificados[dto.PipelineFirma],
		p.CreadoEn, p.ActualizadoEn)
	return err
}

func (a *ProgresosMySQL) PorID(ctx context.Context, id string) (*dto.Progreso, error) {
	fila := a.DB.QueryRowContext(ctx,
		"SELECT "+columnasProgreso+" FROM progresos WHERE id = ?", id)
	return escanearProgreso(fila)
}

func (a *ProgresosMySQL) PorSolicitud(ctx context.Context, solicitudID string) (*dto.Progreso, error) {
	fila := a.DB.QueryRowContext(ctx,
		"SELECT "+columnasProgreso+" FROM progresos WHERE solicitud_id = ?", solicitudID)
	return escanearProgreso(fila)
}

// Parchar lee la fila con bloqueo, aplica los parches y escribe únicamente
// las columnas de los pipelines parchados, todo en una transacción. Los
// nombres de pipeline son las columnas mismas; PorNombre los limita a las
// seis conocidas.
func (a *ProgresosMySQL) Parchar(ctx context.Context, progresoID string, parches map[string]servicio.PipelineParche) (*dto.Progreso, error) {
	tx, err := a.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	fila := tx.QueryRowContext(ctx,
		"SELECT "+columnasProgreso+" FROM progresos WHERE id = ? FOR UPDATE", progresoID)
	prog, err := escanearProgreso(fila)
	if err != nil {
		return nil, err
	}

	var columnas []string
	var args []any
	for nombre, parche := range parches {
		pipeline := prog.PorNombre(nombre)
		if pipeline == nil {
			return nil, servicio.ErrValidacion
		}
		parche.AplicarA(pipeline)
		crudo, err := json.Marshal(*pipeline)
		if err != nil {
			return nil, err
		}
		columnas = append(columnas, nombre+"=?")
		args = append(args, crudo)
	}
	prog.ActualizadoEn = time.Now()
	columnas = append(columnas, "actualizado_en=?")
	args = append(args, prog.ActualizadoEn, progresoID)

	_, err = tx.ExecContext(ctx,
		"UPDATE progresos SET "+strings.Join(columnas, ", ")+" WHERE id=?", args...)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return prog, nil
}
