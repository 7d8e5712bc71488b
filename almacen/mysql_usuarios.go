// Persistencia de usuarios.

package almacen

import (
	"context"
	"database/sql"

	"losimple/dto"
	"losimple/servicio"
)

type UsuariosMySQL struct {
	DB *sql.DB
}

func escanearUsuario(fila interface{ Scan(...any) error }) (*dto.Usuario, error) {
	var u dto.Usuario
	err := fila.Scan(&u.ID, &u.Nombre, &u.Correo, &u.Cedula, &u.Contrasena, &u.Rol, &u.CreadoEn)
	if err == sql.ErrNoRows {
		return nil, servicio.ErrNoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (a *UsuariosMySQL) PorID(ctx context.Context, id string) (*dto.Usuario, error) {
	fila := a.DB.QueryRowContext(ctx,
		"SELECT id, nombre, correo, cedula, contrasena, rol, creado_en FROM usuarios WHERE id = ?", id)
	return escanearUsuario(fila)
}

func (a *UsuariosMySQL) PorCorreo(ctx context.Context, correo string) (*dto.Usuario, error) {
	fila := a.DB.QueryRowContext(ctx,
		"SELECT id, nombre, correo, cedula, contrasena, rol, creado_en FROM usuarios WHERE correo = ?", correo)
	return escanearUsuario(fila)
}

func (a *UsuariosMySQL) Crear(ctx context.Context, u *dto.Usuario) error {
	_, err := a.DB.ExecContext(ctx, `
		INSERT INTO usuarios (id, nombre, correo, cedula, contrasena, rol, creado_en)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Nombre, u.Correo, u.Cedula, u.Contrasena, u.Rol, u.CreadoEn)
	return err
}
