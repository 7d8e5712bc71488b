// Errores del ciclo de vida de solicitudes.

package servicio

import "errors"

var (
	// ErrNoEncontrado: la solicitud, progreso, mensaje o usuario referido no existe.
	ErrNoEncontrado = errors.New("no encontrado")

	// ErrPrecondicion: la transición pedida tiene una guarda sin cumplir
	// (por ejemplo iniciar sin pago completado o formulario incompleto).
	ErrPrecondicion = errors.New("precondición no cumplida")

	// ErrProhibido: el rol o la propiedad del actor no permiten la operación.
	ErrProhibido = errors.New("operación no permitida")

	// ErrValidacion: la forma de la entrada es inválida (paso fuera de rango,
	// estado desconocido, pipeline inexistente).
	ErrValidacion = errors.New("datos inválidos")
)
