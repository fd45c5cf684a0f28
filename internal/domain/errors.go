package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Los adaptadores envuelven la causa con el sentinel correspondiente para que
// los llamadores usen errors.Is sin conocer el driver.
var (
	ErrValidation        = errors.New("entrada inválida")
	ErrPersistence       = errors.New("error de persistencia")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
)

// Validation devuelve un ErrValidation con el detalle legible para el usuario.
func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// Persistence envuelve un error del almacenamiento conservando la causa.
func Persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// NotFound indica que el id referenciado no existe.
func NotFound(what, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, what, id)
}

// Conflict indica una violación de unicidad surgida de una carrera.
func Conflict(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrConflict, op, err)
}

// AsPersistence deja pasar errores ya clasificados y clasifica el resto como persistencia.
func AsPersistence(op string, err error) error {
	for _, known := range []error{ErrPersistence, ErrValidation, ErrNotFound, ErrConflict, ErrInsufficientStock} {
		if errors.Is(err, known) {
			return err
		}
	}
	return Persistence(op, err)
}
