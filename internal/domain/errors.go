package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUserNotFound = errors.New("usuario no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrProtected    = errors.New("registro protegido del sistema")
	ErrInUse        = errors.New("registro en uso")
)

// ValidationError error de entrada que el cliente puede corregir.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError con mensaje formateado.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError ausencia de un registro pedido por id.
type NotFoundError struct {
	Resource string
	Msg      string
}

func (e *NotFoundError) Error() string { return e.Msg }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound construye un NotFoundError.
func NotFound(resource, format string, args ...any) error {
	return &NotFoundError{Resource: resource, Msg: fmt.Sprintf(format, args...)}
}

// ConflictError rechazo por estado: duplicado, registro protegido o en uso.
// Kind es uno de ErrDuplicate, ErrProtected, ErrInUse o ErrConflict.
type ConflictError struct {
	Resource string
	Kind     error
	Msg      string
}

func (e *ConflictError) Error() string { return e.Msg }

func (e *ConflictError) Unwrap() []error { return []error{ErrConflict, e.Kind} }

// Conflict construye un ConflictError.
func Conflict(resource string, kind error, format string, args ...any) error {
	if kind == nil {
		kind = ErrConflict
	}
	return &ConflictError{Resource: resource, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// StorageError fallo del motor relacional con el contexto del recurso.
type StorageError struct {
	Op       string // insert, update, delete, select, sync
	Resource string
	Err      error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("error en %s (%s): %v", e.Op, e.Resource, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsStorage indica si err proviene del motor relacional.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
