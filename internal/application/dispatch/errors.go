package dispatch

import (
	"errors"
	"net/http"

	"github.com/jhoicas/sst-manager-api/internal/application/dto"
	"github.com/jhoicas/sst-manager-api/internal/domain"
)

// Códigos de error del cuerpo de respuesta.
const (
	CodeValidation   = "VALIDATION"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeMethod       = "METHOD_NOT_ALLOWED"
	CodeStorage      = "STORAGE"
	CodeInternal     = "INTERNAL"
)

// FromError traduce un error de dominio a su respuesta HTTP.
func FromError(err error) Response {
	switch {
	case err == nil:
		return JSON(http.StatusOK, nil)
	case errors.Is(err, domain.ErrInvalidInput):
		return Fail(http.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return Fail(http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		return Fail(http.StatusConflict, CodeConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return Fail(http.StatusUnauthorized, CodeUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return Fail(http.StatusForbidden, CodeForbidden, err.Error())
	}
	var se *domain.StorageError
	if errors.As(err, &se) {
		return JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    CodeStorage,
			Message: "error en " + se.Op,
			Detail:  se.Err.Error(),
		})
	}
	return Fail(http.StatusInternalServerError, CodeInternal, err.Error())
}

// MethodNotAllowed respuesta para verbos no soportados.
func MethodNotAllowed(verb string) Response {
	return Fail(http.StatusMethodNotAllowed, CodeMethod, "método "+verb+" no permitido")
}
