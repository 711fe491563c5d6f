package auth

import (
	"context"
	"net/http"

	"github.com/jhoicas/sst-manager-api/internal/application/dispatch"
	"github.com/jhoicas/sst-manager-api/internal/application/dto"
)

// LoginHandler expone Login en la tabla de rutas. Solo acepta POST.
type LoginHandler struct {
	uc *AuthUseCase
}

// NewLoginHandler construye el manejador de login.
func NewLoginHandler(uc *AuthUseCase) *LoginHandler {
	return &LoginHandler{uc: uc}
}

// Handle implementa dispatch.Handler.
func (h *LoginHandler) Handle(ctx context.Context, req *dispatch.Request) dispatch.Response {
	if req.Verb != dispatch.MethodPost {
		return dispatch.MethodNotAllowed(req.Verb)
	}
	body := req.Object()
	in := dto.LoginRequest{
		Email:    dispatch.String(body["email"]),
		Password: rawString(body["password"]),
	}
	out, err := h.uc.Login(ctx, in)
	if err != nil {
		return dispatch.FromError(err)
	}
	return dispatch.JSON(http.StatusOK, out)
}

// rawString texto sin recortar: los espacios son parte de la contraseña.
func rawString(v any) string {
	s, _ := v.(string)
	return s
}
