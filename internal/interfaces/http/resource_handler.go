package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sst-manager-api/internal/application/dispatch"
	"github.com/jhoicas/sst-manager-api/internal/application/dto"
)

// ResourceHandler traduce /api/:resource/:action?/:id?/:view? a dispatch.Request.
type ResourceHandler struct {
	dispatcher *dispatch.Dispatcher
}

// NewResourceHandler construye el handler.
func NewResourceHandler(d *dispatch.Dispatcher) *ResourceHandler {
	return &ResourceHandler{dispatcher: d}
}

// Serve atiende cualquier verbo. Un action numérico se toma como id.
func (h *ResourceHandler) Serve(c *fiber.Ctx) error {
	req, err := parseRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: dispatch.CodeValidation, Message: err.Error()})
	}
	req.Tenant = GetCompanyID(c)

	ctx := dispatch.WithRequestID(c.UserContext(), GetRequestID(c))
	res := h.dispatcher.Dispatch(ctx, req)
	if res.Payload == nil {
		return c.SendStatus(res.StatusCode)
	}
	return c.Status(res.StatusCode).JSON(res.Payload)
}

func parseRequest(c *fiber.Ctx) (*dispatch.Request, error) {
	req := &dispatch.Request{
		Resource: strings.ToLower(c.Params("resource")),
		Verb:     c.Method(),
		Query:    c.Queries(),
	}

	segs := []string{c.Params("action"), c.Params("id"), c.Params("view")}
	if _, err := strconv.ParseInt(segs[0], 10, 64); err == nil {
		segs = []string{"", segs[0], segs[1]}
	}
	req.SubAction = strings.ToLower(segs[0])
	if segs[1] != "" {
		id, err := strconv.ParseInt(segs[1], 10, 64)
		if err != nil || id <= 0 {
			return nil, errInvalidID
		}
		req.ID = id
	}
	req.View = strings.ToLower(segs[2])

	if req.Verb != fiber.MethodGet {
		body, err := decodeBody(c.Body())
		if err != nil {
			return nil, err
		}
		req.Body = body
	}
	return req, nil
}
