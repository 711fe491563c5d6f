package dispatch

import "context"

// Handler resuelve una petición completa.
type Handler interface {
	Handle(ctx context.Context, req *Request) Response
}

// HandlerFunc adapta una función a Handler.
type HandlerFunc func(ctx context.Context, req *Request) Response

// Handle implementa Handler.
func (f HandlerFunc) Handle(ctx context.Context, req *Request) Response { return f(ctx, req) }

// VerbHandler manejador por verbo de un recurso. Los errores se traducen con FromError.
type VerbHandler interface {
	List(ctx context.Context, req *Request) (Response, error)
	Get(ctx context.Context, req *Request) (Response, error)
	Create(ctx context.Context, req *Request) (Response, error)
	Update(ctx context.Context, req *Request) (Response, error)
	Delete(ctx context.Context, req *Request) (Response, error)
}

// Patcher lo implementan los recursos que aceptan PATCH.
type Patcher interface {
	Patch(ctx context.Context, req *Request) (Response, error)
}

// Serve reparte la petición según el verbo. GET con id va a Get, sin id a List.
func Serve(ctx context.Context, h VerbHandler, req *Request) Response {
	var (
		res Response
		err error
	)
	switch req.Verb {
	case MethodGet:
		if req.HasID() {
			res, err = h.Get(ctx, req)
		} else {
			res, err = h.List(ctx, req)
		}
	case MethodPost:
		res, err = h.Create(ctx, req)
	case MethodPut:
		res, err = h.Update(ctx, req)
	case MethodPatch:
		p, ok := h.(Patcher)
		if !ok {
			return MethodNotAllowed(req.Verb)
		}
		res, err = p.Patch(ctx, req)
	case MethodDelete:
		res, err = h.Delete(ctx, req)
	default:
		return MethodNotAllowed(req.Verb)
	}
	if err != nil {
		return FromError(err)
	}
	return res
}

// Resource adapta un VerbHandler a Handler.
func Resource(h VerbHandler) Handler {
	return HandlerFunc(func(ctx context.Context, req *Request) Response {
		return Serve(ctx, h, req)
	})
}
