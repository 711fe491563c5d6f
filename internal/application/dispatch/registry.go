package dispatch

import (
	"context"
	"net/http"
	"time"

	"github.com/jhoicas/sst-manager-api/internal/domain/repository"
	"github.com/jhoicas/sst-manager-api/internal/domain/resource"
	"github.com/jhoicas/sst-manager-api/pkg/logger"
	"github.com/jhoicas/sst-manager-api/pkg/metrics"
)

// Route clave de la tabla de registro.
type Route struct {
	Resource string
	Sub      string
}

// Registry tabla (recurso, subacción) -> manejador, armada al arrancar.
// Los recursos del catálogo sin manejador propio usan GenericHandler.
type Registry struct {
	routes   map[Route]Handler
	generics map[string]Handler
}

// NewRegistry crea la tabla con un manejador genérico por cada descriptor no interno.
func NewRegistry(resources *resource.Registry, repo repository.GenericRepository) *Registry {
	r := &Registry{routes: map[Route]Handler{}, generics: map[string]Handler{}}
	for _, name := range resources.Names() {
		d := resources.MustGet(name)
		if d.Internal {
			continue
		}
		r.generics[name] = Resource(NewGenericHandler(repo, d))
	}
	return r
}

// Handle registra h bajo una o más rutas (la primera es la canónica, el resto alias).
func (r *Registry) Handle(h Handler, routes ...Route) {
	for _, rt := range routes {
		r.routes[rt] = h
	}
}

// Lookup busca en orden: (recurso, sub) exacto, (recurso, "") y el genérico del catálogo.
// Una subacción no registrada no cae al manejador del recurso: devuelve nil.
func (r *Registry) Lookup(res, sub string) Handler {
	if h, ok := r.routes[Route{res, sub}]; ok {
		return h
	}
	if sub != "" {
		return nil
	}
	if h, ok := r.routes[Route{res, ""}]; ok {
		return h
	}
	return r.generics[res]
}

// Dispatcher resuelve peticiones contra el Registry con log y métricas por petición.
type Dispatcher struct {
	routes  *Registry
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewDispatcher construye el despachador. m puede ser nil.
func NewDispatcher(routes *Registry, log *logger.Logger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{routes: routes, log: log.Named("dispatch"), metrics: m}
}

type requestIDKey struct{}

// WithRequestID guarda el id de petición en el contexto.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID id de petición del contexto, o "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Dispatch resuelve req. Un recurso sin manejador responde 404.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) Response {
	start := time.Now()
	var res Response
	label := req.Resource
	if h := d.routes.Lookup(req.Resource, req.SubAction); h != nil {
		res = h.Handle(ctx, req)
	} else {
		msg := "recurso " + req.Resource + " no encontrado"
		if req.SubAction != "" {
			msg = "ruta " + req.Resource + "/" + req.SubAction + " no encontrada"
		}
		res = Fail(http.StatusNotFound, CodeNotFound, msg)
		label = "desconocido"
	}

	ev := d.log.Info()
	if res.StatusCode >= http.StatusInternalServerError {
		ev = d.log.Error().Interface("error", res.Payload)
	}
	ev.Str("request_id", RequestID(ctx)).
		Str("resource", req.Resource).
		Str("sub", req.SubAction).
		Int64("id", req.ID).
		Str("verb", req.Verb).
		Int("status", res.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("petición despachada")
	d.metrics.DispatchDone(label, req.Verb, res.StatusCode, start)
	return res
}
