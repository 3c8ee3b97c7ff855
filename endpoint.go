// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package speccify

import (
	"net/http"

	"github.com/swaggest/openapi-go/openapi3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Endpoint attaches one or more method and operation pairs to a single
// route. It is built once, at definition time, and the method table is
// immutable thereafter; method dispatch at request time is delegated to
// the [Api]'s router, so an unregistered method is the router's standard
// 405 response.
type Endpoint struct {
	primary    string
	path       Path
	operations map[string]OperationDefinition
	methods    []string
	absorbed   bool
}

// OperationDefinition is the per-method unit registered on an [Endpoint]:
// an [http.Handler] which also contributes its own OpenAPI definition.
// It is implemented by [Operation].
type OperationDefinition interface {
	http.Handler

	validate() error
	definition(*SchemaContext) (openapi3.Operation, error)
}

// NewEndpoint creates an [Endpoint] serving a single HTTP method.
//
// The operation's record declarations are validated immediately; a
// malformed record panics here, before the endpoint can ever serve
// traffic.
func NewEndpoint(method string, path Path, op OperationDefinition) *Endpoint {
	err := op.validate()
	if err != nil {
		panic(err)
	}

	return &Endpoint{
		primary: method + " " + path.String(),
		path:    path,
		operations: map[string]OperationDefinition{
			method: op,
		},
		methods: []string{method},
	}
}

// WithMethod returns a new composite [Endpoint] which additionally serves
// the given method. The receiver is absorbed into the composite: it must
// not be registered with an [Api] itself, only the composite may be.
//
// Registering the same method twice panics with [OverlappingMethodsError].
func (e *Endpoint) WithMethod(method string, op OperationDefinition) *Endpoint {
	if _, ok := e.operations[method]; ok {
		panic(OverlappingMethodsError{
			Method: method,
		})
	}
	err := op.validate()
	if err != nil {
		panic(err)
	}

	operations := make(map[string]OperationDefinition, len(e.operations)+1)
	for m, o := range e.operations {
		operations[m] = o
	}
	operations[method] = op

	composite := &Endpoint{
		primary:    e.primary,
		path:       e.path,
		operations: operations,
		methods:    append(append([]string{}, e.methods...), method),
	}
	e.absorbed = true
	return composite
}

// ApplyApiOption implements the [ApiOption] interface. It mounts every
// registered method on the route and contributes each operation to the
// OpenAPI spec. Registering an absorbed endpoint panics with
// [AbsorbedEndpointError].
func (e *Endpoint) ApplyApiOption(ao *ApiOptions) {
	if e.absorbed {
		panic(AbsorbedEndpointError{
			Parent: e.primary,
		})
	}

	pattern := e.path.String()
	pathParams, transforms := e.path.params()

	for _, method := range e.methods {
		op := e.operations[method]

		def, err := op.definition(ao.schemas)
		if err != nil {
			panic(err)
		}
		def.Parameters = append(pathParams, def.Parameters...)

		err = ao.def.AddOperation(method, pattern, def)
		if err != nil {
			panic(err)
		}

		var h http.Handler = op
		if len(transforms) > 0 {
			h = &mountedOperation{
				errHandler: defaultErrorHandler(LogHandler("speccify")),
				transforms: transforms,
				inner:      op,
			}
		}
		ao.mux.Method(method, pattern, otelhttp.WithRouteTag(pattern, h))
	}
}

// mountedOperation runs path parameter validation ahead of the operation
// itself.
type mountedOperation struct {
	errHandler ErrorHandler
	transforms []func(*http.Request) error
	inner      http.Handler
}

func (mo *mountedOperation) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for _, transform := range mo.transforms {
		err := transform(r)
		if err != nil {
			mo.errHandler.OnError(r.Context(), w, err)
			return
		}
	}
	mo.inner.ServeHTTP(w, r)
}
