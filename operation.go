// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package speccify

import (
	"context"
	"net/http"
	"strconv"

	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/ptr"
	"github.com/z5labs/sdk-go/try"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Handler represents a RPC style implementation of the core
// logic for your [http.Handler].
type Handler[Req, Resp any] interface {
	Handle(context.Context, *Req) (*Resp, error)
}

// HandlerFunc is an adapter to allow the use of ordinary functions
// as [Handler]s.
type HandlerFunc[Req, Resp any] func(context.Context, *Req) (*Resp, error)

// Handle implements the [Handler] interface.
func (f HandlerFunc[Req, Resp]) Handle(ctx context.Context, req *Req) (*Resp, error) {
	return f(ctx, req)
}

// RequestReader is meant to be implemented by any type which knows how
// to unmarshal itself from a [http.Request].
type RequestReader[T any] interface {
	*T

	ReadRequest(context.Context, *http.Request) error
}

// TypedRequest is a [RequestReader] which also provides an OpenAPI 3.0
// spec for itself.
type TypedRequest[T any] interface {
	RequestReader[T]

	Spec(*SchemaContext) (openapi3.RequestBodyOrRef, error)
}

// RequestParameterizer is optionally implemented by request types whose
// fields surface as operation parameters instead of a request body, like
// [QueryRequest].
type RequestParameterizer interface {
	RequestParameters(*SchemaContext) ([]openapi3.ParameterOrRef, error)
}

// ResponseWriter is meant to be implemented by any type which knows how
// to marshal itself into a HTTP response.
type ResponseWriter[T any] interface {
	*T

	WriteResponse(context.Context, http.ResponseWriter) error
}

// TypedResponse is a [ResponseWriter] which also provides an OpenAPI 3.0
// spec for itself.
type TypedResponse[T any] interface {
	ResponseWriter[T]

	Spec(*SchemaContext) (int, openapi3.ResponseOrRef, error)
}

// recordValidator is implemented by request wrappers carrying a record
// type declaration which must be checked at definition time.
type recordValidator interface {
	validateRecord() error
}

// OperationOptions holds configuration for an operation created
// with [NewOperation].
type OperationOptions struct {
	errHandler     ErrorHandler
	summary        string
	description    string
	extraResponses []int
}

// OperationOption configures an operation created by [NewOperation].
type OperationOption func(*OperationOptions)

// OnError configures a custom [ErrorHandler] for an operation.
// If not specified, operations use a default error handler that logs errors
// and returns appropriate HTTP status codes.
func OnError(eh ErrorHandler) OperationOption {
	return func(oo *OperationOptions) {
		oo.errHandler = eh
	}
}

// Summary sets the operation summary in the OpenAPI spec.
func Summary(s string) OperationOption {
	return func(oo *OperationOptions) {
		oo.summary = s
	}
}

// Description sets the operation description in the OpenAPI spec.
func Description(s string) OperationOption {
	return func(oo *OperationOptions) {
		oo.description = s
	}
}

// Returns documents an additional response status code which the operation
// may produce, for example [http.StatusNotFound]. The success status comes
// from the declared response type.
func Returns(status int) OperationOption {
	return func(oo *OperationOptions) {
		oo.extraResponses = append(oo.extraResponses, status)
	}
}

// Operation adapts a typed [Handler] into a [http.Handler] which also
// provides an OpenAPI 3.0 spec for itself. The request and response types
// declare, per operation, where input is bound from and what the output
// looks like. There is no reflection over handler signatures; the
// declaration is the registration.
type Operation[I, O any, Req TypedRequest[I], Resp TypedResponse[O]] struct {
	tracer         trace.Tracer
	errHandler     ErrorHandler
	summary        string
	description    string
	extraResponses []int
	handler        Handler[I, O]
}

// NewOperation initializes an [Operation].
func NewOperation[I, O any, Req TypedRequest[I], Resp TypedResponse[O]](h Handler[I, O], opts ...OperationOption) *Operation[I, O, Req, Resp] {
	oo := &OperationOptions{
		errHandler: defaultErrorHandler(LogHandler("speccify")),
	}
	for _, opt := range opts {
		opt(oo)
	}
	return &Operation[I, O, Req, Resp]{
		tracer:         otel.Tracer("github.com/z5labs/speccify"),
		errHandler:     oo.errHandler,
		summary:        oo.summary,
		description:    oo.description,
		extraResponses: oo.extraResponses,
		handler:        h,
	}
}

// validate checks the declared request and response records once, at
// definition time.
func (o *Operation[I, O, Req, Resp]) validate() error {
	var i I
	if rv, ok := any(Req(&i)).(recordValidator); ok {
		err := rv.validateRecord()
		if err != nil {
			return err
		}
	}

	var out O
	if rv, ok := any(Resp(&out)).(recordValidator); ok {
		return rv.validateRecord()
	}
	return nil
}

// definition builds the OpenAPI operation from the declared request and
// response types.
func (o *Operation[I, O, Req, Resp]) definition(sc *SchemaContext) (openapi3.Operation, error) {
	var op openapi3.Operation
	if o.summary != "" {
		op.Summary = ptr.Ref(o.summary)
	}
	if o.description != "" {
		op.Description = ptr.Ref(o.description)
	}

	var i I
	req := Req(&i)

	if p, ok := any(req).(RequestParameterizer); ok {
		params, err := p.RequestParameters(sc)
		if err != nil {
			return op, err
		}
		op.Parameters = params
	}

	reqBody, err := req.Spec(sc)
	if err != nil {
		return op, err
	}
	if reqBody.RequestBody != nil {
		op.RequestBody = &reqBody
	}

	responses := make(map[string]openapi3.ResponseOrRef)

	var out O
	status, respSpec, err := Resp(&out).Spec(sc)
	if err != nil {
		return op, err
	}
	responses[strconv.Itoa(status)] = respSpec

	for _, code := range o.extraResponses {
		responses[strconv.Itoa(code)] = openapi3.ResponseOrRef{
			Response: &openapi3.Response{
				Description: http.StatusText(code),
			},
		}
	}

	op.Responses = openapi3.Responses{
		MapOfResponseOrRefValues: responses,
	}
	return op, nil
}

// ServeHTTP implements the [http.Handler] interface.
func (o *Operation[I, O, Req, Resp]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var err error
	defer func() {
		if err == nil {
			return
		}

		o.errHandler.OnError(ctx, w, err)
	}()
	defer try.Recover(&err)

	req, err := o.readRequest(ctx, r)
	if err != nil {
		return
	}

	resp, err := o.handler.Handle(ctx, &req)
	if err != nil {
		return
	}
	if resp == nil {
		err = NilHandlerResponseError{}
		return
	}

	err = o.writeResponse(ctx, w, resp)
}

func (o *Operation[I, O, Req, Resp]) readRequest(ctx context.Context, r *http.Request) (I, error) {
	spanCtx, span := o.tracer.Start(ctx, "Operation.readRequest")
	defer span.End()

	var req I
	err := Req(&req).ReadRequest(spanCtx, r)
	return req, err
}

func (o *Operation[I, O, Req, Resp]) writeResponse(ctx context.Context, w http.ResponseWriter, resp Resp) error {
	spanCtx, span := o.tracer.Start(ctx, "Operation.writeResponse")
	defer span.End()

	return resp.WriteResponse(spanCtx, w)
}
