// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package speccify

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"

	"github.com/swaggest/openapi-go/openapi3"
)

// ReturnJsonHandler wraps a handler to serialize its response record as JSON.
type ReturnJsonHandler[Req, Resp any] struct {
	inner Handler[Req, Resp]
}

// ReturnJson initializes a [ReturnJsonHandler].
func ReturnJson[Req, Resp any](h Handler[Req, Resp]) *ReturnJsonHandler[Req, Resp] {
	return &ReturnJsonHandler[Req, Resp]{
		inner: h,
	}
}

// JsonResponse serializes a record type into a JSON response body.
type JsonResponse[T any] struct {
	inner *T
}

func (*JsonResponse[T]) validateRecord() error {
	return validateRecord(reflect.TypeFor[T](), false)
}

// Spec implements the [TypedResponse] interface.
func (*JsonResponse[T]) Spec(sc *SchemaContext) (int, openapi3.ResponseOrRef, error) {
	var t T
	schemaOrRef, err := sc.ReflectSchema(t)
	if err != nil {
		return 0, openapi3.ResponseOrRef{}, err
	}

	spec := &openapi3.Response{
		Description: http.StatusText(http.StatusOK),
		Content: map[string]openapi3.MediaType{
			"application/json": {
				Schema: &schemaOrRef,
			},
		},
	}

	return http.StatusOK, openapi3.ResponseOrRef{
		Response: spec,
	}, nil
}

// WriteResponse implements the [ResponseWriter] interface. Nested records
// serialize field by field through [encoding/json].
func (jr *JsonResponse[T]) WriteResponse(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	return enc.Encode(jr.inner)
}

// Handle implements the [Handler] interface. Returning nil without an error
// breaks the declared response contract and surfaces as a server fault.
func (h *ReturnJsonHandler[Req, Resp]) Handle(ctx context.Context, req *Req) (*JsonResponse[Resp], error) {
	resp, err := h.inner.Handle(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, NilHandlerResponseError{}
	}
	return &JsonResponse[Resp]{
		inner: resp,
	}, nil
}

// ProduceJson creates a handler that returns JSON responses without
// consuming any request input. Use this for plain GET endpoints.
//
// Example:
//
//	p := speccify.ProducerFunc[Response](func(ctx context.Context) (*Response, error) {
//	    return &Response{Message: "hello"}, nil
//	})
//	op := speccify.NewOperation(speccify.ProduceJson(p))
func ProduceJson[T any](p Producer[T]) *ReturnJsonHandler[EmptyRequest, T] {
	inner := &ProducerHandler[T]{
		p: p,
	}
	return ReturnJson(inner)
}
