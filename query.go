// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package speccify

import (
	"context"
	"net/http"
	"reflect"

	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/ptr"
)

// ConsumeQueryHandler wraps a handler to bind its request record to the
// URL query string.
type ConsumeQueryHandler[Req, Resp any] struct {
	inner Handler[Req, Resp]
}

// ConsumeQuery initializes a [ConsumeQueryHandler].
//
// The request record is populated from the query string, field by field.
// Query records must be flat; declaring a nested record field is a
// definition time error.
//
//	type SearchRequest struct {
//	    Query string `json:"q"`
//	    Limit *int   `json:"limit" default:"10"`
//	}
func ConsumeQuery[Req, Resp any](h Handler[Req, Resp]) *ConsumeQueryHandler[Req, Resp] {
	return &ConsumeQueryHandler[Req, Resp]{
		inner: h,
	}
}

// QueryRequest binds a record type to the URL query string.
type QueryRequest[T any] struct {
	inner T
}

func (*QueryRequest[T]) bindsRequest() {}

func (*QueryRequest[T]) validateRecord() error {
	return validateRecord(reflect.TypeFor[T](), true)
}

// ReadRequest implements the [RequestReader] interface. Only declared
// fields are read from the query string; unrecognized parameters are
// silently dropped.
func (qr *QueryRequest[T]) ReadRequest(ctx context.Context, r *http.Request) error {
	return decodeRecord(reflect.ValueOf(&qr.inner).Elem(), stringSource(r.URL.Query()))
}

// Spec implements the [TypedRequest] interface. Query sourced records do
// not contribute a request body; see [QueryRequest.RequestParameters].
func (*QueryRequest[T]) Spec(*SchemaContext) (openapi3.RequestBodyOrRef, error) {
	return openapi3.RequestBodyOrRef{}, nil
}

// RequestParameters implements the [RequestParameterizer] interface by
// enumerating the record's fields as query parameters.
func (*QueryRequest[T]) RequestParameters(sc *SchemaContext) ([]openapi3.ParameterOrRef, error) {
	var t T
	jsonSchema, err := sc.ReflectInline(t)
	if err != nil {
		return nil, err
	}

	rt := reflect.TypeFor[T]()

	var params []openapi3.ParameterOrRef
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() || f.Tag.Get("json") == "-" {
			continue
		}

		name := fieldName(f)

		var schemaOrRef *openapi3.SchemaOrRef
		if prop, ok := jsonSchema.Properties[name]; ok {
			var sor openapi3.SchemaOrRef
			sor.FromJSONSchema(prop)
			schemaOrRef = &sor
		}

		params = append(params, openapi3.ParameterOrRef{
			Parameter: &openapi3.Parameter{
				Name:     name,
				In:       openapi3.ParameterInQuery,
				Required: ptr.Ref(!optionalField(f)),
				Schema:   schemaOrRef,
			},
		})
	}
	return params, nil
}

// Handle implements the [Handler] interface.
func (h *ConsumeQueryHandler[Req, Resp]) Handle(ctx context.Context, req *QueryRequest[Req]) (*Resp, error) {
	return h.inner.Handle(ctx, &req.inner)
}

// ConsumeOnlyQuery creates a handler that binds the query string without
// returning a response body.
func ConsumeOnlyQuery[T any](c Consumer[T]) *ConsumeQueryHandler[T, EmptyResponse] {
	inner := &ConsumerHandler[T]{
		c: c,
	}
	return ConsumeQuery(inner)
}

// HandleQuery creates a handler that binds the query string and produces a
// JSON response. Use this for GET endpoints with typed inputs.
//
// Example:
//
//	h := speccify.HandlerFunc[Request, Response](func(ctx context.Context, req *Request) (*Response, error) {
//	    return &Response{Length: strconv.Itoa(len(req.Name))}, nil
//	})
//	op := speccify.NewOperation(speccify.HandleQuery(h))
func HandleQuery[Req, Resp any](h Handler[Req, Resp]) *ConsumeQueryHandler[Req, JsonResponse[Resp]] {
	return ConsumeQuery(ReturnJson(h))
}
