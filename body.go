// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package speccify

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"reflect"

	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/ptr"
	"github.com/z5labs/sdk-go/try"
)

// ConsumeBodyHandler wraps a handler to bind its request record to the
// request body.
type ConsumeBodyHandler[Req, Resp any] struct {
	inner Handler[Req, Resp]
}

// ConsumeBody initializes a [ConsumeBodyHandler].
//
// The request record is populated from the parsed body, regardless of
// whether it arrives JSON or form encoded. JSON bodies may carry nested
// records:
//
//	type CreateRequest struct {
//	    Name    string  `json:"name"`
//	    Contact Contact `json:"contact"`
//	}
func ConsumeBody[Req, Resp any](h Handler[Req, Resp]) *ConsumeBodyHandler[Req, Resp] {
	return &ConsumeBodyHandler[Req, Resp]{
		inner: h,
	}
}

// BodyRequest binds a record type to the request body.
type BodyRequest[T any] struct {
	inner T
}

func (*BodyRequest[T]) bindsRequest() {}

func (*BodyRequest[T]) validateRecord() error {
	return validateRecord(reflect.TypeFor[T](), false)
}

// ReadRequest implements the [RequestReader] interface. The source encoding
// is chosen from the Content-Type header; anything other than JSON or
// form encoding is a client error.
func (br *BodyRequest[T]) ReadRequest(ctx context.Context, r *http.Request) (err error) {
	defer try.Close(&err, r.Body)

	contentType := r.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return BadRequestError{
			Cause: InvalidContentTypeError{
				ContentType: contentType,
			},
		}
	}

	dst := reflect.ValueOf(&br.inner).Elem()

	switch mediaType {
	case "application/json":
		var raw map[string]json.RawMessage
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&raw); err != nil {
			return BadRequestError{
				Cause: err,
			}
		}
		return decodeRecord(dst, jsonSource(raw))
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return BadRequestError{
				Cause: err,
			}
		}
		return decodeRecord(dst, stringSource(r.PostForm))
	default:
		return BadRequestError{
			Cause: InvalidContentTypeError{
				ContentType: contentType,
			},
		}
	}
}

// Spec implements the [TypedRequest] interface. The record schema is
// published once under components.schemas and referenced for both
// supported encodings.
func (*BodyRequest[T]) Spec(sc *SchemaContext) (openapi3.RequestBodyOrRef, error) {
	var t T
	schemaOrRef, err := sc.ReflectSchema(t)
	if err != nil {
		return openapi3.RequestBodyOrRef{}, err
	}

	spec := &openapi3.RequestBody{
		Required: ptr.Ref(true),
		Content: map[string]openapi3.MediaType{
			"application/json": {
				Schema: &schemaOrRef,
			},
			"application/x-www-form-urlencoded": {
				Schema: &schemaOrRef,
			},
		},
	}

	return openapi3.RequestBodyOrRef{
		RequestBody: spec,
	}, nil
}

// Handle implements the [Handler] interface.
func (h *ConsumeBodyHandler[Req, Resp]) Handle(ctx context.Context, req *BodyRequest[Req]) (*Resp, error) {
	return h.inner.Handle(ctx, &req.inner)
}

// ConsumeOnlyBody creates a handler that consumes a request body without
// returning a response body. Use this for webhook style POST/PUT endpoints
// that process data but don't return content.
func ConsumeOnlyBody[T any](c Consumer[T]) *ConsumeBodyHandler[T, EmptyResponse] {
	inner := &ConsumerHandler[T]{
		c: c,
	}
	return ConsumeBody(inner)
}

// HandleBody creates a handler that consumes a request body and produces a
// JSON response. Use this for POST/PUT endpoints with request and response
// records.
func HandleBody[Req, Resp any](h Handler[Req, Resp]) *ConsumeBodyHandler[Req, JsonResponse[Resp]] {
	return ConsumeBody(ReturnJson(h))
}
