// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package speccify

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func panicsWithErrorAs[E error](t *testing.T, f func()) {
	t.Helper()

	defer func() {
		r := recover()
		require.NotNil(t, r)

		err, ok := r.(error)
		require.True(t, ok)

		var target E
		require.ErrorAs(t, err, &target)
	}()

	f()
}

func TestNewEndpoint(t *testing.T) {
	t.Run("will panic", func(t *testing.T) {
		t.Run("if an optional field declares no default", func(t *testing.T) {
			type BadRequest struct {
				Limit *int `json:"limit"`
			}

			h := HandlerFunc[BadRequest, Display](func(ctx context.Context, req *BadRequest) (*Display, error) {
				return &Display{}, nil
			})

			panicsWithErrorAs[OptionalFieldError](t, func() {
				NewEndpoint(
					http.MethodGet,
					BasePath("/"),
					NewOperation(HandleQuery(h)),
				)
			})
		})

		t.Run("if a request binding wraps another request binding", func(t *testing.T) {
			h := HandlerFunc[Person, Display](func(ctx context.Context, req *Person) (*Display, error) {
				return &Display{}, nil
			})

			panicsWithErrorAs[MultipleBindingsError](t, func() {
				NewEndpoint(
					http.MethodPost,
					BasePath("/"),
					NewOperation(ConsumeQuery(ConsumeBody(ReturnJson(h)))),
				)
			})
		})

		t.Run("if a record declares a request binding field", func(t *testing.T) {
			type BadRequest struct {
				Inner BodyRequest[Person] `json:"inner"`
			}

			h := HandlerFunc[BadRequest, Display](func(ctx context.Context, req *BadRequest) (*Display, error) {
				return &Display{}, nil
			})

			panicsWithErrorAs[MultipleBindingsError](t, func() {
				NewEndpoint(
					http.MethodPost,
					BasePath("/"),
					NewOperation(HandleBody(h)),
				)
			})
		})

		t.Run("if a response record declares an optional field without a default", func(t *testing.T) {
			type BadResponse struct {
				Value *string `json:"value"`
			}

			h := HandlerFunc[Person, BadResponse](func(ctx context.Context, req *Person) (*BadResponse, error) {
				return &BadResponse{}, nil
			})

			panicsWithErrorAs[OptionalFieldError](t, func() {
				NewEndpoint(
					http.MethodGet,
					BasePath("/"),
					NewOperation(HandleQuery(h)),
				)
			})
		})

		t.Run("if a record field declares a default", func(t *testing.T) {
			type BadRequest struct {
				C Child `json:"c" default:"{}"`
			}

			h := HandlerFunc[BadRequest, Display](func(ctx context.Context, req *BadRequest) (*Display, error) {
				return &Display{}, nil
			})

			panicsWithErrorAs[InvalidRecordError](t, func() {
				NewEndpoint(
					http.MethodPost,
					BasePath("/"),
					NewOperation(HandleBody(h)),
				)
			})
		})

		t.Run("if a query record nests another record", func(t *testing.T) {
			type BadRequest struct {
				C Child `json:"c"`
			}

			h := HandlerFunc[BadRequest, Display](func(ctx context.Context, req *BadRequest) (*Display, error) {
				return &Display{}, nil
			})

			panicsWithErrorAs[InvalidRecordError](t, func() {
				NewEndpoint(
					http.MethodGet,
					BasePath("/"),
					NewOperation(HandleQuery(h)),
				)
			})
		})

		t.Run("if the record type is not a struct", func(t *testing.T) {
			h := HandlerFunc[string, Display](func(ctx context.Context, req *string) (*Display, error) {
				return &Display{}, nil
			})

			panicsWithErrorAs[InvalidRecordError](t, func() {
				NewEndpoint(
					http.MethodGet,
					BasePath("/"),
					NewOperation(HandleQuery(h)),
				)
			})
		})
	})

	t.Run("will not panic", func(t *testing.T) {
		t.Run("if a body record nests other records", func(t *testing.T) {
			h := HandlerFunc[NestedRequest, NestedResponse](func(ctx context.Context, req *NestedRequest) (*NestedResponse, error) {
				return &NestedResponse{}, nil
			})

			require.NotPanics(t, func() {
				NewEndpoint(
					http.MethodPost,
					BasePath("/"),
					NewOperation(HandleBody(h)),
				)
			})
		})

		t.Run("if a response record declares an optional field with a default", func(t *testing.T) {
			type NoteResponse struct {
				Note *string `json:"note" default:"none"`
			}

			h := HandlerFunc[Person, NoteResponse](func(ctx context.Context, req *Person) (*NoteResponse, error) {
				return &NoteResponse{}, nil
			})

			require.NotPanics(t, func() {
				NewEndpoint(
					http.MethodGet,
					BasePath("/"),
					NewOperation(HandleQuery(h)),
				)
			})
		})

		t.Run("if an optional field declares a default", func(t *testing.T) {
			h := HandlerFunc[PagedRequest, PagedResponse](func(ctx context.Context, req *PagedRequest) (*PagedResponse, error) {
				return &PagedResponse{}, nil
			})

			require.NotPanics(t, func() {
				NewEndpoint(
					http.MethodGet,
					BasePath("/"),
					NewOperation(HandleQuery(h)),
				)
			})
		})
	})
}
