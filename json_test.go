// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package speccify

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturnJson(t *testing.T) {
	t.Run("will serialize the response record as JSON", func(t *testing.T) {
		t.Run("if the record nests other records", func(t *testing.T) {
			type Inner struct {
				Value string `json:"value"`
			}
			type Outer struct {
				Inner Inner `json:"inner"`
			}

			p := ProducerFunc[Outer](func(ctx context.Context) (*Outer, error) {
				return &Outer{
					Inner: Inner{
						Value: "nested",
					},
				}, nil
			})

			srv := serveApi(t, NewEndpoint(
				http.MethodGet,
				BasePath("/"),
				NewOperation(ProduceJson(p)),
			))

			resp, err := http.Get(srv.URL + "/")
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			outer := decodeJson[Outer](t, resp.Body)
			assert.Equal(t, "nested", outer.Inner.Value)
		})
	})

	t.Run("will return a 500 status code", func(t *testing.T) {
		t.Run("if the handler returns nil without an error", func(t *testing.T) {
			p := ProducerFunc[echoMessage](func(ctx context.Context) (*echoMessage, error) {
				return nil, nil
			})

			srv := serveApi(t, NewEndpoint(
				http.MethodGet,
				BasePath("/"),
				NewOperation(ProduceJson(p)),
			))

			resp, err := http.Get(srv.URL + "/")
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		})

		t.Run("if the handler returns an error", func(t *testing.T) {
			p := ProducerFunc[echoMessage](func(ctx context.Context) (*echoMessage, error) {
				return nil, errors.New("handler failed")
			})

			srv := serveApi(t, NewEndpoint(
				http.MethodGet,
				BasePath("/"),
				NewOperation(ProduceJson(p)),
			))

			resp, err := http.Get(srv.URL + "/")
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		})

		t.Run("if the handler panics", func(t *testing.T) {
			p := ProducerFunc[echoMessage](func(ctx context.Context) (*echoMessage, error) {
				panic("boom")
			})

			srv := serveApi(t, NewEndpoint(
				http.MethodGet,
				BasePath("/"),
				NewOperation(ProduceJson(p)),
			))

			resp, err := http.Get(srv.URL + "/")
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		})
	})
}

func TestConsumeOnlyBody(t *testing.T) {
	t.Run("will return an empty response body", func(t *testing.T) {
		t.Run("if the consumer succeeds", func(t *testing.T) {
			var consumed Person
			c := ConsumerFunc[Person](func(ctx context.Context, req *Person) error {
				consumed = *req
				return nil
			})

			srv := serveApi(t, NewEndpoint(
				http.MethodPost,
				BasePath("/"),
				NewOperation(ConsumeOnlyBody(c)),
			))

			body := jsonBody(t, map[string]any{"name": "ann"})
			resp, err := http.Post(srv.URL+"/", "application/json", body)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusOK, resp.StatusCode)

			b, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Empty(t, b)
			assert.Equal(t, "ann", consumed.Name)
		})
	})
}
