// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package speccify

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoMessage struct {
	Message string `json:"message"`
}

func echoProducer(msg string) *ReturnJsonHandler[EmptyRequest, echoMessage] {
	return ProduceJson(ProducerFunc[echoMessage](func(ctx context.Context) (*echoMessage, error) {
		return &echoMessage{
			Message: msg,
		}, nil
	}))
}

func TestEndpoint_WithMethod(t *testing.T) {
	t.Run("will dispatch on the request method", func(t *testing.T) {
		t.Run("if multiple methods share a path", func(t *testing.T) {
			e := NewEndpoint(
				http.MethodGet,
				BasePath("/widgets"),
				NewOperation(echoProducer("got")),
			).WithMethod(
				http.MethodPost,
				NewOperation(echoProducer("created")),
			)

			srv := serveApi(t, e)

			resp, err := http.Get(srv.URL + "/widgets")
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusOK, resp.StatusCode)
			msg := decodeJson[echoMessage](t, resp.Body)
			assert.Equal(t, "got", msg.Message)

			resp, err = http.Post(srv.URL+"/widgets", "application/json", strings.NewReader("{}"))
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusOK, resp.StatusCode)
			msg = decodeJson[echoMessage](t, resp.Body)
			assert.Equal(t, "created", msg.Message)
		})
	})

	t.Run("will return a 405 status code", func(t *testing.T) {
		t.Run("if the request method is not registered", func(t *testing.T) {
			e := NewEndpoint(
				http.MethodGet,
				BasePath("/widgets"),
				NewOperation(echoProducer("got")),
			)

			srv := serveApi(t, e)

			req, err := http.NewRequest(http.MethodDelete, srv.URL+"/widgets", nil)
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		})
	})

	t.Run("will panic", func(t *testing.T) {
		t.Run("if the same method is registered twice", func(t *testing.T) {
			e := NewEndpoint(
				http.MethodGet,
				BasePath("/widgets"),
				NewOperation(echoProducer("one")),
			)

			panicsWithErrorAs[OverlappingMethodsError](t, func() {
				e.WithMethod(http.MethodGet, NewOperation(echoProducer("two")))
			})
		})

		t.Run("if an absorbed endpoint is registered with an api", func(t *testing.T) {
			e := NewEndpoint(
				http.MethodGet,
				BasePath("/widgets"),
				NewOperation(echoProducer("one")),
			)

			// absorbing e means only the composite may be registered
			e.WithMethod(http.MethodPost, NewOperation(echoProducer("two")))

			panicsWithErrorAs[AbsorbedEndpointError](t, func() {
				NewApi("Test", "v1", e)
			})
		})
	})
}
