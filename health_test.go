// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package speccify

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadiness(t *testing.T) {
	t.Run("will return a 200 status code", func(t *testing.T) {
		t.Run("if the monitor reports healthy", func(t *testing.T) {
			var m BinaryHealth
			m.MarkHealthy()

			srv := serveApi(t, Readiness(&m))

			resp, err := http.Get(srv.URL + "/health/readiness")
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})
	})

	t.Run("will return a 503 status code", func(t *testing.T) {
		t.Run("if the monitor reports unhealthy", func(t *testing.T) {
			var m BinaryHealth
			m.MarkHealthy()
			m.MarkUnhealthy()

			srv := serveApi(t, Readiness(&m))

			resp, err := http.Get(srv.URL + "/health/readiness")
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		})
	})
}

func TestLiveness(t *testing.T) {
	t.Run("will return a 503 status code", func(t *testing.T) {
		t.Run("if the monitor was never marked healthy", func(t *testing.T) {
			var m BinaryHealth

			srv := serveApi(t, Liveness(&m))

			resp, err := http.Get(srv.URL + "/health/liveness")
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		})
	})
}
