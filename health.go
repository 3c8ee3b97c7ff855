// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package speccify

import (
	"context"
	"net/http"
	"sync/atomic"
)

// HealthMonitor represents anything which can report its current state
// of health.
type HealthMonitor interface {
	Healthy(context.Context) (bool, error)
}

// BinaryHealth is a [HealthMonitor] with 2 states: healthy or unhealthy.
// It is safe for concurrent use. The zero value is unhealthy.
type BinaryHealth struct {
	healthy atomic.Bool
}

// MarkHealthy changes the state to healthy.
func (b *BinaryHealth) MarkHealthy() {
	b.healthy.Store(true)
}

// MarkUnhealthy changes the state to unhealthy.
func (b *BinaryHealth) MarkUnhealthy() {
	b.healthy.Store(false)
}

// Healthy implements the [HealthMonitor] interface.
func (b *BinaryHealth) Healthy(ctx context.Context) (bool, error) {
	return b.healthy.Load(), nil
}

// Readiness mounts the given [HealthMonitor] at "/health/readiness" for
// reporting when the application is ready to start accepting traffic.
//
// An example usage of this is to tie the [HealthMonitor] to any backend
// client circuit breakers. When one of the circuit breakers moves to an
// OPEN state your application can quickly notify upstream component(s)
// (e.g. load balancer) that no requests should be sent to it since
// they'll just fail anyways due to the circuit being OPEN.
//
// See [Liveness, Readiness, and Startup Probes](https://kubernetes.io/docs/concepts/configuration/liveness-readiness-startup-probes/)
// for more details.
func Readiness(m HealthMonitor) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.mux.Get("/health/readiness", healthHandler(m))
	})
}

// Liveness mounts the given [HealthMonitor] at "/health/liveness" for
// reporting when the entire application needs to be restarted.
//
// See [Liveness, Readiness, and Startup Probes](https://kubernetes.io/docs/concepts/configuration/liveness-readiness-startup-probes/)
// for more details.
func Liveness(m HealthMonitor) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.mux.Get("/health/liveness", healthHandler(m))
	})
}

func healthHandler(m HealthMonitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		healthy, err := m.Healthy(r.Context())
		if !healthy || err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
