// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package speccify

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/openapi-go/openapi3"
)

// ApiOptions holds configuration values used when constructing an [Api].
// This struct is passed to [ApiOption] implementations to configure the
// API's router and OpenAPI specification.
type ApiOptions struct {
	mux     *chi.Mux
	def     *openapi3.Spec
	schemas *SchemaContext
}

// ApiOption is an interface for configuring an [Api].
//
// Common implementations include:
//   - [Endpoint] - registers typed HTTP operations
//   - [NotFound] - customizes 404 handling
//   - [MethodNotAllowed] - customizes 405 handling
type ApiOption interface {
	ApplyApiOption(*ApiOptions)
}

type apiOptionFunc func(*ApiOptions)

func (f apiOptionFunc) ApplyApiOption(ao *ApiOptions) {
	f(ao)
}

// NotFound configures a custom handler for requests that don't match any
// registered routes. This overrides the default 404 Not Found behavior.
func NotFound(h http.Handler) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.mux.NotFound(h.ServeHTTP)
	})
}

// MethodNotAllowed configures a custom handler for requests to valid routes
// with unsupported HTTP methods. This overrides the default 405 Method Not
// Allowed behavior.
func MethodNotAllowed(h http.Handler) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.mux.MethodNotAllowed(h.ServeHTTP)
	})
}

// Api is an OpenAPI-compliant [http.Handler].
//
// Every Api automatically provides:
//   - OpenAPI 3.0 schema available at GET /openapi.json
//   - Standard 404 Not Found handling
//   - Standard 405 Method Not Allowed handling
//
// Create an Api using [NewApi], passing endpoints created
// with [NewEndpoint].
type Api struct {
	router *chi.Mux
}

// NewApi creates a new [Api] with the specified title and version.
//
// The title and version are included in the OpenAPI specification served
// at /openapi.json. Every record type reachable from the registered
// endpoints is published under components.schemas, keyed by type name.
//
// Example:
//
//	api := speccify.NewApi(
//	    "Bookstore API",
//	    "v2.1.0",
//	    speccify.NewEndpoint(http.MethodGet, speccify.BasePath("/books"), listBooks),
//	    speccify.NewEndpoint(http.MethodPost, speccify.BasePath("/books"), createBook),
//	)
func NewApi(title, version string, opts ...ApiOption) *Api {
	log := Logger("github.com/z5labs/speccify")

	def := &openapi3.Spec{
		Openapi: "3.0",
		Info: openapi3.Info{
			Title:   title,
			Version: version,
		},
	}

	ao := &ApiOptions{
		mux:     chi.NewMux(),
		def:     def,
		schemas: newSchemaContext(def),
	}
	for _, opt := range opts {
		opt.ApplyApiOption(ao)
	}

	ao.mux.Get("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		enc := json.NewEncoder(w)
		err := enc.Encode(ao.def)
		if err == nil {
			return
		}
		log.ErrorContext(
			r.Context(),
			"failed to encode openapi schema to json",
			slog.Any("error", err),
		)
	})

	return &Api{
		router: ao.mux,
	}
}

// ServeHTTP implements the [http.Handler] interface.
// It delegates request handling to the configured router, which dispatches
// requests to the appropriate operation handlers based on method and path.
func (api *Api) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	api.router.ServeHTTP(w, req)
}
