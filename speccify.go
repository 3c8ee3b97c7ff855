// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package speccify binds declared record types to HTTP requests and responses.
//
// # Overview
//
// speccify is a thin, typed adapter over [net/http]: you declare plain
// structs (records) for an operation's input and output, and speccify takes
// care of:
//   - reading the input record from the query string or request body
//   - validating and coercing field values, applying declared defaults
//   - invoking your handler with typed arguments
//   - serializing the returned record into the response body
//   - deriving an OpenAPI 3.0 schema from those same declarations
//
// Routing, serving and method dispatch are delegated to a [chi.Mux]. Schema
// synthesis is delegated to swaggest's jsonschema-go and openapi-go.
//
// # Records
//
// A record is a struct whose exported fields name the values an operation
// consumes or produces. Field names map via the "json" struct tag, falling
// back to the lowercased Go name. Optional fields are pointer typed and must
// declare a default via the "default" struct tag:
//
//	type SearchRequest struct {
//	    Query string `json:"q"`
//	    Limit *int   `json:"limit" default:"10"`
//	}
//
// An optional field without a default is a definition time error. It is
// reported when the endpoint is constructed, before any traffic is served.
//
// # Operations and endpoints
//
// Handlers never see http.ResponseWriter or *http.Request:
//
//	h := speccify.HandlerFunc[SearchRequest, SearchResponse](func(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
//	    return search(ctx, req.Query, *req.Limit)
//	})
//
//	endpoint := speccify.NewEndpoint(
//	    http.MethodGet,
//	    speccify.BasePath("/search"),
//	    speccify.NewOperation(speccify.HandleQuery(h)),
//	)
//
//	api := speccify.NewApi("Search API", "v1.0.0", endpoint)
//	http.ListenAndServe(":8080", api)
//
// A single endpoint can serve multiple HTTP methods. [Endpoint.WithMethod]
// returns a new composite endpoint and absorbs its receiver; only the
// composite may be registered with an [Api]:
//
//	both := speccify.NewEndpoint(http.MethodGet, path, speccify.NewOperation(speccify.HandleQuery(getHandler))).
//	    WithMethod(http.MethodPost, speccify.NewOperation(speccify.HandleBody(postHandler)))
//
// # OpenAPI
//
// Every record reachable from a registered endpoint is published under
// components.schemas, keyed by its type name. The assembled spec is served
// at GET /openapi.json.
package speccify

import (
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// Logger returns a [slog.Logger] which is backed by the
// OTel logging bridge, otelslog.
func Logger(name string) *slog.Logger {
	return otelslog.NewLogger(name)
}

// LogHandler returns a [slog.Handler] which is backed by the
// OTel logging bridge, otelslog.
func LogHandler(name string) slog.Handler {
	return otelslog.NewHandler(name)
}
