// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package speccify

import (
	"fmt"
)

// Definition time errors are raised as panics while an [Endpoint] is being
// constructed or registered with an [Api]. They indicate a malformed
// declaration and are meant to fail startup and tests, not to be recovered.

// OptionalFieldError indicates a record declares an optional (pointer typed)
// field without a "default" struct tag.
type OptionalFieldError struct {
	Record string
	Field  string
}

func (e OptionalFieldError) Error() string {
	return fmt.Sprintf("speccify: optional field %s.%s must declare a default", e.Record, e.Field)
}

// InvalidRecordError indicates a type can not be used as a record at all,
// for example a non-struct type or a query record with a nested struct field.
type InvalidRecordError struct {
	Record string
	Reason string
}

func (e InvalidRecordError) Error() string {
	return fmt.Sprintf("speccify: invalid record %s: %s", e.Record, e.Reason)
}

// MultipleBindingsError indicates an operation declares more than one
// request binding, for example a query binding wrapped around a body binding.
type MultipleBindingsError struct {
	Record string
}

func (e MultipleBindingsError) Error() string {
	return fmt.Sprintf("speccify: at most one request binding is allowed per operation, %s binds another request", e.Record)
}

// OverlappingMethodsError indicates the same HTTP method was registered
// twice on one [Endpoint].
type OverlappingMethodsError struct {
	Method string
}

func (e OverlappingMethodsError) Error() string {
	return fmt.Sprintf("speccify: overlapping methods are not allowed: %s", e.Method)
}

// AbsorbedEndpointError indicates an attempt to register an [Endpoint]
// which has been absorbed into a composite via [Endpoint.WithMethod].
// Only the composite may be registered.
type AbsorbedEndpointError struct {
	Parent string
}

func (e AbsorbedEndpointError) Error() string {
	return fmt.Sprintf("speccify: endpoint was absorbed into %s and can not be registered itself", e.Parent)
}

// Request time errors surface either as client facing validation failures,
// wrapped in [BadRequestError], or as server faults handled by the
// operation's [ErrorHandler].

// MissingRequiredFieldError is returned when a required record field is
// absent from the request source.
type MissingRequiredFieldError struct {
	Record string
	Field  string
}

func (e MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("missing required field %s.%s", e.Record, e.Field)
}

// InvalidFieldValueError is returned when an incoming value can not be
// coerced into the declared field type.
type InvalidFieldValueError struct {
	Record string
	Field  string
	Cause  error
}

func (e InvalidFieldValueError) Error() string {
	return fmt.Sprintf("invalid value for field %s.%s: %v", e.Record, e.Field, e.Cause)
}

func (e InvalidFieldValueError) Unwrap() error {
	return e.Cause
}

// InvalidContentTypeError is returned when a body sourced record receives a
// request whose Content-Type is neither JSON nor form encoded.
type InvalidContentTypeError struct {
	ContentType string
}

func (e InvalidContentTypeError) Error() string {
	return fmt.Sprintf("invalid content type: %s", e.ContentType)
}

// NilHandlerResponseError is returned when a handler declares a response
// record but returns nil without an error. The declared return type is a
// contract; breaking it is a server fault, not an empty response.
type NilHandlerResponseError struct{}

func (e NilHandlerResponseError) Error() string {
	return "speccify: handler returned nil instead of its declared response type"
}
