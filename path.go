// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package speccify

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/ptr"
)

// PathElement represents a component of a URL path.
// It can be either a static path segment or a dynamic path parameter.
type PathElement interface {
	pathElement() string
}

// PathSegment is a static component of a URL path.
type PathSegment string

func (s PathSegment) pathElement() string {
	return string(s)
}

type pathParam struct {
	name string
	opts []ParameterOption
}

func (p pathParam) pathElement() string {
	return "{" + p.name + "}"
}

// Path represents a URL path composed of static segments and dynamic
// parameters. Paths are built using [BasePath] and extended with
// [Path.Segment] and [Path.Param].
type Path []PathElement

// BasePath creates a new path starting with the given segment.
//
// Example:
//
//	path := speccify.BasePath("/api/v1")
func BasePath(s string) Path {
	return []PathElement{PathSegment(s)}
}

// Segment appends a static path segment to the path.
//
// Example:
//
//	path := speccify.BasePath("/api").Segment("users")
//	// Results in: /api/users
func (p Path) Segment(s string) Path {
	return append(p, PathSegment(s))
}

// Param appends a dynamic path parameter to the path. The parameter value
// is not bound to a record; handlers read it by name with [PathValue].
//
// Example:
//
//	path := speccify.BasePath("/users").Param("userId")
//	// Results in: /users/{userId}
func (p Path) Param(name string, opts ...ParameterOption) Path {
	return append(p, pathParam{
		name: name,
		opts: opts,
	})
}

// String converts the path to its string representation. Static segments
// are joined with slashes and parameters are formatted as {name}.
func (p Path) String() string {
	ss := make([]string, len(p))
	for i, el := range p {
		ss[i] = el.pathElement()
	}
	return path.Join(ss...)
}

// PathValue returns the named path parameter for the request being handled.
// Path parameters pass through to handlers untyped and by name.
func PathValue(ctx context.Context, name string) string {
	rctx := chi.RouteContext(ctx)
	if rctx == nil {
		return ""
	}
	return rctx.URLParam(name)
}

// ParameterOptions holds the OpenAPI definition and validators for a
// path parameter.
type ParameterOptions struct {
	def        *openapi3.Parameter
	validators []func(string) error
}

// ParameterOption configures a path parameter created by [Path.Param].
type ParameterOption func(*ParameterOptions)

// InvalidPathParamError is returned when a path parameter value fails
// validation. It is wrapped in a [BadRequestError].
type InvalidPathParamError struct {
	Param string
	Value string
}

func (e InvalidPathParamError) Error() string {
	return fmt.Sprintf("invalid path param %s: %s", e.Param, e.Value)
}

// Regex validates the path parameter value against the given expression.
//
// Example:
//
//	speccify.BasePath("/users").Param("userId", speccify.Regex(regexp.MustCompile(`^\d+$`)))
func Regex(re *regexp.Regexp) ParameterOption {
	return func(po *ParameterOptions) {
		po.def.Schema = &openapi3.SchemaOrRef{
			Schema: &openapi3.Schema{
				Type:    ptr.Ref(openapi3.SchemaTypeString),
				Pattern: ptr.Ref(re.String()),
			},
		}

		name := po.def.Name
		po.validators = append(po.validators, func(value string) error {
			if re.MatchString(value) {
				return nil
			}
			return BadRequestError{
				Cause: InvalidPathParamError{
					Param: name,
					Value: value,
				},
			}
		})
	}
}

// params collects the OpenAPI parameter definitions and request time
// validators for every dynamic element of the path.
func (p Path) params() ([]openapi3.ParameterOrRef, []func(*http.Request) error) {
	var defs []openapi3.ParameterOrRef
	var transforms []func(*http.Request) error

	for _, el := range p {
		v, ok := el.(pathParam)
		if !ok {
			continue
		}

		po := &ParameterOptions{
			def: &openapi3.Parameter{
				Name:     v.name,
				In:       openapi3.ParameterInPath,
				Required: ptr.Ref(true),
			},
		}
		for _, opt := range v.opts {
			opt(po)
		}

		defs = append(defs, openapi3.ParameterOrRef{
			Parameter: po.def,
		})

		if len(po.validators) == 0 {
			continue
		}
		name := v.name
		validators := po.validators
		transforms = append(transforms, func(r *http.Request) error {
			value := chi.URLParam(r, name)
			for _, validate := range validators {
				if err := validate(value); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return defs, transforms
}
