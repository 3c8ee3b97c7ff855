// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package speccify

import (
	"reflect"

	"github.com/swaggest/jsonschema-go"
	"github.com/swaggest/openapi-go/openapi3"
)

const componentSchemaPrefix = "#/components/schemas/"

// SchemaContext reflects record types into JSON Schemas for the OpenAPI
// spec being assembled by an [Api]. Every named type reached during
// reflection, including transitively nested records, is registered under
// components.schemas keyed by its type name.
//
// A single SchemaContext is shared by all endpoints of an [Api], so records
// referenced from several operations are defined once.
type SchemaContext struct {
	reflector *jsonschema.Reflector
	spec      *openapi3.Spec
}

func newSchemaContext(spec *openapi3.Spec) *SchemaContext {
	return &SchemaContext{
		reflector: &jsonschema.Reflector{},
		spec:      spec,
	}
}

// ReflectSchema reflects v into a schema reference. The definition itself,
// along with any nested record definitions, is added to components.schemas.
func (sc *SchemaContext) ReflectSchema(v any) (openapi3.SchemaOrRef, error) {
	var schemaOrRef openapi3.SchemaOrRef

	jsonSchema, err := sc.reflector.Reflect(
		v,
		jsonschema.RootRef,
		jsonschema.DefinitionsPrefix(componentSchemaPrefix),
		jsonschema.InterceptDefName(func(t reflect.Type, defaultDefName string) string {
			if name := t.Name(); name != "" {
				return name
			}
			return defaultDefName
		}),
		jsonschema.CollectDefinitions(sc.addComponent),
	)
	if err != nil {
		return schemaOrRef, err
	}

	schemaOrRef.FromJSONSchema(jsonSchema.ToSchemaOrBool())
	return schemaOrRef, nil
}

// ReflectInline reflects v into a self-contained schema with all references
// inlined. Query parameter synthesis uses this to enumerate record fields
// without publishing a body schema.
func (sc *SchemaContext) ReflectInline(v any) (jsonschema.Schema, error) {
	return sc.reflector.Reflect(v, jsonschema.InlineRefs)
}

func (sc *SchemaContext) addComponent(name string, s jsonschema.Schema) {
	var schemaOrRef openapi3.SchemaOrRef
	schemaOrRef.FromJSONSchema(s.ToSchemaOrBool())

	sc.spec.ComponentsEns().SchemasEns().WithMapOfSchemaOrRefValuesItem(name, schemaOrRef)
}
