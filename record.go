// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package speccify

import (
	"encoding"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// requestBinding is implemented by the request wrapper types, QueryRequest
// and BodyRequest. It lets record validation detect a binding nested inside
// another binding's record type.
type requestBinding interface {
	bindsRequest()
}

var requestBindingType = reflect.TypeFor[requestBinding]()

// fieldName resolves the incoming/outgoing name of a record field from its
// "json" tag, falling back to the lowercased Go name. Fields tagged "-" are
// skipped entirely.
func fieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return strings.ToLower(f.Name)
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return strings.ToLower(f.Name)
	}
	return name
}

// optionalField reports whether a record field is optional. A field is
// optional when it is pointer typed or carries a "default" tag.
func optionalField(f reflect.StructField) bool {
	if f.Type.Kind() == reflect.Pointer {
		return true
	}
	_, ok := f.Tag.Lookup("default")
	return ok
}

// validateRecord checks a record type declaration once, at definition time.
// Request time never revisits these rules.
//
// flat restricts the record to scalar-ish fields, which is required for
// query sourced records since the query string has no nesting.
func validateRecord(t reflect.Type, flat bool) error {
	return validateRecordSeen(t, flat, make(map[reflect.Type]struct{}))
}

func validateRecordSeen(t reflect.Type, flat bool, seen map[reflect.Type]struct{}) error {
	if t.Kind() != reflect.Struct {
		return InvalidRecordError{
			Record: t.String(),
			Reason: "record must be a struct type",
		}
	}
	if reflect.PointerTo(t).Implements(requestBindingType) {
		return MultipleBindingsError{
			Record: t.String(),
		}
	}
	if _, ok := seen[t]; ok {
		return nil
	}
	seen[t] = struct{}{}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("json") == "-" {
			continue
		}

		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			if _, ok := f.Tag.Lookup("default"); !ok {
				return OptionalFieldError{
					Record: t.String(),
					Field:  f.Name,
				}
			}
			ft = ft.Elem()
		}

		if reflect.PointerTo(ft).Implements(requestBindingType) {
			return MultipleBindingsError{
				Record: ft.String(),
			}
		}

		if !nestedRecordField(ft) {
			continue
		}
		if _, ok := f.Tag.Lookup("default"); ok {
			return InvalidRecordError{
				Record: t.String(),
				Reason: "record field " + f.Name + " can not declare a default",
			}
		}
		if flat {
			return InvalidRecordError{
				Record: t.String(),
				Reason: "query records can not nest record " + ft.String() + " in field " + f.Name,
			}
		}
		err := validateRecordSeen(ft, flat, seen)
		if err != nil {
			return err
		}
	}
	return nil
}

// nestedRecordField reports whether a field type is itself a record, as
// opposed to a scalar that merely has struct kind, like time.Time.
func nestedRecordField(t reflect.Type) bool {
	if t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	if t == reflect.TypeFor[time.Time]() {
		return false
	}
	if reflect.PointerTo(t).Implements(reflect.TypeFor[encoding.TextUnmarshaler]()) {
		return false
	}
	return true
}

// valueSource abstracts where record fields are read from. The query string
// and form bodies yield string values; JSON bodies yield raw messages.
type valueSource interface {
	// lookup returns the raw value for a declared field name. Unrecognized
	// incoming keys are never enumerated, so they are silently dropped.
	lookup(name string) (rawValue, bool)
}

type rawValue struct {
	strs []string
	raw  json.RawMessage
	json bool
}

type stringSource map[string][]string

func (s stringSource) lookup(name string) (rawValue, bool) {
	vs, ok := s[name]
	if !ok || len(vs) == 0 {
		return rawValue{}, false
	}
	return rawValue{strs: vs}, true
}

type jsonSource map[string]json.RawMessage

func (s jsonSource) lookup(name string) (rawValue, bool) {
	raw, ok := s[name]
	if !ok {
		return rawValue{}, false
	}
	return rawValue{raw: raw, json: true}, true
}

// decodeRecord populates dst, which must be a struct value, from src.
// Only declared fields are read. Missing fields fall back to their declared
// defaults; missing fields without defaults are a client error.
func decodeRecord(dst reflect.Value, src valueSource) error {
	t := dst.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("json") == "-" {
			continue
		}

		raw, ok := src.lookup(fieldName(f))
		if !ok {
			def, hasDefault := f.Tag.Lookup("default")
			if !hasDefault {
				if f.Type.Kind() == reflect.Pointer {
					// unreachable after validateRecord
					continue
				}
				return BadRequestError{
					Cause: MissingRequiredFieldError{
						Record: t.String(),
						Field:  f.Name,
					},
				}
			}
			raw = rawValue{strs: []string{def}}
		}

		err := setRecordField(dst.Field(i), raw)
		if err != nil {
			return BadRequestError{
				Cause: InvalidFieldValueError{
					Record: t.String(),
					Field:  f.Name,
					Cause:  err,
				},
			}
		}
	}
	return nil
}

func setRecordField(field reflect.Value, raw rawValue) error {
	if field.Kind() == reflect.Pointer {
		field.Set(reflect.New(field.Type().Elem()))
		field = field.Elem()
	}

	if raw.json {
		return setJsonField(field, raw.raw)
	}

	if isByteSlice(field.Type()) {
		field.SetBytes([]byte(raw.strs[0]))
		return nil
	}
	if field.Kind() == reflect.Slice {
		return setSliceField(field, raw.strs)
	}
	return setScalarField(field, raw.strs[0])
}

func setJsonField(field reflect.Value, raw json.RawMessage) error {
	if nestedRecordField(field.Type()) && field.Kind() == reflect.Struct {
		var sub map[string]json.RawMessage
		err := json.Unmarshal(raw, &sub)
		if err != nil {
			return err
		}
		return decodeRecord(field, jsonSource(sub))
	}
	return json.Unmarshal(raw, field.Addr().Interface())
}

func setSliceField(field reflect.Value, values []string) error {
	slice := reflect.MakeSlice(field.Type(), len(values), len(values))
	for i, v := range values {
		err := setScalarField(slice.Index(i), v)
		if err != nil {
			return err
		}
	}
	field.Set(slice)
	return nil
}

func isByteSlice(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}

// setScalarField coerces a single string into the declared field type.
// encoding.TextUnmarshaler takes priority, then time.Time and time.Duration,
// then the primitive kinds.
func setScalarField(field reflect.Value, value string) error {
	if field.CanAddr() {
		if unmarshaler, ok := field.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return unmarshaler.UnmarshalText([]byte(value))
		}
	}

	if field.Type() == reflect.TypeFor[time.Time]() {
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(t))
		return nil
	}
	if field.Type() == reflect.TypeFor[time.Duration]() {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Float32, reflect.Float64:
		x, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(x)
	default:
		return InvalidRecordError{
			Record: field.Type().String(),
			Reason: "unsupported field kind " + field.Kind().String(),
		}
	}
	return nil
}
