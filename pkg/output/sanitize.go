package output

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// SanitizeFloats returns a JSON-safe copy of data with every NaN or infinite
// float replaced by 0. Structs become maps keyed by their json tag names.
// Values without floats are returned as is.
func SanitizeFloats(data any) any {
	if data == nil {
		return nil
	}
	return sanitizeValue(reflect.ValueOf(data))
}

func sanitizeValue(val reflect.Value) any {
	switch val.Kind() {
	case reflect.Float32, reflect.Float64:
		f := val.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			f = 0
		}
		if val.Kind() == reflect.Float32 {
			return float32(f)
		}
		return f
	case reflect.Pointer, reflect.Interface:
		if val.IsNil() {
			return nil
		}
		return sanitizeValue(val.Elem())
	case reflect.Struct:
		if val.CanInterface() {
			if m, ok := val.Interface().(json.Marshaler); ok {
				return m
			}
		}
		return sanitizeStruct(val)
	case reflect.Slice, reflect.Array:
		if val.Kind() == reflect.Slice && val.IsNil() {
			return nil
		}
		result := make([]any, val.Len())
		for i := range result {
			result[i] = sanitizeValue(val.Index(i))
		}
		return result
	case reflect.Map:
		if val.IsNil() {
			return nil
		}
		result := make(map[string]any, val.Len())
		iter := val.MapRange()
		for iter.Next() {
			result[fmt.Sprint(iter.Key().Interface())] = sanitizeValue(iter.Value())
		}
		return result
	default:
		if !val.IsValid() || !val.CanInterface() {
			return nil
		}
		return val.Interface()
	}
}

func sanitizeStruct(val reflect.Value) any {
	typ := val.Type()
	result := make(map[string]any, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Name
		omitEmpty := false
		if tag := field.Tag.Get("json"); tag != "" {
			if tag == "-" {
				continue
			}
			parts := strings.Split(tag, ",")
			if parts[0] != "" {
				name = parts[0]
			}
			for _, opt := range parts[1:] {
				if opt == "omitempty" {
					omitEmpty = true
				}
			}
		}

		fv := val.Field(i)
		if omitEmpty && isEmptyValue(fv) {
			continue
		}
		result[name] = sanitizeValue(fv)
	}
	return result
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
