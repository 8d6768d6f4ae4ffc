package versionchain

import (
	"reflect"
	"strings"
	"time"

	eng "github.com/reoring/versionchain/internal/engine"
)

var timeType = reflect.TypeOf(time.Time{})

// ResolveStructKey applies the repository-wide rule to resolve a struct field's
// external key for the format whose struct tag is tag (json, yaml, toml,
// msgpack). Priority: tag name > field name; "-" disables the field.
func ResolveStructKey(sf reflect.StructField, tag string) string {
	if name, _, ok := tagName(sf, tag); ok {
		return name
	}
	return sf.Name
}

func tagName(sf reflect.StructField, tag string) (name string, opts []string, ok bool) {
	raw, present := sf.Tag.Lookup(tag)
	if !present {
		return "", nil, false
	}
	if raw == "-" {
		return "-", nil, true
	}
	parts := strings.Split(raw, ",")
	if parts[0] == "" {
		return "", parts[1:], false
	}
	return parts[0], parts[1:], true
}

// IsOptionalField reports whether a missing key for sf is acceptable.
// versionchain:"optional" and versionchain:"required" take precedence; otherwise
// pointers, interfaces and fields tagged omitempty/omitzero are optional.
func IsOptionalField(sf reflect.StructField, tag string) bool {
	switch strings.TrimSpace(sf.Tag.Get("versionchain")) {
	case "optional":
		return true
	case "required":
		return false
	}
	switch sf.Type.Kind() {
	case reflect.Pointer, reflect.Interface:
		return true
	}
	_, opts, _ := tagName(sf, tag)
	for _, o := range opts {
		if o == "omitempty" || o == "omitzero" {
			return true
		}
	}
	return false
}

// MissingFields returns the JSON Pointers of required fields of t that are
// absent (or null) in doc, the generic (map) decoding of the same payload.
// foldCase must mirror the decoding library: encoding/json style decoders
// (goccy/go-json, BurntSushi/toml) accept keys that differ only in case,
// yaml.v3 and msgpack do not. Nested structs are checked when the payload
// holds an object for them.
func MissingFields(t reflect.Type, doc map[string]any, tag string, foldCase bool) []string {
	return missingFields(t, doc, tag, foldCase, "", nil)
}

func missingFields(t reflect.Type, doc map[string]any, tag string, foldCase bool, path string, out []string) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t == timeType {
		return out
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		ft := sf.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if sf.Anonymous && ft.Kind() == reflect.Struct {
			if _, _, named := tagName(sf, tag); !named {
				out = missingFields(ft, doc, tag, foldCase, path, out)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		key := ResolveStructKey(sf, tag)
		if key == "-" {
			continue
		}
		child := eng.JoinPointer(path, key)
		val, ok := lookupKey(doc, key, foldCase)
		if !ok || val == nil {
			if !IsOptionalField(sf, tag) {
				out = append(out, child)
			}
			continue
		}
		if sub, isMap := val.(map[string]any); isMap {
			out = missingFields(ft, sub, tag, foldCase, child, out)
		}
	}
	return out
}

func lookupKey(doc map[string]any, key string, foldCase bool) (any, bool) {
	if v, ok := doc[key]; ok || !foldCase {
		return v, ok
	}
	for k, v := range doc {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}
