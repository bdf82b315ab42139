package editor

import (
	"reflect"
	"strings"
)

// Hint describes the type a value is edited as. Besides a plain Go type it can
// carry element hints for containers and, for values that may hold one of
// several types, an explicit member list (Go has no union types at runtime, so
// unions are declared by the caller rather than inferred).
type Hint struct {
	// Type is the concrete value type. Nil for union hints.
	Type reflect.Type
	// Elems are the element hints of a container type. For slice types with no
	// explicit element hint the registry derives one from the slice's element
	// type.
	Elems []Hint
	// Members are the union member hints. A hint with members resolves to a
	// UnionEditor regardless of Type.
	Members []Hint
}

// T wraps a reflect.Type as a Hint.
func T(t reflect.Type) Hint {
	return Hint{Type: t}
}

// TypeOf returns the Hint for the static type V.
func TypeOf[V any]() Hint {
	return T(reflect.TypeOf((*V)(nil)).Elem())
}

// ListOf returns a slice hint with the given element hint.
func ListOf(elem Hint) Hint {
	h := Hint{Elems: []Hint{elem}}
	if elem.Type != nil {
		h.Type = reflect.SliceOf(elem.Type)
	}
	return h
}

// Union returns a union hint over the given member hints.
func Union(members ...Hint) Hint {
	return Hint{Members: members}
}

// IsUnion reports whether the hint declares union members.
func (h Hint) IsUnion() bool {
	return len(h.Members) > 0
}

// String returns a readable form of the hint, e.g. "int" or "int | string".
func (h Hint) String() string {
	if h.IsUnion() {
		names := make([]string, len(h.Members))
		for i, m := range h.Members {
			names[i] = m.String()
		}
		return strings.Join(names, " | ")
	}
	if h.Type == nil {
		return "<nil>"
	}
	return h.Type.String()
}

// hintFor derives a Hint from a plain type, filling element hints for slices.
func hintFor(t reflect.Type) Hint {
	h := Hint{Type: t}
	if t != nil && t.Kind() == reflect.Slice {
		h.Elems = []Hint{{Type: t.Elem()}}
	}
	return h
}
