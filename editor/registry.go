package editor

import (
	"reflect"

	"github.com/gridkit/gridkit/ui"
)

type entry struct {
	factory   Factory
	creatable bool
}

type ifaceEntry struct {
	iface reflect.Type
	entry entry
}

// Registry maps value types to editor factories. It is explicitly constructed
// and passed to the rendering Context; there is no process-wide instance.
//
// Resolution order for a non-union hint: exact type, then the explicitly
// declared fallback chain (most-derived first), then registered interfaces in
// registration order, then the type's kind. Resolution is deterministic and
// performs no I/O.
type Registry struct {
	entries   map[reflect.Type]entry
	order     []reflect.Type
	fallbacks map[reflect.Type]reflect.Type
	ifaces    []ifaceEntry
	kinds     map[reflect.Kind]entry
}

// NewRegistry creates a Registry pre-populated with the builtin editors:
// string, bool, int, float64, ui.Color, ui.Vec2, the Enum capability, and
// kind-based fallbacks for named scalar types, slices and structs.
func NewRegistry() *Registry {
	r := &Registry{
		entries:   make(map[reflect.Type]entry),
		fallbacks: make(map[reflect.Type]reflect.Type),
		kinds:     make(map[reflect.Kind]entry),
	}

	r.Register(reflect.TypeOf(""), NewStringEditor, true)
	r.Register(reflect.TypeOf(false), NewBoolEditor, true)
	r.Register(reflect.TypeOf(int(0)), NewIntEditor, true)
	r.Register(reflect.TypeOf(float64(0)), NewFloatEditor, true)
	r.Register(reflect.TypeOf(ui.Color{}), NewColorEditor, true)
	r.Register(reflect.TypeOf(ui.Vec2{}), NewVec2Editor, true)

	r.RegisterInterface(reflect.TypeOf((*Enum)(nil)).Elem(), NewEnumEditor, false)

	// Named types without their own registration resolve by kind.
	r.RegisterKind(reflect.String, NewStringEditor, false)
	r.RegisterKind(reflect.Bool, NewBoolEditor, false)
	r.RegisterKind(reflect.Int, NewIntEditor, false)
	r.RegisterKind(reflect.Int32, NewIntEditor, false)
	r.RegisterKind(reflect.Int64, NewIntEditor, false)
	r.RegisterKind(reflect.Float32, NewFloatEditor, false)
	r.RegisterKind(reflect.Float64, NewFloatEditor, false)
	r.RegisterKind(reflect.Slice, NewListEditor, false)
	r.RegisterKind(reflect.Struct, NewObjectEditor, false)

	return r
}

// Register associates a type with an editor factory, overwriting any prior
// association. Creatable types are offered by CreatableTypes for "create a new
// value" UI flows.
func (r *Registry) Register(t reflect.Type, f Factory, creatable bool) {
	if _, exists := r.entries[t]; !exists {
		r.order = append(r.order, t)
	}
	r.entries[t] = entry{factory: f, creatable: creatable}
}

// SetFallback declares that values of type t resolve through base when t has
// no registration of its own. Chains are followed most-derived first.
func (r *Registry) SetFallback(t, base reflect.Type) {
	r.fallbacks[t] = base
}

// RegisterInterface associates an interface type with an editor factory.
// Interfaces are checked in registration order, after the fallback chain.
func (r *Registry) RegisterInterface(iface reflect.Type, f Factory, creatable bool) {
	if iface == nil || iface.Kind() != reflect.Interface {
		return
	}
	r.ifaces = append(r.ifaces, ifaceEntry{iface: iface, entry: entry{factory: f, creatable: creatable}})
}

// RegisterKind associates a reflect.Kind with an editor factory, used as the
// last resolution step.
func (r *Registry) RegisterKind(k reflect.Kind, f Factory, creatable bool) {
	r.kinds[k] = entry{factory: f, creatable: creatable}
}

// RegisterNoop gives a type a registry presence without offering editing: its
// editor renders a "can't edit" notice and carries the given type color.
func (r *Registry) RegisterNoop(t reflect.Type, color ui.Color) {
	r.Register(t, func(cfg Config, bind Binding) Editor {
		cfg.Color = color
		cfg.HasColor = true
		return NewNoopEditor(cfg, bind)
	}, false)
}

// CreatableTypes returns all registered types whose creatable flag is set, in
// registration order.
func (r *Registry) CreatableTypes() []reflect.Type {
	var out []reflect.Type
	for _, t := range r.order {
		if r.entries[t].creatable {
			out = append(out, t)
		}
	}
	return out
}

// Resolve constructs an editor for the given type hint, or nil when no
// registration covers it. Union hints always produce a UnionEditor wrapping
// one resolved sub-editor per member.
func (r *Registry) Resolve(h Hint, cfg Config) Editor {
	if h.IsUnion() {
		return newUnionEditor(cfg, Binding{Original: h, Subtypes: h.Members, Registry: r})
	}

	t := h.Type
	if t == nil {
		return nil
	}
	subtypes := h.Elems
	if len(subtypes) == 0 && t.Kind() == reflect.Slice {
		subtypes = []Hint{{Type: t.Elem()}}
	}
	bind := Binding{Original: h, ValueType: t, Subtypes: subtypes, Registry: r}

	for cur := t; ; {
		if e, ok := r.entries[cur]; ok {
			return e.factory(cfg, bind)
		}
		next, ok := r.fallbacks[cur]
		if !ok {
			break
		}
		cur = next
	}

	for _, ie := range r.ifaces {
		if t.Implements(ie.iface) || reflect.PointerTo(t).Implements(ie.iface) {
			return ie.entry.factory(cfg, bind)
		}
	}

	if e, ok := r.kinds[t.Kind()]; ok {
		return e.factory(cfg, bind)
	}
	// Pointer types resolve through their element kind for structs only: the
	// ObjectEditor allocates through nil pointers, scalar editors draw the
	// pointee directly and cannot.
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
		if e, ok := r.kinds[reflect.Struct]; ok {
			return e.factory(cfg, bind)
		}
	}
	return nil
}
