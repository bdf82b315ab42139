package editor

import (
	"fmt"
	"reflect"

	"github.com/gridkit/gridkit/ui"
)

// ListEditor edits slice values: one row per item with remove and reorder
// buttons, an "Add Item" button, and a configurable size range.
type ListEditor struct {
	base
	minItems   int
	maxItems   int
	itemEditor Editor
}

// NewListEditor is the Factory for ListEditor.
func NewListEditor(cfg Config, bind Binding) Editor {
	e := &ListEditor{
		base:     newBase(cfg, bind),
		minItems: cfg.MinItems,
		maxItems: cfg.MaxItems,
	}
	e.enforce = true
	if !cfg.HasColor {
		e.color = ui.Color{R: 0.4, G: 0.2, B: 0.8, A: 1}
	}
	if len(bind.Subtypes) > 0 && bind.Registry != nil {
		itemCfg := Config{}
		if cfg.ItemConfig != nil {
			itemCfg = *cfg.ItemConfig
		}
		e.itemEditor = bind.Registry.Resolve(bind.Subtypes[0], itemCfg)
	}
	return e
}

func (e *ListEditor) Render(b ui.Backend, owner any, field string) bool {
	return renderTreeProperty(b, e, &e.base, owner, field)
}

func (e *ListEditor) RenderValue(b ui.Backend, value any) (bool, any) {
	return renderValueScoped(b, e, &e.base, value, e.drawValue)
}

// Coerce treats an absent slice as an empty one.
func (e *ListEditor) Coerce(value any) any {
	if value == nil && e.valueType != nil {
		return reflect.MakeSlice(e.valueType, 0, 0).Interface()
	}
	return e.base.Coerce(value)
}

func (e *ListEditor) drawValue(b ui.Backend, value any) (bool, any) {
	rv := reflect.ValueOf(value)
	changed := false

	// Enforce the configured size range before rendering so the user always
	// sees a valid list.
	for e.minItems > 0 && rv.Len() < e.minItems {
		rv = reflect.Append(rv, reflect.Zero(rv.Type().Elem()))
		changed = true
	}
	if e.maxItems > 0 && rv.Len() > e.maxItems {
		rv = rv.Slice(0, e.maxItems)
		changed = true
	}

	removeAt := -1
	for i := 0; i < rv.Len(); i++ {
		b.PushID(fmt.Sprintf("item%d", i))
		if b.Button("X", "Remove this item", rv.Len() > e.minItems) {
			removeAt = i
		}
		b.SameLine()
		if b.Button("^", "Move item up", i > 0) {
			swapItems(rv, i, i-1)
			changed = true
		}
		b.SameLine()
		if b.Button("v", "Move item down", i < rv.Len()-1) {
			swapItems(rv, i, i+1)
			changed = true
		}
		b.SameLine()
		if e.itemEditor != nil {
			itemChanged, newItem := e.itemEditor.RenderValue(b, rv.Index(i).Interface())
			if itemChanged {
				setItem(rv.Index(i), newItem)
				changed = true
			}
		} else {
			b.Text(fmt.Sprint(rv.Index(i).Interface()))
		}
		b.PopID()
	}

	if removeAt >= 0 {
		rv = withoutItem(rv, removeAt)
		changed = true
	}

	canAdd := e.maxItems == 0 || rv.Len() < e.maxItems
	if b.Button("Add Item", "Append a new item to the list", canAdd) {
		rv = reflect.Append(rv, reflect.Zero(rv.Type().Elem()))
		changed = true
	}

	return changed, rv.Interface()
}

func swapItems(rv reflect.Value, i, j int) {
	tmp := rv.Index(i).Interface()
	setItem(rv.Index(i), rv.Index(j).Interface())
	setItem(rv.Index(j), tmp)
}

func setItem(slot reflect.Value, value any) {
	if value == nil {
		slot.Set(reflect.Zero(slot.Type()))
		return
	}
	nv := reflect.ValueOf(value)
	if nv.Type() != slot.Type() && nv.Type().ConvertibleTo(slot.Type()) {
		nv = nv.Convert(slot.Type())
	}
	slot.Set(nv)
}

// withoutItem returns a fresh slice with index i removed. The copy matters:
// appending over the original backing array would clobber a caller that still
// holds the old slice header.
func withoutItem(rv reflect.Value, i int) reflect.Value {
	out := reflect.MakeSlice(rv.Type(), 0, rv.Len()-1)
	out = reflect.AppendSlice(out, rv.Slice(0, i))
	out = reflect.AppendSlice(out, rv.Slice(i+1, rv.Len()))
	return out
}

// ObjectEditor edits struct values by rendering all their tagged properties
// through a nested Context.
type ObjectEditor struct {
	base
	registry *Registry
	ctx      *Context
	ignored  []string
}

// NewObjectEditor is the Factory for ObjectEditor.
func NewObjectEditor(cfg Config, bind Binding) Editor {
	e := &ObjectEditor{
		base:     newBase(cfg, bind),
		registry: bind.Registry,
		ignored:  cfg.Ignored,
	}
	if !cfg.HasColor {
		e.color = ui.Blue
	}
	return e
}

func (e *ObjectEditor) Render(b ui.Backend, owner any, field string) bool {
	return renderTreeProperty(b, e, &e.base, owner, field)
}

func (e *ObjectEditor) RenderValue(b ui.Backend, value any) (bool, any) {
	return renderValueScoped(b, e, &e.base, value, e.drawValue)
}

func (e *ObjectEditor) drawValue(b ui.Backend, value any) (bool, any) {
	changed := false
	if isNilValue(value) {
		if e.valueType == nil {
			b.TextColored(ui.Yellow, "<nil>")
			return false, value
		}
		value = defaultConstruct(e.valueType)
		changed = true
	}

	// Property write-back needs an addressable struct. Non-pointer values get
	// boxed here and unboxed on return.
	ptr, unwrap := asPointer(value)
	if ptr == nil {
		b.TextColored(ui.Yellow, fmt.Sprintf("Can't edit value %v", value))
		return false, value
	}

	if e.ctx == nil {
		e.ctx = NewContext(e.registry)
	}
	ignored := e.ignored
	if ig, ok := ptr.(Ignorable); ok {
		ignored = append(append([]string{}, ignored...), ig.IgnoredProperties()...)
	}
	if e.ctx.RenderAll(b, ptr, ignored...) {
		changed = true
	}
	if hook, ok := ptr.(PostRenderHook); ok {
		hook.AfterRender(e)
	}
	return changed, unwrap(ptr)
}

func isNilValue(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// defaultConstruct builds a fresh zero value of t, as a pointer when t is a
// pointer type.
func defaultConstruct(t reflect.Type) any {
	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface()
	}
	return reflect.Zero(t).Interface()
}

// asPointer returns value as a pointer-to-struct plus a function mapping the
// pointer back to the caller's original shape.
func asPointer(value any) (any, func(any) any) {
	rv := reflect.ValueOf(value)
	switch {
	case rv.Kind() == reflect.Pointer && rv.Elem().Kind() == reflect.Struct:
		return value, func(p any) any { return p }
	case rv.Kind() == reflect.Struct:
		box := reflect.New(rv.Type())
		box.Elem().Set(rv)
		return box.Interface(), func(p any) any {
			return reflect.ValueOf(p).Elem().Interface()
		}
	}
	return nil, nil
}
