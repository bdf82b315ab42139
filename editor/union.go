package editor

import (
	"reflect"
	"strings"

	"github.com/gridkit/gridkit/ui"
)

// UnionEditor edits a value that may be any of several types: a drop-down
// selects the active member type and the member's own editor edits the value.
type UnionEditor struct {
	base
	members []Editor
	names   []string
	active  int
}

func newUnionEditor(cfg Config, bind Binding) Editor {
	e := &UnionEditor{
		base: newBase(cfg, bind),
	}
	for _, m := range bind.Subtypes {
		med := bind.Registry.Resolve(m, Config{})
		if med == nil {
			med = NewNoopEditor(Config{}, Binding{Original: m, ValueType: m.Type, Registry: bind.Registry})
		}
		e.members = append(e.members, med)
		e.names = append(e.names, med.TypeName())
	}
	if len(e.members) == 0 {
		return nil
	}
	var colors []ui.Color
	for _, m := range e.members {
		colors = append(colors, m.Color())
	}
	if !cfg.HasColor {
		e.color = ui.Mean(colors...)
	}
	return e
}

func (e *UnionEditor) Render(b ui.Backend, owner any, field string) bool {
	return renderScalarProperty(b, e, &e.base, owner, field)
}

func (e *UnionEditor) RenderValue(b ui.Backend, value any) (bool, any) {
	return renderValueScoped(b, e, &e.base, value, e.drawValue)
}

func (e *UnionEditor) drawValue(b ui.Backend, value any) (bool, any) {
	e.active = e.memberFor(value)
	changed := false

	switched, picked := b.Combo("##type", e.names[e.active], e.names)
	if switched {
		for i, n := range e.names {
			if n == picked {
				e.active = i
				break
			}
		}
		value = e.members[e.active].Coerce(value)
		changed = true
	}
	b.SameLine()

	memberChanged, newValue := e.members[e.active].RenderValue(b, value)
	if memberChanged {
		changed = true
		value = newValue
	}
	return changed, value
}

// memberFor picks the member editor whose type matches the current value,
// preferring an exact type match over assignability.
func (e *UnionEditor) memberFor(value any) int {
	if value == nil {
		return 0
	}
	vt := reflect.TypeOf(value)
	for i, m := range e.members {
		if m.ValueType() == vt {
			return i
		}
	}
	for i, m := range e.members {
		if m.ValueType() != nil && vt.AssignableTo(m.ValueType()) {
			return i
		}
	}
	return 0
}

// Coerce delegates to the active member's editor.
func (e *UnionEditor) Coerce(value any) any {
	return e.members[e.memberFor(value)].Coerce(value)
}

func (e *UnionEditor) TypeName() string {
	return strings.Join(e.names, " | ")
}
