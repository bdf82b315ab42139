package editor

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gridkit/gridkit/ui"
)

// StringEditor edits string-kinded values with a text input, or a drop-down
// when a fixed option set is configured.
type StringEditor struct {
	base
	options     []string
	freeOptions bool
	multiline   bool
	lines       int
}

// NewStringEditor is the Factory for StringEditor.
func NewStringEditor(cfg Config, bind Binding) Editor {
	e := &StringEditor{
		base:        newBase(cfg, bind),
		options:     cfg.Options,
		freeOptions: cfg.FreeOptions,
		multiline:   cfg.Multiline,
		lines:       4,
	}
	e.enforce = true
	if !cfg.HasColor {
		e.color = ui.Magenta
	}
	// When an option drop-down is shown the tooltip goes on the combo itself,
	// drawn by the backend, not appended after.
	e.tooltipAfter = len(e.options) == 0
	return e
}

func (e *StringEditor) Render(b ui.Backend, owner any, field string) bool {
	return renderScalarProperty(b, e, &e.base, owner, field)
}

func (e *StringEditor) RenderValue(b ui.Backend, value any) (bool, any) {
	return renderValueScoped(b, e, &e.base, value, e.drawValue)
}

func (e *StringEditor) drawValue(b ui.Backend, value any) (bool, any) {
	rv := reflect.ValueOf(value)
	cur := rv.String()

	if len(e.options) > 0 {
		options := e.options
		if e.freeOptions && cur != "" && !contains(options, cur) {
			options = append([]string{cur}, options...)
		}
		picked, newValue := b.Combo("##value", cur, options)
		b.Tooltip(e.doc)
		if !picked {
			return false, value
		}
		return true, e.retyped(rv, newValue)
	}

	var changed bool
	var edited string
	if e.multiline || strings.Contains(cur, "\n") {
		changed, edited = b.InputTextMultiline("##value", cur, e.lines)
	} else {
		changed, edited = b.InputText("##value", cur)
	}
	if changed {
		return true, e.retyped(rv, edited)
	}
	return false, value
}

// retyped rebuilds the edited string as the editor's concrete string kind
// (named string types stay named).
func (e *StringEditor) retyped(rv reflect.Value, s string) any {
	return reflect.ValueOf(s).Convert(rv.Type()).Interface()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// EnumEditor edits types implementing Enum with a drop-down over the type's
// declared options.
type EnumEditor struct {
	base
}

// NewEnumEditor is the Factory for EnumEditor.
func NewEnumEditor(cfg Config, bind Binding) Editor {
	e := &EnumEditor{base: newBase(cfg, bind)}
	e.enforce = true
	if !cfg.HasColor {
		e.color = ui.Yellow
	}
	return e
}

func (e *EnumEditor) Render(b ui.Backend, owner any, field string) bool {
	return renderScalarProperty(b, e, &e.base, owner, field)
}

func (e *EnumEditor) RenderValue(b ui.Backend, value any) (bool, any) {
	return renderValueScoped(b, e, &e.base, value, e.drawValue)
}

func (e *EnumEditor) drawValue(b ui.Backend, value any) (bool, any) {
	options := e.enumOptions(value)
	cur := fmt.Sprint(value)
	changed, picked := b.Combo("##value", cur, options)
	if !changed {
		return false, value
	}
	return true, e.valueFor(picked, options)
}

// enumOptions asks the value itself for its option set, falling back to the
// type's zero value when the current value is absent.
func (e *EnumEditor) enumOptions(value any) []string {
	if en, ok := value.(Enum); ok {
		return en.EnumOptions()
	}
	if e.valueType != nil {
		if en, ok := reflect.Zero(e.valueType).Interface().(Enum); ok {
			return en.EnumOptions()
		}
	}
	return nil
}

// valueFor converts the picked option name back into the enum's concrete
// type: by string conversion for string-kinded enums, by option index for
// integer-kinded ones.
func (e *EnumEditor) valueFor(picked string, options []string) any {
	t := e.valueType
	if t == nil {
		return picked
	}
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(picked).Convert(t).Interface()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		for i, opt := range options {
			if opt == picked {
				return reflect.ValueOf(i).Convert(t).Interface()
			}
		}
	}
	return reflect.Zero(t).Interface()
}

// BoolEditor edits booleans with a checkbox.
type BoolEditor struct {
	base
}

// NewBoolEditor is the Factory for BoolEditor.
func NewBoolEditor(cfg Config, bind Binding) Editor {
	e := &BoolEditor{base: newBase(cfg, bind)}
	e.enforce = true
	if !cfg.HasColor {
		e.color = ui.Red
	}
	return e
}

func (e *BoolEditor) Render(b ui.Backend, owner any, field string) bool {
	return renderScalarProperty(b, e, &e.base, owner, field)
}

func (e *BoolEditor) RenderValue(b ui.Backend, value any) (bool, any) {
	return renderValueScoped(b, e, &e.base, value, e.drawValue)
}

func (e *BoolEditor) drawValue(b ui.Backend, value any) (bool, any) {
	rv := reflect.ValueOf(value)
	cur := rv.Bool()
	changed, edited := b.Checkbox("##value", cur)
	if changed {
		return true, reflect.ValueOf(edited).Convert(rv.Type()).Interface()
	}
	return false, value
}

// IntEditor edits integer-kinded values with a drag control, or a slider when
// a [min, max] range is configured with Slider set.
type IntEditor struct {
	base
	min, max int
	speed    float64
	format   string
	slider   bool
}

// NewIntEditor is the Factory for IntEditor.
func NewIntEditor(cfg Config, bind Binding) Editor {
	e := &IntEditor{
		base:   newBase(cfg, bind),
		min:    int(cfg.Min),
		max:    int(cfg.Max),
		speed:  cfg.Speed,
		format: cfg.Format,
		slider: cfg.Slider,
	}
	e.enforce = true
	if !cfg.HasColor {
		e.color = ui.Cyan
	}
	if e.speed == 0 {
		e.speed = 1
	}
	if e.format == "" {
		e.format = "%d"
	}
	return e
}

func (e *IntEditor) Render(b ui.Backend, owner any, field string) bool {
	return renderScalarProperty(b, e, &e.base, owner, field)
}

func (e *IntEditor) RenderValue(b ui.Backend, value any) (bool, any) {
	return renderValueScoped(b, e, &e.base, value, e.drawValue)
}

func (e *IntEditor) drawValue(b ui.Backend, value any) (bool, any) {
	rv := reflect.ValueOf(value)
	cur := int(rv.Int())
	var changed bool
	var edited int
	if e.slider && e.max > e.min {
		changed, edited = b.SliderInt("##value", cur, e.min, e.max, e.format)
	} else {
		changed, edited = b.DragInt("##value", cur, e.speed, e.min, e.max, e.format)
	}
	if changed {
		return true, reflect.ValueOf(edited).Convert(rv.Type()).Interface()
	}
	return false, value
}

// FloatEditor edits float-kinded values with a drag control, or a slider when
// a [min, max] range is configured with Slider set.
type FloatEditor struct {
	base
	min, max float64
	speed    float64
	format   string
	slider   bool
}

// NewFloatEditor is the Factory for FloatEditor.
func NewFloatEditor(cfg Config, bind Binding) Editor {
	e := &FloatEditor{
		base:   newBase(cfg, bind),
		min:    cfg.Min,
		max:    cfg.Max,
		speed:  cfg.Speed,
		format: cfg.Format,
		slider: cfg.Slider,
	}
	e.enforce = true
	if !cfg.HasColor {
		e.color = ui.Green
	}
	if e.speed == 0 {
		e.speed = 0.1
	}
	if e.format == "" {
		e.format = "%.2f"
	}
	return e
}

func (e *FloatEditor) Render(b ui.Backend, owner any, field string) bool {
	return renderScalarProperty(b, e, &e.base, owner, field)
}

func (e *FloatEditor) RenderValue(b ui.Backend, value any) (bool, any) {
	return renderValueScoped(b, e, &e.base, value, e.drawValue)
}

func (e *FloatEditor) drawValue(b ui.Backend, value any) (bool, any) {
	rv := reflect.ValueOf(value)
	cur := rv.Float()
	var changed bool
	var edited float64
	if e.slider && e.max > e.min {
		changed, edited = b.SliderFloat("##value", cur, e.min, e.max, e.format)
	} else {
		changed, edited = b.DragFloat("##value", cur, e.speed, e.min, e.max, e.format)
	}
	if changed {
		return true, reflect.ValueOf(edited).Convert(rv.Type()).Interface()
	}
	return false, value
}
