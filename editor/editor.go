// Package editor implements a reflective type-editor system: a registry maps
// value types to editor constructors, editors render and mutate typed values
// through an immediate-mode ui.Backend, and a rendering Context drives
// "render all properties of an object" traversal with per-(property, owner)
// editor instance reuse.
package editor

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/gridkit/gridkit/ui"
)

// Editor renders controls for viewing and editing a value of its associated
// type.
type Editor interface {
	// Render draws a "name: value" editor for owner's named field and writes
	// the new value back on change. owner must be a pointer to a struct for
	// the write-back to take effect.
	Render(b ui.Backend, owner any, field string) bool

	// RenderValue draws just the value widget for a standalone value, inside
	// its own widget-ID scope so repeated calls do not alias state.
	RenderValue(b ui.Backend, value any) (bool, any)

	// Coerce converts value to the editor's declared type where the editor
	// enforces it. Absent (nil) values coerce to the type's zero value.
	Coerce(value any) any

	// Color is the color associated with the edited type.
	Color() ui.Color

	// TypeName is a human-readable name of the edited type.
	TypeName() string

	// ValueType is the concrete type this editor edits. Nil for union editors.
	ValueType() reflect.Type
}

// Optional capabilities a value type can implement to influence how its
// editors behave. Types opt in explicitly; no method probing by name is done.
type (
	// Ignorable lets a type exclude some of its properties from rendering.
	Ignorable interface {
		IgnoredProperties() []string
	}

	// PostRenderHook is invoked by the object editor after all of a value's
	// properties have been rendered.
	PostRenderHook interface {
		AfterRender(ed Editor)
	}

	// PropertyTuner lets an owner adjust a field's editor right before that
	// field is rendered (e.g. swap option lists depending on other state).
	PropertyTuner interface {
		TuneEditor(field string, ed Editor)
	}

	// Enum marks a type as a closed set of named values, edited with a
	// drop-down.
	Enum interface {
		EnumOptions() []string
	}
)

// base carries the state common to all editor variants.
type base struct {
	original  Hint
	valueType reflect.Type
	subtypes  []Hint

	doc          string
	color        ui.Color
	enforce      bool
	tooltipAfter bool
	plainName    bool
}

func newBase(cfg Config, bind Binding) base {
	b := base{
		original:     bind.Original,
		valueType:    bind.ValueType,
		subtypes:     bind.Subtypes,
		doc:          cfg.Doc,
		color:        ui.Color{R: 0.2, G: 0.2, B: 0.6, A: 1},
		tooltipAfter: true,
		plainName:    cfg.PlainName,
	}
	if cfg.HasColor {
		b.color = cfg.Color
	}
	return b
}

func (e *base) Color() ui.Color         { return e.color }
func (e *base) ValueType() reflect.Type { return e.valueType }

func (e *base) TypeName() string {
	if e.valueType != nil {
		return e.valueType.String()
	}
	return e.original.String()
}

// Coerce converts value to the editor's declared type when enforcement is on.
// Nil coerces to the zero value; strings and bools get value-preserving
// conversions rather than reflect's rune/codepoint semantics.
func (e *base) Coerce(value any) any {
	if !e.enforce || e.valueType == nil {
		return value
	}
	if value == nil {
		return reflect.Zero(e.valueType).Interface()
	}
	rv := reflect.ValueOf(value)
	if rv.Type() == e.valueType {
		return value
	}
	switch e.valueType.Kind() {
	case reflect.String:
		s := fmt.Sprint(value)
		return reflect.ValueOf(s).Convert(e.valueType).Interface()
	case reflect.Bool:
		return truthy(value)
	}
	if rv.Type().ConvertibleTo(e.valueType) {
		return rv.Convert(e.valueType).Interface()
	}
	return reflect.Zero(e.valueType).Interface()
}

// truthy follows the usual scripting-language notion of boolean coercion.
func truthy(v any) bool {
	switch tv := v.(type) {
	case bool:
		return tv
	case string:
		return tv != ""
	case int:
		return tv != 0
	case int64:
		return tv != 0
	case float64:
		return tv != 0
	case nil:
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// label returns the display name for a field, pretty-printed ("MaxSpeed" →
// "Max Speed") unless configured plain.
func (e *base) label(field string) string {
	if e.plainName {
		return field
	}
	return prettyName(field)
}

// scopeID uniquely identifies this editor instance for widget-ID scoping.
func (e *base) scopeID() string {
	return fmt.Sprintf("%s@%p", e.TypeName(), e)
}

// prettyName inserts spaces at word boundaries of a CamelCase or snake_case
// identifier and capitalizes each word.
func prettyName(name string) string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_':
			flush()
		case unicode.IsUpper(r) && i > 0 && !unicode.IsUpper(runes[i-1]):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// renderScalarProperty draws the common "name: value" layout used by scalar
// editors, writing the new value back onto the owner's field on change.
func renderScalarProperty(b ui.Backend, ed Editor, eb *base, owner any, field string) bool {
	tuneEditor(owner, field, ed)
	b.Text(eb.label(field) + ":")
	b.Tooltip(eb.doc)
	b.SameLine()

	value := fieldValue(owner, field)
	changed, newValue := ed.RenderValue(b, value)
	if changed {
		setFieldValue(owner, field, newValue)
	}
	return changed
}

// renderTreeProperty draws the container layout: the value widget is gated
// behind a collapsible tree node opened by the header.
func renderTreeProperty(b ui.Backend, ed Editor, eb *base, owner any, field string) bool {
	tuneEditor(owner, field, ed)
	opened := b.TreeNode(eb.label(field))
	b.Tooltip(eb.doc)
	changed := false
	if opened {
		value := fieldValue(owner, field)
		var newValue any
		changed, newValue = ed.RenderValue(b, value)
		if changed {
			setFieldValue(owner, field, newValue)
		}
		b.TreePop()
	}
	return changed
}

// renderValueScoped wraps a variant's draw function with the shared
// RenderValue behavior: ID scoping, coercion and the optional tooltip.
func renderValueScoped(b ui.Backend, ed Editor, eb *base, value any, draw func(ui.Backend, any) (bool, any)) (bool, any) {
	b.PushID(eb.scopeID())
	value = ed.Coerce(value)
	changed, newValue := draw(b, value)
	if eb.tooltipAfter {
		b.Tooltip(eb.doc)
	}
	b.PopID()
	return changed, newValue
}

func tuneEditor(owner any, field string, ed Editor) {
	if t, ok := owner.(PropertyTuner); ok {
		t.TuneEditor(field, ed)
	}
}

// fieldValue reads owner's named field, following promoted (embedded) fields.
func fieldValue(owner any, field string) any {
	rv := reflect.ValueOf(owner)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	fv := rv.FieldByName(field)
	if !fv.IsValid() {
		return nil
	}
	return fv.Interface()
}

// setFieldValue writes owner's named field. owner must be a pointer to a
// struct; non-assignable values are converted when possible and otherwise
// dropped.
func setFieldValue(owner any, field string, value any) {
	rv := reflect.ValueOf(owner)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return
	}
	fv := rv.Elem().FieldByName(field)
	if !fv.IsValid() || !fv.CanSet() {
		return
	}
	if value == nil {
		fv.Set(reflect.Zero(fv.Type()))
		return
	}
	nv := reflect.ValueOf(value)
	switch {
	case nv.Type().AssignableTo(fv.Type()):
	case nv.Type().ConvertibleTo(fv.Type()):
		nv = nv.Convert(fv.Type())
	default:
		return
	}
	fv.Set(nv)
}

// NoopEditor renders a "can't edit" placeholder. It gives read-only or
// otherwise unregistered types a registry presence (e.g. for consistent type
// colors) without offering editing.
type NoopEditor struct {
	base
}

// NewNoopEditor is the Factory for NoopEditor.
func NewNoopEditor(cfg Config, bind Binding) Editor {
	e := &NoopEditor{base: newBase(cfg, bind)}
	return e
}

func (e *NoopEditor) Render(b ui.Backend, owner any, field string) bool {
	return renderScalarProperty(b, e, &e.base, owner, field)
}

func (e *NoopEditor) RenderValue(b ui.Backend, value any) (bool, any) {
	return renderValueScoped(b, e, &e.base, value, e.drawValue)
}

func (e *NoopEditor) drawValue(b ui.Backend, value any) (bool, any) {
	b.TextColored(ui.Yellow, fmt.Sprintf("Can't edit value %v", value))
	return false, value
}
