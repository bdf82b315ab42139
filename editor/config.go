package editor

import (
	"reflect"

	"github.com/gridkit/gridkit/ui"
)

// Config carries the construction arguments an editor factory understands.
// Fields that don't apply to a given editor kind are ignored by its factory.
type Config struct {
	// Doc is shown as the control's tooltip.
	Doc string
	// PlainName disables pretty-printing of property names.
	PlainName bool

	// Numeric editors.
	Min, Max float64
	Speed    float64
	Format   string
	Slider   bool

	// Vec2 editor: per-component ranges. A component whose range is unset
	// (hi <= lo) follows Min/Max instead.
	XMin, XMax float64
	YMin, YMax float64

	// String editor.
	Multiline bool
	// Options turns the string editor into a drop-down over these values.
	Options []string
	// FreeOptions allows values outside Options in the drop-down.
	FreeOptions bool

	// List editor.
	MinItems int
	// MaxItems of 0 means no maximum.
	MaxItems   int
	ItemConfig *Config

	// Object editor: property names to skip, combined with whatever the
	// value's Ignorable capability declares.
	Ignored []string

	// Color overrides the editor's type color when HasColor is set.
	Color    ui.Color
	HasColor bool
}

// Binding is the type information the registry resolved for an editor: the
// original hint, the concrete value type, its element/member hints, and the
// registry itself for resolving nested editors.
type Binding struct {
	Original  Hint
	ValueType reflect.Type
	Subtypes  []Hint
	Registry  *Registry
}

// Factory constructs an editor for a resolved type binding.
type Factory func(cfg Config, bind Binding) Editor
