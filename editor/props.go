package editor

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/gridkit/gridkit/ui"
)

// Property describes one editable struct field: an exported field carrying an
// `edit` tag.
type Property struct {
	Name   string
	Index  []int
	Type   reflect.Type
	Doc    string
	Config Config
	Hint   Hint
}

// Properties lists the editable properties of struct type t, in declaration
// order. Embedded structs are flattened; a field tagged `edit:"-"` is skipped.
func Properties(t reflect.Type) []Property {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	return collectProperties(t, nil)
}

func collectProperties(t reflect.Type, index []int) []Property {
	var props []Property
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		fi := append(append([]int{}, index...), i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			if _, tagged := f.Tag.Lookup("edit"); !tagged {
				props = append(props, collectProperties(f.Type, fi)...)
				continue
			}
		}
		tag, ok := f.Tag.Lookup("edit")
		if !ok || tag == "-" {
			continue
		}
		cfg := parseTag(tag)
		cfg.Doc = f.Tag.Get("doc")
		props = append(props, Property{
			Name:   f.Name,
			Index:  fi,
			Type:   f.Type,
			Doc:    cfg.Doc,
			Config: cfg,
			Hint:   hintFor(f.Type),
		})
	}
	return props
}

// parseTag decodes an `edit` struct tag: a comma-separated list of key=value
// pairs and bare flags. Recognized keys: min, max, speed, format, options
// (pipe-separated), min_items, max_items, x_range, y_range ("lo:hi"); flags:
// slider, multiline, free, plain.
func parseTag(tag string) Config {
	var cfg Config
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, _ := strings.Cut(part, "=")
		switch key {
		case "min":
			cfg.Min, _ = strconv.ParseFloat(val, 64)
		case "max":
			cfg.Max, _ = strconv.ParseFloat(val, 64)
		case "speed":
			cfg.Speed, _ = strconv.ParseFloat(val, 64)
		case "format":
			cfg.Format = val
		case "options":
			cfg.Options = strings.Split(val, "|")
		case "x_range":
			cfg.XMin, cfg.XMax = parseRange(val)
		case "y_range":
			cfg.YMin, cfg.YMax = parseRange(val)
		case "min_items":
			cfg.MinItems, _ = strconv.Atoi(val)
		case "max_items":
			cfg.MaxItems, _ = strconv.Atoi(val)
		case "slider":
			cfg.Slider = true
		case "multiline":
			cfg.Multiline = true
		case "free":
			cfg.FreeOptions = true
		case "plain":
			cfg.PlainName = true
		}
	}
	return cfg
}

// parseRange decodes a "lo:hi" float pair.
func parseRange(val string) (lo, hi float64) {
	loPart, hiPart, _ := strings.Cut(val, ":")
	lo, _ = strconv.ParseFloat(loPart, 64)
	hi, _ = strconv.ParseFloat(hiPart, 64)
	return lo, hi
}

type editorKey struct {
	owner any
	name  string
}

// Context drives property rendering for a set of owner objects. It owns the
// per-(owner, property) editor instances so editor state (open tree nodes,
// active union member) survives across frames.
type Context struct {
	registry *Registry
	editors  map[editorKey]Editor
}

// NewContext creates a rendering context over the given registry. A nil
// registry gets the builtin one.
func NewContext(r *Registry) *Context {
	if r == nil {
		r = NewRegistry()
	}
	return &Context{
		registry: r,
		editors:  make(map[editorKey]Editor),
	}
}

// Registry returns the registry this context resolves editors through.
func (c *Context) Registry() *Registry { return c.registry }

// PropertyEditor returns the editor for owner's named property, creating and
// caching it on first use. Returns nil when the property's type has no
// registered editor.
func (c *Context) PropertyEditor(owner any, prop Property) Editor {
	key, cacheable := c.keyFor(owner, prop.Name)
	if cacheable {
		if ed, ok := c.editors[key]; ok {
			return ed
		}
	}

	hint := prop.Hint
	// An interface-typed field is edited as whatever it currently holds.
	if prop.Type.Kind() == reflect.Interface && !hint.IsUnion() {
		if live := fieldValue(owner, prop.Name); live != nil {
			hint = Hint{Type: reflect.TypeOf(live)}
		}
	}

	ed := c.registry.Resolve(hint, prop.Config)
	if cacheable {
		c.editors[key] = ed
	}
	return ed
}

// keyFor builds the cache key. Owners of non-comparable type cannot be map
// keys, so their editors are rebuilt each frame.
func (c *Context) keyFor(owner any, name string) (editorKey, bool) {
	if owner == nil || !reflect.TypeOf(owner).Comparable() {
		return editorKey{}, false
	}
	return editorKey{owner: owner, name: name}, true
}

// RenderAll renders editors for every editable property of owner, skipping
// the named ignored ones. owner must be a pointer to a struct for edits to be
// written back. Reports whether any property changed.
func (c *Context) RenderAll(b ui.Backend, owner any, ignored ...string) bool {
	changed := false
	for _, prop := range Properties(reflect.TypeOf(owner)) {
		if containsName(ignored, prop.Name) {
			continue
		}
		ed := c.PropertyEditor(owner, prop)
		if ed == nil {
			b.TextColored(ui.Red, fmt.Sprintf("%s: no editor for type %s", prop.Name, prop.Type))
			continue
		}
		b.PushID(prop.Name)
		if ed.Render(b, owner, prop.Name) {
			changed = true
		}
		b.PopID()
	}
	return changed
}

func containsName(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
