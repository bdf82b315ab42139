package editor

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridkit/gridkit/termui"
)

type character struct {
	Name    string   `edit:"options=Knight|Rogue|Mage,free" doc:"display name"`
	Level   int      `edit:"min=1,max=99,slider"`
	Health  float64  `edit:"min=0,max=100,format=%.0f"`
	Tags    []string `edit:"min_items=1"`
	Alive   bool     `edit:""`
	Skip    string   `edit:"-"`
	private int      `edit:""`
	NoTag   string
}

func TestPropertiesListsTaggedFields(t *testing.T) {
	props := Properties(reflect.TypeOf(&character{}))
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"Name", "Level", "Health", "Tags", "Alive"}, names)
}

func TestPropertiesParseTags(t *testing.T) {
	props := Properties(reflect.TypeOf(character{}))
	byName := make(map[string]Property, len(props))
	for _, p := range props {
		byName[p.Name] = p
	}

	name := byName["Name"]
	assert.Equal(t, []string{"Knight", "Rogue", "Mage"}, name.Config.Options)
	assert.True(t, name.Config.FreeOptions)
	assert.Equal(t, "display name", name.Doc)

	level := byName["Level"]
	assert.Equal(t, 1.0, level.Config.Min)
	assert.Equal(t, 99.0, level.Config.Max)
	assert.True(t, level.Config.Slider)

	health := byName["Health"]
	assert.Equal(t, "%.0f", health.Config.Format)

	tags := byName["Tags"]
	assert.Equal(t, 1, tags.Config.MinItems)
	require.Len(t, tags.Hint.Elems, 1)
	assert.Equal(t, reflect.TypeOf(""), tags.Hint.Elems[0].Type)
}

func TestParseTagComponentRanges(t *testing.T) {
	cfg := parseTag("x_range=0:10,y_range=-1:1")
	assert.Equal(t, 0.0, cfg.XMin)
	assert.Equal(t, 10.0, cfg.XMax)
	assert.Equal(t, -1.0, cfg.YMin)
	assert.Equal(t, 1.0, cfg.YMax)
}

func TestPropertiesFlattensEmbedded(t *testing.T) {
	props := Properties(reflect.TypeOf(circle{}))
	require.Len(t, props, 2)
	assert.Equal(t, "Name", props[0].Name)
	assert.Equal(t, "Radius", props[1].Name)
	// The flattened field's index path reaches through the embedded struct.
	assert.Equal(t, []int{0, 0}, props[0].Index)
}

func TestPropertiesNonStruct(t *testing.T) {
	assert.Nil(t, Properties(reflect.TypeOf(42)))
	assert.Nil(t, Properties(nil))
}

func TestContextCachesEditorsPerOwner(t *testing.T) {
	ctx := NewContext(nil)
	a := &character{}
	b := &character{}
	props := Properties(reflect.TypeOf(a))

	edA := ctx.PropertyEditor(a, props[0])
	require.NotNil(t, edA)
	assert.Same(t, edA, ctx.PropertyEditor(a, props[0]))
	assert.NotSame(t, edA, ctx.PropertyEditor(b, props[0]))
	assert.NotSame(t, edA, ctx.PropertyEditor(a, props[1]))
}

func TestContextRenderAllWritesBack(t *testing.T) {
	ctx := NewContext(nil)
	c := &character{Name: "Aldric", Level: 3}
	props := Properties(reflect.TypeOf(c))

	levelEd := ctx.PropertyEditor(c, props[1])
	require.NotNil(t, levelEd)

	f := termui.NewFrame()
	f.SetInt(9, "Level", scopeOf(t, levelEd), "##value")
	assert.True(t, ctx.RenderAll(f, c))
	assert.Equal(t, 9, c.Level)
	assert.Equal(t, "Aldric", c.Name)

	f = termui.NewFrame()
	assert.False(t, ctx.RenderAll(f, c))
}

func TestContextRenderAllIgnored(t *testing.T) {
	ctx := NewContext(nil)
	c := &character{Name: "Aldric"}

	f := termui.NewFrame()
	ctx.RenderAll(f, c, "Name", "Tags")
	out := f.String()
	assert.NotContains(t, out, "Name")
	assert.Contains(t, out, "Level")
}

type withOddField struct {
	Ch chan int `edit:""`
}

func TestContextRenderAllUnresolvable(t *testing.T) {
	ctx := NewContext(nil)

	f := termui.NewFrame()
	changed := ctx.RenderAll(f, &withOddField{})
	assert.False(t, changed)
	assert.Contains(t, f.String(), "no editor for type chan int")
}

type withPointerScalar struct {
	Count *int `edit:""`
}

func TestContextRenderAllPointerScalar(t *testing.T) {
	ctx := NewContext(nil)

	// Pointer-to-scalar fields have no editor; they must surface the inline
	// notice like any other unresolvable property, not crash the render pass.
	f := termui.NewFrame()
	changed := ctx.RenderAll(f, &withPointerScalar{})
	assert.False(t, changed)
	assert.Contains(t, f.String(), "no editor for type *int")
}

type inventory struct {
	Items []string `edit:""`
}

func TestContextRenderAllListProperty(t *testing.T) {
	ctx := NewContext(nil)
	inv := &inventory{Items: []string{"sword"}}
	props := Properties(reflect.TypeOf(inv))
	listEd := ctx.PropertyEditor(inv, props[0]).(*ListEditor)

	// The path goes through the property ID scope and the open tree node.
	f := termui.NewFrame()
	f.Click("Items", "Items", scopeOf(t, listEd), "Add Item")
	assert.True(t, ctx.RenderAll(f, inv))
	assert.Equal(t, []string{"sword", ""}, inv.Items)
}

type slot struct {
	Content any `edit:""`
}

func TestContextInterfaceFieldUsesLiveType(t *testing.T) {
	ctx := NewContext(nil)
	s := &slot{Content: 5}
	props := Properties(reflect.TypeOf(s))

	ed := ctx.PropertyEditor(s, props[0])
	require.NotNil(t, ed)
	assert.IsType(t, &IntEditor{}, ed)
}

func TestPrettyName(t *testing.T) {
	assert.Equal(t, "Max Speed", prettyName("MaxSpeed"))
	assert.Equal(t, "Name", prettyName("Name"))
	assert.Equal(t, "Max HP", prettyName("MaxHP"))
	assert.Equal(t, "Snake Case", prettyName("snake_case"))
}
