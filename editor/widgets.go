package editor

import (
	"github.com/gridkit/gridkit/ui"
)

// ColorEditor edits ui.Color values with the backend's color picker.
type ColorEditor struct {
	base
}

// NewColorEditor is the Factory for ColorEditor.
func NewColorEditor(cfg Config, bind Binding) Editor {
	e := &ColorEditor{base: newBase(cfg, bind)}
	e.enforce = true
	if !cfg.HasColor {
		e.color = ui.Color{R: 0.8, G: 0.4, B: 0.1, A: 1}
	}
	return e
}

func (e *ColorEditor) Render(b ui.Backend, owner any, field string) bool {
	return renderScalarProperty(b, e, &e.base, owner, field)
}

func (e *ColorEditor) RenderValue(b ui.Backend, value any) (bool, any) {
	return renderValueScoped(b, e, &e.base, value, e.drawValue)
}

// Coerce treats an absent color as white rather than transparent black, so a
// newly added color shows up.
func (e *ColorEditor) Coerce(value any) any {
	if value == nil {
		return ui.White
	}
	return e.base.Coerce(value)
}

func (e *ColorEditor) drawValue(b ui.Backend, value any) (bool, any) {
	cur := value.(ui.Color)
	changed, edited := b.ColorEdit("##value", cur)
	if changed {
		return true, edited
	}
	return false, value
}

// Vec2Editor edits ui.Vec2 values as two side-by-side float controls. Each
// component carries its own range; a component without one follows the shared
// Min/Max.
type Vec2Editor struct {
	base
	xMin, xMax float64
	yMin, yMax float64
	speed      float64
	format     string
}

// NewVec2Editor is the Factory for Vec2Editor.
func NewVec2Editor(cfg Config, bind Binding) Editor {
	e := &Vec2Editor{
		base:   newBase(cfg, bind),
		xMin:   cfg.XMin,
		xMax:   cfg.XMax,
		yMin:   cfg.YMin,
		yMax:   cfg.YMax,
		speed:  cfg.Speed,
		format: cfg.Format,
	}
	e.enforce = true
	if !cfg.HasColor {
		e.color = ui.Color{R: 0, G: 0.5, B: 1, A: 1}
	}
	if e.xMax <= e.xMin {
		e.xMin, e.xMax = cfg.Min, cfg.Max
	}
	if e.yMax <= e.yMin {
		e.yMin, e.yMax = cfg.Min, cfg.Max
	}
	if e.speed == 0 {
		e.speed = 0.1
	}
	if e.format == "" {
		e.format = "%.2f"
	}
	return e
}

func (e *Vec2Editor) Render(b ui.Backend, owner any, field string) bool {
	return renderScalarProperty(b, e, &e.base, owner, field)
}

func (e *Vec2Editor) RenderValue(b ui.Backend, value any) (bool, any) {
	return renderValueScoped(b, e, &e.base, value, e.drawValue)
}

// Coerce treats an absent vector as the zero vector.
func (e *Vec2Editor) Coerce(value any) any {
	if value == nil {
		return ui.Vec2{}
	}
	return e.base.Coerce(value)
}

func (e *Vec2Editor) drawValue(b ui.Backend, value any) (bool, any) {
	cur := value.(ui.Vec2)
	edited := cur
	changedX, x := e.drawComponent(b, "XComp", cur.X, e.xMin, e.xMax)
	edited.X = x
	b.SameLine()
	changedY, y := e.drawComponent(b, "YComp", cur.Y, e.yMin, e.yMax)
	edited.Y = y
	if changedX || changedY {
		return true, edited
	}
	return false, value
}

func (e *Vec2Editor) drawComponent(b ui.Backend, id string, cur, min, max float64) (bool, float64) {
	b.PushID(id)
	defer b.PopID()
	if max > min {
		return b.SliderFloat("##comp", cur, min, max, e.format)
	}
	return b.DragFloat("##comp", cur, e.speed, min, max, e.format)
}
