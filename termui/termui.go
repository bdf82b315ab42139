// Package termui is a terminal rendering backend for ui.Backend. Each Frame
// renders widgets as styled text lines and answers widget interactions from a
// script keyed by widget-ID path, which makes it usable both for plain
// text-mode display and for driving editors from tests.
package termui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gridkit/gridkit/ui"
)

var (
	labelStyle   = lipgloss.NewStyle().Bold(true)
	disabledTint = lipgloss.NewStyle().Faint(true)
	modalStyle   = lipgloss.NewStyle().Bold(true).Reverse(true)
)

// Frame renders one pass of widgets. Widget IDs are scoped by PushID/PopID;
// a widget's path is the "/"-joined ID stack plus its own label.
type Frame struct {
	idStack []string
	indent  int
	lines   []string
	sameLn  bool

	interactions map[string]any
	popups       map[string]bool
	popupStack   []string
}

// NewFrame creates an empty frame.
func NewFrame() *Frame {
	return &Frame{
		interactions: make(map[string]any),
		popups:       make(map[string]bool),
	}
}

var _ ui.Backend = (*Frame)(nil)

// Scripted interactions. Each applies to the first widget rendered at the
// given path and is consumed by it.

// Click makes the button at path report a press.
func (f *Frame) Click(path ...string) { f.script(path, true) }

// SetText makes the text input at path report the given text.
func (f *Frame) SetText(v string, path ...string) { f.script(path, v) }

// SetFloat makes the float control at path report the given value.
func (f *Frame) SetFloat(v float64, path ...string) { f.script(path, v) }

// SetInt makes the int control at path report the given value.
func (f *Frame) SetInt(v int, path ...string) { f.script(path, v) }

// SetBool makes the checkbox at path report the given state.
func (f *Frame) SetBool(v bool, path ...string) { f.script(path, v) }

// Choose makes the combo at path report the given selection.
func (f *Frame) Choose(v string, path ...string) { f.script(path, v) }

// Collapse makes the tree node at path render closed. Nodes are open by
// default so scripted edits can reach nested widgets.
func (f *Frame) Collapse(path ...string) { f.script(path, false) }

func (f *Frame) script(path []string, v any) {
	f.interactions[strings.Join(path, "/")] = v
}

// scopedPath joins the current ID stack with a label into a widget path.
func (f *Frame) scopedPath(label string) string {
	return strings.Join(append(append([]string{}, f.idStack...), label), "/")
}

// consume looks up and removes the scripted interaction for label at the
// current ID scope.
func (f *Frame) consume(label string) (any, bool) {
	path := f.scopedPath(label)
	v, ok := f.interactions[path]
	if ok {
		delete(f.interactions, path)
	}
	return v, ok
}

// String returns the rendered frame.
func (f *Frame) String() string {
	return strings.Join(f.lines, "\n")
}

// Reset clears rendered output, keeping pending interactions and open popups,
// so the same frame can run another render pass.
func (f *Frame) Reset() {
	f.lines = nil
	f.idStack = f.idStack[:0]
	f.indent = 0
	f.sameLn = false
	f.popupStack = f.popupStack[:0]
}

func (f *Frame) emit(s string) {
	if f.sameLn && len(f.lines) > 0 {
		f.lines[len(f.lines)-1] += " " + s
		f.sameLn = false
		return
	}
	f.lines = append(f.lines, strings.Repeat("  ", f.indent)+s)
}

// display strips the "##id" suffix imgui-style labels use to hide their ID
// from display.
func display(label string) string {
	name, _, _ := strings.Cut(label, "##")
	return name
}

func (f *Frame) PushID(id string) { f.idStack = append(f.idStack, id) }

func (f *Frame) PopID() {
	if len(f.idStack) > 0 {
		f.idStack = f.idStack[:len(f.idStack)-1]
	}
}

func (f *Frame) Text(text string) {
	f.emit(text)
}

func (f *Frame) TextColored(color ui.Color, text string) {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(color.Hex()))
	f.emit(style.Render(text))
}

func (f *Frame) Tooltip(text string) {
	// Terminal frames have no hover; tooltips are dropped.
}

func (f *Frame) SameLine() {
	f.sameLn = true
}

func (f *Frame) Button(label, tooltip string, enabled bool) bool {
	text := "[" + display(label) + "]"
	if !enabled {
		f.emit(disabledTint.Render(text))
		return false
	}
	f.emit(text)
	v, ok := f.consume(label)
	if !ok {
		return false
	}
	clicked, _ := v.(bool)
	return clicked
}

func (f *Frame) Checkbox(label string, value bool) (bool, bool) {
	mark := " "
	if value {
		mark = "x"
	}
	f.emit(fmt.Sprintf("(%s) %s", mark, display(label)))
	if v, ok := f.consume(label); ok {
		if nv, ok := v.(bool); ok && nv != value {
			return true, nv
		}
	}
	return false, value
}

func (f *Frame) InputText(label, value string) (bool, string) {
	f.emit(fmt.Sprintf("%s[%s]", display(label), value))
	if v, ok := f.consume(label); ok {
		if nv, ok := v.(string); ok && nv != value {
			return true, nv
		}
	}
	return false, value
}

func (f *Frame) InputTextMultiline(label, value string, lines int) (bool, string) {
	f.emit(display(label) + "[")
	f.indent++
	for _, line := range strings.Split(value, "\n") {
		f.emit(line)
	}
	f.indent--
	f.emit("]")
	if v, ok := f.consume(label); ok {
		if nv, ok := v.(string); ok && nv != value {
			return true, nv
		}
	}
	return false, value
}

func (f *Frame) SliderFloat(label string, value, min, max float64, format string) (bool, float64) {
	f.emit(fmt.Sprintf("%s<"+format+" (%v..%v)>", display(label), value, min, max))
	return f.scriptedFloat(label, value, min, max, true)
}

func (f *Frame) DragFloat(label string, value, speed, min, max float64, format string) (bool, float64) {
	f.emit(fmt.Sprintf("%s<"+format+">", display(label), value))
	return f.scriptedFloat(label, value, min, max, min < max)
}

func (f *Frame) scriptedFloat(label string, value, min, max float64, clampRange bool) (bool, float64) {
	v, ok := f.consume(label)
	if !ok {
		return false, value
	}
	nv, ok := v.(float64)
	if !ok {
		return false, value
	}
	if clampRange {
		if nv < min {
			nv = min
		}
		if nv > max {
			nv = max
		}
	}
	return nv != value, nv
}

func (f *Frame) SliderInt(label string, value, min, max int, format string) (bool, int) {
	f.emit(fmt.Sprintf("%s<"+format+" (%d..%d)>", display(label), value, min, max))
	return f.scriptedInt(label, value, min, max, true)
}

func (f *Frame) DragInt(label string, value int, speed float64, min, max int, format string) (bool, int) {
	f.emit(fmt.Sprintf("%s<"+format+">", display(label), value))
	return f.scriptedInt(label, value, min, max, min < max)
}

func (f *Frame) scriptedInt(label string, value, min, max int, clampRange bool) (bool, int) {
	v, ok := f.consume(label)
	if !ok {
		return false, value
	}
	nv, ok := v.(int)
	if !ok {
		return false, value
	}
	if clampRange {
		if nv < min {
			nv = min
		}
		if nv > max {
			nv = max
		}
	}
	return nv != value, nv
}

func (f *Frame) ColorEdit(label string, value ui.Color) (bool, ui.Color) {
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(value.Hex()))
	f.emit(fmt.Sprintf("%s%s %s", display(label), swatch.Render("■"), value.Hex()))
	if v, ok := f.consume(label); ok {
		if nv, ok := v.(ui.Color); ok && nv != value {
			return true, nv
		}
	}
	return false, value
}

// SetColor makes the color picker at path report the given color.
func (f *Frame) SetColor(v ui.Color, path ...string) { f.script(path, v) }

func (f *Frame) Combo(label, selected string, options []string) (bool, string) {
	f.emit(fmt.Sprintf("%s{%s ∨}", display(label), selected))
	v, ok := f.consume(label)
	if !ok {
		return false, selected
	}
	nv, ok := v.(string)
	if !ok || nv == selected {
		return false, selected
	}
	for _, opt := range options {
		if opt == nv {
			return true, nv
		}
	}
	return false, selected
}

func (f *Frame) TreeNode(label string) bool {
	open := true
	if v, ok := f.consume(label); ok {
		open, _ = v.(bool)
	}
	marker := "▼"
	if !open {
		marker = "▶"
	}
	f.emit(fmt.Sprintf("%s %s", marker, labelStyle.Render(display(label))))
	if open {
		f.indent++
		f.PushID(display(label))
	}
	return open
}

func (f *Frame) TreePop() {
	if f.indent > 0 {
		f.indent--
	}
	f.PopID()
}

func (f *Frame) OpenPopup(id string) {
	f.popups[f.scopedPath(id)] = true
}

func (f *Frame) BeginPopupModal(id string) bool {
	key := f.scopedPath(id)
	if !f.popups[key] {
		return false
	}
	f.emit(modalStyle.Render("[ " + display(id) + " ]"))
	f.idStack = append(f.idStack, display(id))
	f.indent++
	f.popupStack = append(f.popupStack, key)
	return true
}

func (f *Frame) EndPopup() {
	f.PopID()
	if f.indent > 0 {
		f.indent--
	}
	if n := len(f.popupStack); n > 0 {
		f.popupStack = f.popupStack[:n-1]
	}
}

func (f *Frame) CloseCurrentPopup() {
	if n := len(f.popupStack); n > 0 {
		delete(f.popups, f.popupStack[n-1])
	}
}
