// Package ui defines the rendering backend capability consumed by the editor
// system: an immediate-mode widget set plus the small value types (Color, Vec2)
// those widgets edit. Concrete backends live elsewhere (see package termui).
package ui

// Backend is the immediate-mode drawing surface the editors render into.
// Every widget call draws one control for the current frame and reports whether
// the user interacted with it, returning the new value where applicable.
//
// PushID/PopID maintain a widget-scope stack so that repeated controls with the
// same label (list items, nested objects) do not alias each other's state.
type Backend interface {
	PushID(id string)
	PopID()

	Text(s string)
	TextColored(c Color, s string)
	// Tooltip attaches hover text to the most recently drawn control.
	Tooltip(s string)
	// SameLine keeps the next control on the current line.
	SameLine()

	// Button draws a push button. A disabled button is drawn but never reports
	// a click.
	Button(label, tooltip string, enabled bool) bool
	Checkbox(label string, value bool) (bool, bool)

	InputText(label, value string) (bool, string)
	InputTextMultiline(label, value string, lines int) (bool, string)

	SliderFloat(label string, value, min, max float64, format string) (bool, float64)
	DragFloat(label string, value, speed, min, max float64, format string) (bool, float64)
	SliderInt(label string, value, min, max int, format string) (bool, int)
	DragInt(label string, value int, speed float64, min, max int, format string) (bool, int)

	ColorEdit(label string, value Color) (bool, Color)

	// Combo draws a drop-down over options, with selected as the current value.
	Combo(label, selected string, options []string) (bool, string)

	// TreeNode opens a collapsible region and pushes its label onto the ID
	// stack when open. Callers must TreePop only when TreeNode returned true.
	TreeNode(label string) bool
	TreePop()

	// OpenPopup marks the modal popup with the given ID for display. The popup
	// stays open across frames until CloseCurrentPopup is called inside it.
	OpenPopup(id string)
	// BeginPopupModal draws the popup region while it is open and pushes its ID
	// onto the ID stack. Callers must EndPopup only when it returned true.
	BeginPopupModal(id string) bool
	EndPopup()
	// CloseCurrentPopup dismisses the popup currently being drawn.
	CloseCurrentPopup()
}
