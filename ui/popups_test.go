package ui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gridkit/gridkit/termui"
	"github.com/gridkit/gridkit/ui"
)

func TestConfirmButtonConfirms(t *testing.T) {
	f := termui.NewFrame()
	f.Click("Delete")
	f.Click("Confirm Delete", "Ok")
	assert.True(t, ui.ConfirmButton(f, "Delete", "", "Really delete?", true))
}

func TestConfirmButtonCancels(t *testing.T) {
	f := termui.NewFrame()
	f.Click("Delete")
	f.Click("Confirm Delete", "Cancel")
	assert.False(t, ui.ConfirmButton(f, "Delete", "", "Really delete?", true))

	// Cancelling closed the popup; later frames don't redraw it.
	f.Reset()
	assert.False(t, ui.ConfirmButton(f, "Delete", "", "Really delete?", true))
	assert.NotContains(t, f.String(), "Really delete?")
}

func TestConfirmButtonWaitsForConfirmation(t *testing.T) {
	f := termui.NewFrame()
	f.Click("Delete")
	// The press alone only opens the popup.
	assert.False(t, ui.ConfirmButton(f, "Delete", "", "Really delete?", true))
	assert.Contains(t, f.String(), "Really delete?")

	// Confirming on a later frame completes the action.
	f.Reset()
	f.Click("Confirm Delete", "Ok")
	assert.True(t, ui.ConfirmButton(f, "Delete", "", "Really delete?", true))
}

func TestTextInputPopup(t *testing.T) {
	p := &ui.TextInputPopup{ID: "New Name", Message: "Pick a name:"}
	f := termui.NewFrame()

	ok, _ := p.Draw(f)
	assert.False(t, ok, "a popup that was never opened draws nothing")

	p.Open(f, "old")
	f.SetText("fresh", "New Name", "##input")
	f.Click("New Name", "Ok")
	ok, text := p.Draw(f)
	assert.True(t, ok)
	assert.Equal(t, "fresh", text)

	f.Reset()
	ok, _ = p.Draw(f)
	assert.False(t, ok, "accepting closes the popup")
}

func TestTextInputPopupValidator(t *testing.T) {
	p := &ui.TextInputPopup{
		ID: "New Name",
		Validator: func(v string) (bool, string) {
			if v == "" {
				return false, "name is empty"
			}
			return true, ""
		},
	}

	f := termui.NewFrame()
	p.Open(f, "")
	f.Click("New Name", "Ok")
	ok, _ := p.Draw(f)
	assert.False(t, ok, "Ok is disabled while the value is invalid")
	assert.Contains(t, f.String(), "name is empty")
}
