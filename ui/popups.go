package ui

import "strings"

// ConfirmButton draws a button that opens a Cancel/Ok confirmation popup
// instead of acting immediately. Reports true only on the frame the user
// picks Ok.
func ConfirmButton(b Backend, label, tooltip, message string, enabled bool) bool {
	id := "Confirm " + labelName(label)
	if b.Button(label, tooltip, enabled) {
		b.OpenPopup(id)
	}
	confirmed := false
	if b.BeginPopupModal(id) {
		b.Text(message)
		if b.Button("Cancel", "Keep things as they are", true) {
			b.CloseCurrentPopup()
		}
		b.SameLine()
		if b.Button("Ok", "Confirm", true) {
			confirmed = true
			b.CloseCurrentPopup()
		}
		b.EndPopup()
	}
	return confirmed
}

// TextInputValidator checks a candidate value, reporting whether it is
// acceptable and why.
type TextInputValidator func(value string) (ok bool, reason string)

// TextInputPopup prompts for a line of text in a modal with Cancel/Ok
// buttons. An optional Validator disables Ok and explains the problem while
// the value is invalid.
type TextInputPopup struct {
	// ID names the popup; it should be unique within the frame.
	ID string
	// Message is shown above the input.
	Message   string
	Validator TextInputValidator

	value string
}

// Open shows the popup with the given initial value.
func (p *TextInputPopup) Open(b Backend, initial string) {
	p.value = initial
	b.OpenPopup(p.ID)
}

// Draw renders the popup while it is open. ok reports that the user accepted,
// with text carrying the entered value.
func (p *TextInputPopup) Draw(b Backend) (ok bool, text string) {
	if !b.BeginPopupModal(p.ID) {
		return false, ""
	}
	defer b.EndPopup()
	if p.Message != "" {
		b.Text(p.Message)
	}
	if changed, v := b.InputText("##input", p.value); changed {
		p.value = v
	}
	valid := true
	if p.Validator != nil {
		var reason string
		if valid, reason = p.Validator(p.value); valid {
			b.TextColored(Green, "Value is valid.")
		} else {
			b.TextColored(Red, "Invalid value: "+reason)
		}
	}
	if b.Button("Cancel", "Discard the entered value", true) {
		b.CloseCurrentPopup()
	}
	b.SameLine()
	if b.Button("Ok", "Accept the entered value", valid) {
		b.CloseCurrentPopup()
		return true, p.value
	}
	return false, ""
}

// labelName strips the "##id" suffix imgui-style labels use to hide their ID
// from display.
func labelName(label string) string {
	name, _, _ := strings.Cut(label, "##")
	return name
}
