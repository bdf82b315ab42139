// Package uilog implements a tagged message log whose entries can be echoed to
// the console with color styling, drawn through a ui.Backend, and persisted as
// JSON.
package uilog

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/gridkit/gridkit/ui"
)

// Kind classifies a log message.
type Kind string

const (
	Info    Kind = "INFO"
	Good    Kind = "GOOD"
	Warning Kind = "WARNING"
	Error   Kind = "ERROR"
)

// Color returns the ui color associated with this kind.
func (k Kind) Color() ui.Color {
	switch k {
	case Good:
		return ui.Green
	case Warning:
		return ui.Yellow
	case Error:
		return ui.Red
	}
	return ui.White
}

func (k Kind) style() lipgloss.Style {
	var c lipgloss.Color
	switch k {
	case Good:
		c = lipgloss.Color("10")
	case Warning:
		c = lipgloss.Color("11")
	case Error:
		c = lipgloss.Color("9")
	default:
		c = lipgloss.Color("15")
	}
	return lipgloss.NewStyle().Foreground(c)
}

// Message is a single entry stored by a Logger.
type Message struct {
	Tag  string `json:"tag"`
	Text string `json:"message"`
	Kind Kind   `json:"logtype"`
}

// String renders the message as "[tag] text", omitting the tag when empty.
func (m Message) String() string {
	if m.Tag != "" {
		return fmt.Sprintf("[%s] %s", m.Tag, m.Text)
	}
	return m.Text
}

// Styled returns the message string with the kind's console color applied.
func (m Message) Styled() string {
	return m.Kind.style().Render(m.String())
}

// Draw renders the message as colored text on the given backend.
func (m Message) Draw(b ui.Backend) {
	b.TextColored(m.Kind.Color(), m.String())
}

// Logger stores messages with metadata. Messages can be echoed to a writer as
// they arrive, listed, drawn onscreen, or serialized to JSON.
type Logger struct {
	tag      string
	echo     io.Writer
	messages []Message
}

// New creates a Logger whose messages carry the given tag.
func New(tag string) *Logger {
	return &Logger{tag: tag}
}

// SetEcho makes the logger write each styled message to w as it is logged.
// Pass nil to disable echoing.
func (l *Logger) SetEcho(w io.Writer) {
	l.echo = w
}

// Tag returns the logger's tag.
func (l *Logger) Tag() string { return l.tag }

// Log appends a message of the given kind.
func (l *Logger) Log(kind Kind, text string) {
	msg := Message{Tag: l.tag, Text: text, Kind: kind}
	l.messages = append(l.messages, msg)
	if l.echo != nil {
		fmt.Fprintln(l.echo, msg.Styled())
	}
}

// Logf appends a formatted message of the given kind.
func (l *Logger) Logf(kind Kind, format string, args ...any) {
	l.Log(kind, fmt.Sprintf(format, args...))
}

// Info logs an INFO-kind message.
func (l *Logger) Info(text string) { l.Log(Info, text) }

// Good logs a GOOD-kind message.
func (l *Logger) Good(text string) { l.Log(Good, text) }

// Warning logs a WARNING-kind message.
func (l *Logger) Warning(text string) { l.Log(Warning, text) }

// Error logs an ERROR-kind message.
func (l *Logger) Error(text string) { l.Log(Error, text) }

// Messages returns a copy of the stored messages in order.
func (l *Logger) Messages() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Clear removes all stored messages.
func (l *Logger) Clear() {
	l.messages = l.messages[:0]
}

// Copy returns a new Logger with the same tag and messages.
// The echo writer is not copied.
func (l *Logger) Copy() *Logger {
	c := New(l.tag)
	c.messages = append(c.messages, l.messages...)
	return c
}

type loggerJSON struct {
	Tag      string    `json:"tag"`
	Messages []Message `json:"messages"`
}

// MarshalJSON serializes the logger as {"tag": ..., "messages": [...]}.
func (l *Logger) MarshalJSON() ([]byte, error) {
	msgs := l.messages
	if msgs == nil {
		msgs = []Message{}
	}
	return json.Marshal(loggerJSON{Tag: l.tag, Messages: msgs})
}

// UnmarshalJSON restores a logger serialized by MarshalJSON.
func (l *Logger) UnmarshalJSON(data []byte) error {
	var j loggerJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return fmt.Errorf("unmarshal logger: %w", err)
	}
	l.tag = j.Tag
	l.messages = j.Messages
	return nil
}

// Draw renders the logger's messages inside a collapsible region on the given
// backend. The title defaults to the logger's tag.
func (l *Logger) Draw(b ui.Backend, title string) {
	if title == "" {
		title = l.tag
	}
	if !b.TreeNode(title) {
		return
	}
	for _, msg := range l.messages {
		msg.Draw(b)
	}
	b.TreePop()
}
