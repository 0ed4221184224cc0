package view

import "sync"

// MessageSurface is the single status line of a page or form: it holds the
// last success or error string and nothing else. Every action clears and
// rewrites it; the four failure classes are not distinguished beyond the text.
type MessageSurface struct {
	mu   sync.Mutex
	text string
	ok   bool
}

// NewMessageSurface returns an empty surface.
func NewMessageSurface() *MessageSurface {
	return &MessageSurface{}
}

// Set replaces the surface content.
func (m *MessageSurface) Set(text string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.ok = ok
}

// Clear empties the surface.
func (m *MessageSurface) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = ""
	m.ok = false
}

// Text returns the current message.
func (m *MessageSurface) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// OK reports whether the current message is a success message.
func (m *MessageSurface) OK() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ok
}
