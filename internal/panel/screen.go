// Package panel provides in-memory stand-ins for the console's physical
// display, buttons, call switches and lamps so the core can run on a host
// and be driven over HTTP.
package panel

import (
	"fmt"
	"sync"

	"andon-console/internal/selection"
)

// Lines is the display height.
const Lines = 4

// Line is one rendered display line.
type Line struct {
	Text        string `json:"text"`
	Column      int    `json:"column"`
	Highlighted bool   `json:"highlighted"`
}

// Screen is a 4-line text display with a backlight.
type Screen struct {
	mu        sync.RWMutex
	lines     [Lines]Line
	backlight bool
}

// NewScreen returns a blank screen with the backlight off.
func NewScreen() *Screen {
	return &Screen{}
}

// Clear blanks every line.
func (s *Screen) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = [Lines]Line{}
}

// WriteLine draws text on a 1-based line. Lines outside the display are
// dropped.
func (s *Screen) WriteLine(text string, column, line int, highlighted bool) {
	if line < 1 || line > Lines {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines[line-1] = Line{Text: text, Column: column, Highlighted: highlighted}
}

// SetBacklight switches the backlight.
func (s *Screen) SetBacklight(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backlight = on
}

// Backlight reports whether the backlight is on.
func (s *Screen) Backlight() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backlight
}

// Snapshot returns a copy of the current lines.
func (s *Screen) Snapshot() [Lines]Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lines
}

// CallSwitches holds the latched state of the three call switches.
type CallSwitches struct {
	mu      sync.RWMutex
	pressed [selection.SlotCount]bool
}

// Set latches switch slot.
func (c *CallSwitches) Set(slot int, pressed bool) error {
	if slot < 0 || slot >= selection.SlotCount {
		return fmt.Errorf("call slot %d out of range", slot)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pressed[slot] = pressed
	return nil
}

// Pressed returns the state of every switch.
func (c *CallSwitches) Pressed() [selection.SlotCount]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pressed
}

// Lamps are the indicator lamps beside each call switch.
type Lamps struct {
	mu  sync.RWMutex
	lit [selection.SlotCount]bool
}

// SetLamp switches lamp slot. Out-of-range slots are ignored.
func (l *Lamps) SetLamp(slot int, on bool) {
	if slot < 0 || slot >= selection.SlotCount {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lit[slot] = on
}

// Lit returns the state of every lamp.
func (l *Lamps) Lit() [selection.SlotCount]bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lit
}
