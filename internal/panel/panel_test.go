package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"andon-console/internal/menu"
	"andon-console/internal/selection"
)

func TestScreen(t *testing.T) {
	s := NewScreen()
	assert.False(t, s.Backlight())

	s.WriteLine("Settings", 5, 4, true)
	s.WriteLine("ignored", 5, 0, false)
	s.WriteLine("ignored", 5, Lines+1, false)

	lines := s.Snapshot()
	assert.Equal(t, Line{Text: "Settings", Column: 5, Highlighted: true}, lines[3])
	assert.Equal(t, Line{}, lines[0])

	s.SetBacklight(true)
	assert.True(t, s.Backlight())

	s.Clear()
	assert.Equal(t, [Lines]Line{}, s.Snapshot())
}

func TestButtonQueue(t *testing.T) {
	q := NewButtonQueue(2)
	assert.Equal(t, menu.None, q.Poll())

	assert.True(t, q.Push(menu.Next))
	assert.True(t, q.Push(menu.Select))
	assert.False(t, q.Push(menu.Prev), "full queue rejects")
	assert.True(t, q.Push(menu.None), "None is never queued")

	assert.Equal(t, menu.Next, q.Poll())
	assert.Equal(t, menu.Select, q.Poll())
	assert.Equal(t, menu.None, q.Poll())
}

func TestCallSwitches(t *testing.T) {
	var c CallSwitches
	assert.NoError(t, c.Set(1, true))
	assert.Error(t, c.Set(selection.SlotCount, true))
	assert.Error(t, c.Set(-1, true))
	assert.Equal(t, [selection.SlotCount]bool{false, true, false}, c.Pressed())
}

func TestLamps(t *testing.T) {
	var l Lamps
	l.SetLamp(2, true)
	l.SetLamp(5, true)
	assert.Equal(t, [selection.SlotCount]bool{false, false, true}, l.Lit())
}
