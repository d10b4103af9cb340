// Package paginate maps a circular cursor onto the fixed-height window of the
// console display.
package paginate

import "fmt"

// WindowSize is the number of list lines the display can show.
const WindowSize = 4

// Mode selects how the window follows the cursor.
type Mode int

const (
	// Paged flips a whole window at a time; the last page is pinned to the
	// end of the list so it is always full.
	Paged Mode = iota
	// Scrolling moves the window one line at a time, keeping the cursor on
	// the last line while moving forward.
	Scrolling
)

// ParseMode maps a configuration value to a Mode. Unknown values are Paged.
func ParseMode(s string) Mode {
	if s == "scroll" || s == "scrolling" {
		return Scrolling
	}
	return Paged
}

// Window describes the slice of a list currently on screen.
type Window struct {
	// Start and End bound the visible indices, [Start, End).
	Start int
	End   int
	// Highlight is the 1-based display line of the cursor.
	Highlight int
	// Empty is set when the list has no entries; no indices are visible.
	Empty bool
}

// Len returns the number of visible entries.
func (w Window) Len() int { return w.End - w.Start }

// Indices returns the visible list indices in display order.
func (w Window) Indices() []int {
	if w.Empty {
		return nil
	}
	out := make([]int, 0, w.Len())
	for i := w.Start; i < w.End; i++ {
		out = append(out, i)
	}
	return out
}

// Line returns the 1-based display line of list index i.
func (w Window) Line(i int) int { return i - w.Start + 1 }

// Visible computes the paged window for a list of count entries with the
// cursor at cursor.
func Visible(count, size, cursor int) Window {
	return VisibleMode(Paged, count, size, cursor)
}

// VisibleMode computes the window for the given mode. The window never runs
// past the end of the list.
func VisibleMode(mode Mode, count, size, cursor int) Window {
	if count < 0 || size <= 0 {
		panic(fmt.Sprintf("paginate: invalid window count=%d size=%d", count, size))
	}
	if count == 0 {
		return Window{Empty: true}
	}
	if cursor < 0 || cursor >= count {
		panic(fmt.Sprintf("paginate: cursor %d out of range [0,%d)", cursor, count))
	}

	start := 0
	if count > size {
		switch mode {
		case Scrolling:
			start = max(0, min(cursor-size+1, count-size))
		default:
			start = min((cursor/size)*size, count-size)
		}
	}
	return Window{
		Start:     start,
		End:       min(start+size, count),
		Highlight: cursor - start + 1,
	}
}

// Paginator owns the cursor of one list.
type Paginator struct {
	mode   Mode
	size   int
	cursor int
}

// New returns a paged paginator with the cursor on the first entry.
func New(size int) Paginator {
	return NewMode(Paged, size)
}

// NewMode returns a paginator using mode.
func NewMode(mode Mode, size int) Paginator {
	if size <= 0 {
		panic(fmt.Sprintf("paginate: invalid window size %d", size))
	}
	return Paginator{mode: mode, size: size}
}

// Cursor returns the current list index.
func (p *Paginator) Cursor() int { return p.cursor }

// Reset moves the cursor back to the first entry.
func (p *Paginator) Reset() { p.cursor = 0 }

// Up moves the cursor one entry back, wrapping from the first to the last.
func (p *Paginator) Up(count int) {
	if count == 0 {
		return
	}
	if p.cursor == 0 {
		p.cursor = count - 1
		return
	}
	p.cursor--
}

// Down moves the cursor one entry forward, wrapping from the last to the first.
func (p *Paginator) Down(count int) {
	if count == 0 {
		return
	}
	if p.cursor == count-1 {
		p.cursor = 0
		return
	}
	p.cursor++
}

// Window returns the visible window over a list of count entries.
func (p *Paginator) Window(count int) Window {
	return VisibleMode(p.mode, count, p.size, p.cursor)
}
