// Package telemetry reports the console's call switch state to the backend
// over a websocket.
package telemetry

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"andon-console/internal/selection"
)

// Undefined is reported for a pressed call with no configured status, and
// for an unset department.
const Undefined = "Undefined"

// Frame is one telemetry message.
type Frame struct {
	ID         string `json:"id"`
	ConsoleID  int    `json:"consoleid"`
	Department string `json:"department"`
	Call1      string `json:"call1"`
	Call2      string `json:"call2"`
	Call3      string `json:"call3"`
	OldCall    string `json:"oldcall"`
}

// BuildFrame assembles a frame. A call field carries the slot's status while
// its switch is pressed and is empty otherwise.
func BuildFrame(consoleID int, calls [selection.SlotCount]selection.ActiveCall, dept selection.ActiveDepartment, pressed [selection.SlotCount]bool, now time.Time) Frame {
	var status [selection.SlotCount]string
	for i := range calls {
		if pressed[i] {
			status[i] = calls[i].Status.Or(Undefined)
		}
	}
	return Frame{
		ID:         newID(now),
		ConsoleID:  consoleID,
		Department: dept.ID.Or(Undefined),
		Call1:      status[0],
		Call2:      status[1],
		Call3:      status[2],
	}
}

func newID(t time.Time) string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
