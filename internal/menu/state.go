package menu

import (
	"fmt"
	"strings"
)

// State is the menu screen currently shown.
type State int

const (
	MainMenu State = iota
	Settings
	CallSlots
	ChooseCalls
	SetDepartment
)

func (s State) String() string {
	switch s {
	case MainMenu:
		return "main"
	case Settings:
		return "settings"
	case CallSlots:
		return "call_slots"
	case ChooseCalls:
		return "choose_calls"
	case SetDepartment:
		return "set_department"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Button is one debounced input event.
type Button int

const (
	None Button = iota
	Prev
	Select
	Next
)

func (b Button) String() string {
	switch b {
	case None:
		return "none"
	case Prev:
		return "prev"
	case Select:
		return "select"
	case Next:
		return "next"
	default:
		return fmt.Sprintf("button(%d)", int(b))
	}
}

// ParseButton maps a button name to a Button.
func ParseButton(s string) (Button, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prev", "up":
		return Prev, nil
	case "select", "ok":
		return Select, nil
	case "next", "down":
		return Next, nil
	default:
		return None, fmt.Errorf("unknown button %q", s)
	}
}

// Display draws text on the console's line display. Lines are 1-based.
type Display interface {
	Clear()
	WriteLine(text string, column, line int, highlighted bool)
}

// settingsItem is one entry of the settings list.
type settingsItem int

const (
	itemChooseCalls settingsItem = iota
	itemSetDepartment
	itemResetAll
	itemExit
)

var settingsLabels = []string{
	itemChooseCalls:   "Choose Calls",
	itemSetDepartment: "Set Department",
	itemResetAll:      "Reset All",
	itemExit:          "Exit",
}
