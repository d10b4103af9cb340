// Package menu implements the console's menu state machine. The controller
// owns the active call and department selections, drives a paginator per
// list, and commits every change through the selection persister.
package menu

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"andon-console/internal/paginate"
	"andon-console/internal/record"
	"andon-console/internal/selection"
)

const (
	noCallsText       = "No calls set"
	noDepartmentsText = "No departments set"
	setOnConsoleText  = "Please set on mgmt console"
	goBackText        = "Go back"
	initialSetupText  = "Do the initial Setup.."
	pressOKText       = "Settings (Press OK)"
	settingsText      = "Settings"
	backText          = "Back"
)

// Options configures rendering and paging.
type Options struct {
	Column     int
	WindowSize int
	Mode       paginate.Mode
}

// Controller is the menu state machine. It is not safe for concurrent use.
type Controller struct {
	records   *record.Store
	persister *selection.Persister
	display   Display
	column    int

	state State
	slot  int

	settings paginate.Paginator
	slots    paginate.Paginator
	list     paginate.Paginator

	calls [selection.SlotCount]selection.ActiveCall
	dept  selection.ActiveDepartment
}

// New creates a controller in MainMenu with nothing selected. Call Boot to
// load the persisted selections.
func New(records *record.Store, persister *selection.Persister, display Display, opts Options) *Controller {
	if opts.WindowSize <= 0 {
		opts.WindowSize = paginate.WindowSize
	}
	return &Controller{
		records:   records,
		persister: persister,
		display:   display,
		column:    opts.Column,
		state:     MainMenu,
		settings:  paginate.NewMode(opts.Mode, opts.WindowSize),
		slots:     paginate.NewMode(opts.Mode, opts.WindowSize),
		list:      paginate.NewMode(opts.Mode, opts.WindowSize),
	}
}

// Boot seeds the persistence layer and loads the stored selections.
func (c *Controller) Boot(ctx context.Context) {
	if err := c.persister.Seed(ctx); err != nil {
		log.Printf("menu: seeding selections failed: %v", err)
	}
	c.calls = c.persister.LoadCalls(ctx)
	c.dept = c.persister.LoadDepartment(ctx)
	c.state = MainMenu
}

// State returns the current screen.
func (c *Controller) State() State { return c.state }

// Slot returns the call slot being edited. Only meaningful in ChooseCalls.
func (c *Controller) Slot() int { return c.slot }

// Calls returns a copy of the active call slots.
func (c *Controller) Calls() [selection.SlotCount]selection.ActiveCall { return c.calls }

// Department returns the active department.
func (c *Controller) Department() selection.ActiveDepartment { return c.dept }

// Cursor returns the cursor of the list shown in the current state, or -1
// on the main menu.
func (c *Controller) Cursor() int {
	switch c.state {
	case Settings:
		return c.settings.Cursor()
	case CallSlots:
		return c.slots.Cursor()
	case ChooseCalls, SetDepartment:
		return c.list.Cursor()
	default:
		return -1
	}
}

// Home returns to the main menu without touching any selection.
func (c *Controller) Home() {
	c.state = MainMenu
}

// Handle applies one button event and re-renders when the screen changed.
// It reports whether anything changed.
func (c *Controller) Handle(ctx context.Context, b Button) bool {
	if b == None {
		return false
	}

	switch c.state {
	case MainMenu:
		if b != Select {
			return false
		}
		c.settings.Reset()
		c.state = Settings

	case Settings:
		if !c.move(&c.settings, len(settingsLabels), b) {
			c.selectSetting(ctx, settingsItem(c.settings.Cursor()))
		}

	case CallSlots:
		if !c.move(&c.slots, selection.SlotCount+1, b) {
			c.selectSlot(ctx, c.slots.Cursor())
		}

	case ChooseCalls:
		if !c.move(&c.list, c.records.Count(record.KindCalls), b) {
			c.commitCall(ctx)
			c.state = Settings
		}

	case SetDepartment:
		if !c.move(&c.list, c.records.Count(record.KindDepartments), b) {
			c.commitDepartment(ctx)
			c.state = Settings
		}
	}

	c.Render()
	return true
}

// move applies Prev/Next to p and reports whether the button was consumed.
func (c *Controller) move(p *paginate.Paginator, count int, b Button) bool {
	switch b {
	case Prev:
		p.Up(count)
		return true
	case Next:
		p.Down(count)
		return true
	default:
		return false
	}
}

func (c *Controller) selectSetting(ctx context.Context, item settingsItem) {
	switch item {
	case itemChooseCalls:
		c.slots.Reset()
		c.state = CallSlots
	case itemSetDepartment:
		c.records.Refresh(ctx, record.KindDepartments)
		c.list.Reset()
		c.state = SetDepartment
	case itemResetAll:
		c.ResetAll(ctx)
	case itemExit:
		c.state = MainMenu
	}
}

func (c *Controller) selectSlot(ctx context.Context, i int) {
	if i >= selection.SlotCount {
		c.state = Settings
		return
	}
	c.slot = i
	c.records.Refresh(ctx, record.KindCalls)
	c.list.Reset()
	c.state = ChooseCalls
}

func (c *Controller) commitCall(ctx context.Context) {
	if c.records.Count(record.KindCalls) == 0 {
		return
	}
	calls := c.calls
	calls[c.slot] = selection.CallFrom(c.records.Call(c.list.Cursor())).Escaped()
	if _, err := selection.EncodeCalls(calls); err != nil {
		log.Printf("menu: call %d not encodable, keeping previous selection: %v", c.slot+1, err)
		return
	}
	c.calls = calls
	if err := c.persister.SaveCalls(ctx, c.calls); err != nil {
		log.Printf("menu: persisting call %d failed, keeping unsaved selection: %v", c.slot+1, err)
	}
}

func (c *Controller) commitDepartment(ctx context.Context) {
	if c.records.Count(record.KindDepartments) == 0 {
		return
	}
	r := c.records.Department(c.list.Cursor())
	dept := selection.ActiveDepartment{
		Name: selection.Some(r.Name),
		ID:   selection.Some(strconv.Itoa(r.ID)),
	}.Escaped()
	if _, err := selection.EncodeDepartment(dept); err != nil {
		log.Printf("menu: department not encodable, keeping previous selection: %v", err)
		return
	}
	c.dept = dept
	if err := c.persister.SaveDepartment(ctx, c.dept); err != nil {
		log.Printf("menu: persisting department failed, keeping unsaved selection: %v", err)
	}
}

// ResetAll clears every call slot and the department and persists the
// cleared state.
func (c *Controller) ResetAll(ctx context.Context) {
	c.calls = [selection.SlotCount]selection.ActiveCall{}
	c.dept = selection.ActiveDepartment{}
	if err := c.persister.SaveCalls(ctx, c.calls); err != nil {
		log.Printf("menu: persisting reset calls failed: %v", err)
	}
	if err := c.persister.SaveDepartment(ctx, c.dept); err != nil {
		log.Printf("menu: persisting reset department failed: %v", err)
	}
}

// Render redraws the current screen.
func (c *Controller) Render() {
	c.display.Clear()
	switch c.state {
	case MainMenu:
		c.renderMain()
	case Settings:
		c.renderList(c.settings.Window(len(settingsLabels)), func(i int) string {
			return settingsLabels[i]
		})
	case CallSlots:
		c.renderList(c.slots.Window(selection.SlotCount+1), c.slotLabel)
	case ChooseCalls:
		c.renderRecords(record.KindCalls, noCallsText)
	case SetDepartment:
		c.renderRecords(record.KindDepartments, noDepartmentsText)
	}
}

func (c *Controller) renderMain() {
	for _, call := range c.calls {
		if !call.Configured() {
			c.display.WriteLine(initialSetupText, c.column, 1, false)
			c.display.WriteLine(pressOKText, c.column, 2, true)
			return
		}
	}
	for i, call := range c.calls {
		if call.Description.Present {
			c.display.WriteLine(fmt.Sprintf("Call %d: %.41s", i+1, call.Description.Value), c.column, i+1, false)
		}
	}
	c.display.WriteLine(settingsText, c.column, selection.SlotCount+1, true)
}

func (c *Controller) slotLabel(i int) string {
	if i >= selection.SlotCount {
		return backText
	}
	call := c.calls[i]
	if call.Configured() && call.Description.Present {
		return call.Description.Value
	}
	return fmt.Sprintf("Choose Call %d", i+1)
}

func (c *Controller) renderRecords(kind record.Kind, emptyText string) {
	count := c.records.Count(kind)
	if count == 0 {
		c.display.WriteLine(emptyText, c.column, 1, false)
		c.display.WriteLine(setOnConsoleText, c.column, 2, false)
		c.display.WriteLine(goBackText, c.column, 3, true)
		return
	}
	c.renderList(c.list.Window(count), func(i int) string {
		return c.records.Label(kind, i)
	})
}

func (c *Controller) renderList(w paginate.Window, label func(int) string) {
	for _, i := range w.Indices() {
		line := w.Line(i)
		c.display.WriteLine(label(i), c.column, line, line == w.Highlight)
	}
}
