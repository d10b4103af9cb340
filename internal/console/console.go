// Package console runs the cooperative poll loop that ties buttons, call
// switches, lamps and telemetry to the menu controller.
package console

import (
	"context"
	"log"
	"sync"
	"time"

	"andon-console/internal/menu"
	"andon-console/internal/notification"
	"andon-console/internal/record"
	"andon-console/internal/selection"
	"andon-console/internal/telemetry"
)

// Input is polled once per tick for a debounced button event.
type Input interface {
	Poll() menu.Button
}

// Backlight switches the display backlight.
type Backlight interface {
	SetBacklight(on bool)
}

// CallInputs reports the state of the call switches.
type CallInputs interface {
	Pressed() [selection.SlotCount]bool
}

// Lamps drives the indicator lamps.
type Lamps interface {
	SetLamp(slot int, on bool)
}

// Alerter receives a call alert on each switch press.
type Alerter interface {
	Dispatch(alert notification.Alert) bool
}

// Publisher sends telemetry frames.
type Publisher interface {
	Publish(ctx context.Context, f telemetry.Frame) error
}

// Deps are the collaborators of a Runner. Alerts and Telemetry may be nil.
type Deps struct {
	Controller *menu.Controller
	Records    *record.Store
	Display    menu.Display
	Input      Input
	Backlight  Backlight
	Switches   CallInputs
	Lamps      Lamps
	Alerts     Alerter
	Telemetry  Publisher
}

// Options holds the loop timing.
type Options struct {
	ConsoleID         int
	PollInterval      time.Duration
	IdlePolls         int
	TelemetryInterval time.Duration
}

// Snapshot is a read-only copy of the console state.
type Snapshot struct {
	Awake       bool
	State       menu.State
	Slot        int
	Cursor      int
	Calls       [selection.SlotCount]selection.ActiveCall
	Department  selection.ActiveDepartment
	Pressed     [selection.SlotCount]bool
	CallRecords []record.CallRecord
	Departments []record.DeptRecord
}

// Runner owns the controller and serializes every access to it.
type Runner struct {
	deps Deps
	opts Options
	now  func() time.Time

	mu          sync.Mutex
	awake       bool
	idle        int
	pressed     [selection.SlotCount]bool
	lastPublish time.Time
	failing     bool
}

// New creates a runner. The console starts asleep.
func New(deps Deps, opts Options) *Runner {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 500 * time.Millisecond
	}
	if opts.IdlePolls <= 0 {
		opts.IdlePolls = 15
	}
	if opts.TelemetryInterval <= 0 {
		opts.TelemetryInterval = time.Second
	}
	return &Runner{deps: deps, opts: opts, now: time.Now}
}

// Run ticks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	log.Printf("Console %d polling every %s", r.opts.ConsoleID, r.opts.PollInterval)
	r.deps.Backlight.SetBacklight(false)

	ticker := time.NewTicker(r.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Console loop shutting down.")
			r.mu.Lock()
			r.sleep()
			r.mu.Unlock()
			return
		case <-ticker.C:
			r.Tick(ctx)
		}
	}
}

// Tick performs one poll cycle.
func (r *Runner) Tick(ctx context.Context) {
	r.mu.Lock()
	r.handleButton(ctx, r.deps.Input.Poll())
	r.sampleCalls()
	frame, publish := r.dueFrame()
	r.mu.Unlock()

	if publish {
		r.publish(ctx, frame)
	}
}

func (r *Runner) handleButton(ctx context.Context, b menu.Button) {
	if !r.awake {
		if b == menu.Select {
			r.wake()
		}
		return
	}

	if b != menu.None {
		r.idle = 0
		r.deps.Controller.Handle(ctx, b)
		return
	}

	// Only the main menu times out.
	if r.deps.Controller.State() != menu.MainMenu {
		return
	}
	r.idle++
	if r.idle >= r.opts.IdlePolls {
		r.sleep()
	}
}

func (r *Runner) wake() {
	r.awake = true
	r.idle = 0
	r.deps.Backlight.SetBacklight(true)
	r.deps.Controller.Home()
	r.deps.Controller.Render()
}

func (r *Runner) sleep() {
	r.awake = false
	r.idle = 0
	r.deps.Display.Clear()
	r.deps.Backlight.SetBacklight(false)
}

// sampleCalls mirrors the switches onto the lamps and raises an alert on
// every rising edge.
func (r *Runner) sampleCalls() {
	pressed := r.deps.Switches.Pressed()
	calls := r.deps.Controller.Calls()
	dept := r.deps.Controller.Department()

	for i, on := range pressed {
		r.deps.Lamps.SetLamp(i, on)
		if !on || r.pressed[i] {
			continue
		}
		log.Printf("Call %d raised (%s)", i+1, calls[i].Status.Or(telemetry.Undefined))
		if r.deps.Alerts != nil {
			r.deps.Alerts.Dispatch(notification.Alert{
				ConsoleID:   r.opts.ConsoleID,
				Slot:        i,
				Department:  dept.ID.Value,
				Status:      calls[i].Status.Or(telemetry.Undefined),
				Description: calls[i].Description.Value,
				Recipient:   calls[i].Recipient.Value,
				RaisedAt:    r.now().UTC(),
			})
		}
	}
	r.pressed = pressed
}

func (r *Runner) dueFrame() (telemetry.Frame, bool) {
	if r.deps.Telemetry == nil {
		return telemetry.Frame{}, false
	}
	now := r.now()
	if !r.lastPublish.IsZero() && now.Sub(r.lastPublish) < r.opts.TelemetryInterval {
		return telemetry.Frame{}, false
	}
	r.lastPublish = now
	return telemetry.BuildFrame(r.opts.ConsoleID, r.deps.Controller.Calls(), r.deps.Controller.Department(), r.pressed, now), true
}

func (r *Runner) publish(ctx context.Context, f telemetry.Frame) {
	err := r.deps.Telemetry.Publish(ctx, f)

	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case err != nil && !r.failing:
		log.Printf("Telemetry publish failed: %v", err)
		r.failing = true
	case err == nil && r.failing:
		log.Println("Telemetry publish recovered.")
		r.failing = false
	}
}

// Snapshot returns a consistent copy of the console state.
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctl := r.deps.Controller
	return Snapshot{
		Awake:       r.awake,
		State:       ctl.State(),
		Slot:        ctl.Slot(),
		Cursor:      ctl.Cursor(),
		Calls:       ctl.Calls(),
		Department:  ctl.Department(),
		Pressed:     r.pressed,
		CallRecords: r.deps.Records.Calls(),
		Departments: r.deps.Records.Departments(),
	}
}
