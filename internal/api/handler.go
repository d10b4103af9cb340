package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"andon-console/internal/console"
	"andon-console/internal/panel"
	"andon-console/internal/store"
)

// ConsoleView exposes a read-only view of the running console.
type ConsoleView interface {
	Snapshot() console.Snapshot
}

// Panel groups the host-side panel devices the API drives.
type Panel struct {
	Screen   *panel.Screen
	Buttons  *panel.ButtonQueue
	Switches *panel.CallSwitches
	Lamps    *panel.Lamps
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	webpush *webpush.Options
	console ConsoleView
	panel   Panel
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, webpushOptions *webpush.Options, view ConsoleView, p Panel) *Handler {
	return &Handler{
		store:   s,
		webpush: webpushOptions,
		console: view,
		panel:   p,
	}
}
