package panel

import "andon-console/internal/menu"

// ButtonQueue buffers button presses until the console polls them.
type ButtonQueue struct {
	presses chan menu.Button
}

// NewButtonQueue creates a queue holding at most depth presses.
func NewButtonQueue(depth int) *ButtonQueue {
	if depth <= 0 {
		depth = 1
	}
	return &ButtonQueue{presses: make(chan menu.Button, depth)}
}

// Push enqueues a press. It reports false when the queue is full.
func (q *ButtonQueue) Push(b menu.Button) bool {
	if b == menu.None {
		return true
	}
	select {
	case q.presses <- b:
		return true
	default:
		return false
	}
}

// Poll returns the oldest pending press, or menu.None.
func (q *ButtonQueue) Poll() menu.Button {
	select {
	case b := <-q.presses:
		return b
	default:
		return menu.None
	}
}
