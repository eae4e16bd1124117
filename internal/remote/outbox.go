// Package remote drives the mapbox-gl runtime in the browser.
//
// Every map, compare and draw call becomes a Command queued in the session
// Outbox; the explorer SSE stream drains the outbox and ships the commands as
// a Datastar script. Events flowing the other way (style loaded, view moved,
// draw lifecycle) are fed back through Backend.ReportView and Draw.Receive.
package remote

import (
	"encoding/json"
	"sync"
)

// Command is one call on a browser-side object.
type Command struct {
	Target string `json:"target"` // map id, "compare-control" or "draw"
	Op     string `json:"op"`
	Args   any    `json:"args,omitempty"`
}

// Outbox is an ordered command queue with a coalescing wakeup channel.
// Commands are never dropped.
type Outbox struct {
	mu      sync.Mutex
	pending []Command
	notify  chan struct{}
}

// NewOutbox creates an empty outbox.
func NewOutbox() *Outbox {
	return &Outbox{notify: make(chan struct{}, 1)}
}

// Push appends a command and wakes the consumer.
func (o *Outbox) Push(c Command) {
	o.mu.Lock()
	o.pending = append(o.pending, c)
	o.mu.Unlock()

	select {
	case o.notify <- struct{}{}:
	default: // already signaled
	}
}

// Ready is signaled after a push.
func (o *Outbox) Ready() <-chan struct{} {
	return o.notify
}

// Drain returns all pending commands in push order and empties the queue.
func (o *Outbox) Drain() []Command {
	o.mu.Lock()
	defer o.mu.Unlock()
	cmds := o.pending
	o.pending = nil
	return cmds
}

// Len returns the number of pending commands.
func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

// Script renders commands as a call into the browser runtime.
func Script(cmds []Command) (string, error) {
	data, err := json.Marshal(cmds)
	if err != nil {
		return "", err
	}
	return "window.explorer.apply(" + string(data) + ")", nil
}
