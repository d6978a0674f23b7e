// Package notify is the fire-and-forget notification surface used by the stores for
// mutation confirmations and by the alert engines for low-stock and price-drop alerts.
package notify

import (
	"log"
	"time"
)

// Common display durations.
const (
	DurationShort = 2 * time.Second
	DurationLong  = 5 * time.Second
)

// Action is an optional call-to-action attached to a notification.
type Action struct {
	Label string `json:"label"`
	// Target is a storefront path the presentation layer navigates to.
	Target string `json:"target,omitempty"`
	// OnActivate is invoked in-process when the action is activated.
	OnActivate func() `json:"-"`
}

// Notification is one ephemeral, non-persisted message.
type Notification struct {
	ID       string        `json:"id"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"-"`
	// DurationMs mirrors Duration for JSON clients.
	DurationMs int64     `json:"duration_ms"`
	Action     *Action   `json:"action,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Notifier receives notifications. Implementations must not block the caller.
type Notifier interface {
	Notify(message string, duration time.Duration, action *Action)
}

// LogNotifier writes notifications to the standard logger.
type LogNotifier struct{}

// Notify logs the message.
func (LogNotifier) Notify(message string, duration time.Duration, action *Action) {
	if action != nil && action.Target != "" {
		log.Printf("[Notify] %s (%v) [%s -> %s]", message, duration, action.Label, action.Target)
		return
	}
	log.Printf("[Notify] %s (%v)", message, duration)
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

// Notify forwards to every notifier in order.
func (m Multi) Notify(message string, duration time.Duration, action *Action) {
	for _, n := range m {
		n.Notify(message, duration, action)
	}
}

// Discard drops every notification.
type Discard struct{}

// Notify does nothing.
func (Discard) Notify(string, time.Duration, *Action) {}
