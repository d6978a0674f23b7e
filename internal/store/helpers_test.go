package store

import (
	"sync"
	"time"

	"storefront-state-api/internal/notify"
)

type sentNotification struct {
	Message string
	Action  *notify.Action
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (r *recordingNotifier) Notify(message string, _ time.Duration, action *notify.Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentNotification{Message: message, Action: action})
}

func (r *recordingNotifier) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.sent))
	for i, s := range r.sent {
		out[i] = s.Message
	}
	return out
}
