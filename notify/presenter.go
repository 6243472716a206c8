package notify

import (
	"context"
	"sync"
	"time"
)

// DefaultDisplayDuration is how long a notification stays visible before
// its automatic dismissal.
const DefaultDisplayDuration = 3000 * time.Millisecond

// Presenter tracks the set of currently visible notifications. Each shown
// notification is dismissed automatically after the display duration,
// independent of other notifications' timers; manual dismissal cancels the
// pending auto-dismiss.
type Presenter struct {
	mu       sync.Mutex
	duration time.Duration
	visible  []Notification
	timers   map[string]*time.Timer
}

// PresenterOption defines a function type to modify the Presenter instance.
type PresenterOption func(*Presenter)

// WithDisplayDuration overrides the auto-dismiss delay (primarily for
// testing).
func WithDisplayDuration(d time.Duration) PresenterOption {
	return func(p *Presenter) {
		p.duration = d
	}
}

// NewPresenter creates a new Presenter.
func NewPresenter(options ...PresenterOption) *Presenter {
	p := &Presenter{
		duration: DefaultDisplayDuration,
		timers:   make(map[string]*time.Timer),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Run consumes notifications from ch until ctx is cancelled, showing each
// one as it arrives.
func (p *Presenter) Run(ctx context.Context, ch <-chan Notification) {
	for {
		select {
		case <-ctx.Done():
			return
		case notification, ok := <-ch:
			if !ok {
				return
			}
			p.Show(notification)
		}
	}
}

// Show makes a notification visible and schedules its auto-dismiss.
func (p *Presenter) Show(notification Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.visible = append(p.visible, notification)
	p.timers[notification.ID] = time.AfterFunc(p.duration, func() {
		p.Dismiss(notification.ID)
	})
}

// Dismiss removes a notification before (or when) its timer elapses. The
// pending auto-dismiss timer is stopped so a manual dismissal never fires
// twice.
func (p *Presenter) Dismiss(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if timer, ok := p.timers[id]; ok {
		timer.Stop()
		delete(p.timers, id)
	}
	for i, n := range p.visible {
		if n.ID == id {
			p.visible = append(p.visible[:i], p.visible[i+1:]...)
			return
		}
	}
}

// Visible returns the currently visible notifications in display order.
func (p *Presenter) Visible() []Notification {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Notification, len(p.visible))
	copy(out, p.visible)
	return out
}

// Close stops all pending timers. Call on teardown so no timer fires
// against a disposed consumer.
func (p *Presenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, timer := range p.timers {
		timer.Stop()
		delete(p.timers, id)
	}
	p.visible = nil
}
