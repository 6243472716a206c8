package notify

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const subscriberBuffer = 100

// Emitter fans notifications out to subscribers. It holds no history.
type Emitter struct {
	mu   sync.RWMutex
	subs []chan Notification
	log  zerolog.Logger
}

// EmitterOption defines a function type to modify the Emitter instance.
type EmitterOption func(*Emitter)

// WithLogger sets the structured logger (defaults to a no-op logger).
func WithLogger(log zerolog.Logger) EmitterOption {
	return func(e *Emitter) {
		e.log = log
	}
}

// NewEmitter creates a new Emitter.
func NewEmitter(options ...EmitterOption) *Emitter {
	e := &Emitter{log: zerolog.Nop()}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// Subscribe creates a channel receiving every notification emitted after
// this call. The caller must Unsubscribe on teardown.
func (e *Emitter) Subscribe() chan Notification {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch := make(chan Notification, subscriberBuffer)
	e.subs = append(e.subs, ch)
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (e *Emitter) Unsubscribe(ch chan Notification) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, sub := range e.subs {
		if sub == ch {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			close(ch)
			return
		}
	}
}

// EmitSuccess publishes a success notification. An empty message list is
// replaced with the default success message.
func (e *Emitter) EmitSuccess(messages []string) Notification {
	return e.emit(KindSuccess, messages)
}

// EmitError publishes an error notification. An empty message list is
// replaced with the default error message.
func (e *Emitter) EmitError(messages []string) Notification {
	return e.emit(KindError, messages)
}

func (e *Emitter) emit(kind Kind, messages []string) Notification {
	if len(messages) == 0 {
		if kind == KindError {
			messages = []string{DefaultErrorMessage}
		} else {
			messages = []string{DefaultSuccessMessage}
		}
	}

	notification := Notification{
		ID:       uuid.NewString(),
		Kind:     kind,
		Messages: messages,
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, ch := range e.subs {
		select {
		case ch <- notification:
		default:
			// No backpressure: a subscriber that stopped draining its
			// channel misses the notification rather than blocking the
			// emitting flow.
			e.log.Warn().
				Str("notification_id", notification.ID).
				Str("kind", string(kind)).
				Msg("notification dropped: subscriber buffer full")
		}
	}

	return notification
}
