// Package notify is the broadcast channel for transient user-facing
// messages. Emission is fire-and-forget: every active subscriber receives
// every notification once, in emission order, and late subscribers never
// see past notifications.
package notify

// Kind classifies a notification for display.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Default messages substituted when a notification is emitted with no
// messages at all.
const (
	DefaultSuccessMessage = "That worked!"
	DefaultErrorMessage   = "An error has occurred"
)

// Notification is an ephemeral value object. It is never mutated after
// creation and has no identity beyond its ID.
type Notification struct {
	ID       string
	Kind     Kind
	Messages []string
}
