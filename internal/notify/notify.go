// Package notify is the user-facing message channel. Every failure the
// storefront recovers from locally ends up here as a transient notification.
package notify

import (
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Messages shown to the shopper
const (
	MsgBackendFailure = "Something went wrong. Check the backend console for more details"
	MsgCartFailure    = "Something went wrong"
	MsgLoginRequired  = "Login to add an item to the Cart"
	MsgAlreadyInCart  = "Item already in cart. Use the cart sidebar to update quantity or remove item."
)

type Notification struct {
	ID        string
	Severity  Severity
	Message   string
	CreatedAt time.Time
}

// Notifier accepts user-visible messages
type Notifier interface {
	Notify(severity Severity, message string)
}

func newNotification(severity Severity, message string, now time.Time) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Severity:  severity,
		Message:   message,
		CreatedAt: now,
	}
}

// Log writes notifications through logrus; used by the one-shot CLI commands
type Log struct{}

func (Log) Notify(severity Severity, message string) {
	switch severity {
	case SeverityError:
		log.Errorf("❌ %s", message)
	default:
		log.Warnf("⚠️ %s", message)
	}
}

// Multi fans a notification out to several notifiers
type Multi []Notifier

func (m Multi) Notify(severity Severity, message string) {
	for _, n := range m {
		n.Notify(severity, message)
	}
}
