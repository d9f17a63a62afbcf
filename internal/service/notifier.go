package service

import "context"

type NotificationLevel string

const (
	NotifyInfo    NotificationLevel = "info"
	NotifySuccess NotificationLevel = "success"
	NotifyWarning NotificationLevel = "warning"
	NotifyError   NotificationLevel = "error"
)

// Notification is a user-facing message raised by a service after a state
// change, e.g. "Scenario saved".
type Notification struct {
	Level   NotificationLevel
	Title   string
	Message string
}

// Notifier delivers notifications to whatever surface the caller runs in.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NoopNotifier drops all notifications.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Notification) {}

func notifierOrNoop(n Notifier) Notifier {
	if n == nil {
		return NoopNotifier{}
	}
	return n
}
