package notify

import "github.com/plugsync/plugsync/internal/core/domain"

// NopSink discards all notifications. Useful for tests and for embedding the
// checker where no notification surface exists.
type NopSink struct{}

// Notify discards the notification.
func (NopSink) Notify(domain.Notification) {}
