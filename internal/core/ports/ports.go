package ports

import (
	"context"

	"github.com/plugsync/plugsync/internal/core/domain"
)

// NotificationSink receives update and failure notifications from the
// checker. Implementations decide how to render them; the checker depends
// only on this interface and never on a concrete UI.
type NotificationSink interface {
	Notify(n domain.Notification)
}

// Registry persists which plugins are installed locally and which files each
// installation placed on disk.
type Registry interface {
	// Installed returns the locally installed plugins in registry order.
	Installed(ctx context.Context) ([]domain.LocalPlugin, error)

	// Add records an installed plugin and the files it owns, replacing any
	// previous entry with the same name.
	Add(ctx context.Context, plugin domain.LocalPlugin, files []string) error

	// Remove drops the named plugin from the registry.
	Remove(ctx context.Context, name string) error
}
