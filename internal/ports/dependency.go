package ports

import (
	"context"

	"linkie-web/internal/types"
)

// DependencyRecordSourcePort exposes the latest complete snapshot of
// dependency records. Components are returned in a stable order.
type DependencyRecordSourcePort interface {
	Components(ctx context.Context) ([]types.DependencyComponent, error)
}

// DependencyRefresherPort reloads a source from its backing storage.
type DependencyRefresherPort interface {
	Refresh(ctx context.Context) error
}
