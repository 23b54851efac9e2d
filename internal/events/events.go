// Package events carries ledger change notifications from writers to open dashboards.
package events

import (
	"civicconnect/backend/internal/models"
	"context"
)

type Publisher interface {
	Publish(ctx context.Context, ev models.LedgerEvent) error
}

// Subscriber delivers events until ctx is cancelled, then closes the channel.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan models.LedgerEvent, error)
}

type Bus interface {
	Publisher
	Subscriber
}
