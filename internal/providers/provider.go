// Package providers holds stateless request/response wrappers around the
// external systems: Google Calendar, Notion, ElevenLabs TTS and the OAuth
// token exchanges. Every call is attempted once; there are no retries.
package providers

import (
	"context"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/models"
)

// Item is one external calendar event or workspace page, normalized for the
// sync reconciler.
type Item struct {
	ExternalID  string
	Title       string
	Description string
	Status      string
	DueDate     *time.Time
}

// SyncProvider is the surface the reconciler needs from an external system.
type SyncProvider interface {
	// System identifies the external system this provider talks to.
	System() models.ExternalSystem

	// ListItems returns the bounded set of upcoming/task-shaped items.
	ListItems(ctx context.Context, integration *models.Integration) ([]Item, error)

	// MarkCompleted propagates a local completion to the external item.
	MarkCompleted(ctx context.Context, integration *models.Integration, externalID string) error
}
