package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Change describes a committed write in an organization.
type Change struct {
	ActorID        uint
	ActorRole      string
	OrganizationID uint
	Action         string
	EntityType     string
	EntityID       uint
	Metadata       map[string]interface{}
}

// ChangeNotifier fans a committed write out to the activity log, the event
// bus and the dashboard cache. Failures are logged and never surface to the
// caller. Every collaborator is optional.
type ChangeNotifier struct {
	activity ActivityService
	events   EventPublisher
	cache    *DashboardCache
	logger   zerolog.Logger
	now      func() time.Time
}

// NewChangeNotifier constructs a ChangeNotifier.
func NewChangeNotifier(activity ActivityService, events EventPublisher, cache *DashboardCache, logger zerolog.Logger) *ChangeNotifier {
	return &ChangeNotifier{
		activity: activity,
		events:   events,
		cache:    cache,
		logger:   logger.With().Str("component", "change_notifier").Logger(),
		now:      time.Now,
	}
}

// Notify propagates the change.
func (n *ChangeNotifier) Notify(ctx context.Context, change Change) {
	if n == nil {
		return
	}

	n.cache.InvalidateOrganization(ctx, change.OrganizationID)

	if n.activity != nil {
		// Record already logs its own failures.
		_ = n.activity.Record(ctx, ActivityEntry{
			ActorID:        change.ActorID,
			ActorRole:      change.ActorRole,
			OrganizationID: change.OrganizationID,
			Action:         change.Action,
			EntityType:     change.EntityType,
			EntityID:       change.EntityID,
			Metadata:       change.Metadata,
		})
	}

	if n.events != nil {
		event := DomainEvent{
			Action:         change.Action,
			OrganizationID: change.OrganizationID,
			ActorID:        change.ActorID,
			ActorRole:      change.ActorRole,
			EntityType:     change.EntityType,
			EntityID:       change.EntityID,
			Data:           change.Metadata,
			OccurredAt:     n.now().UTC(),
		}
		if err := n.events.Publish(ctx, event); err != nil {
			n.logger.Warn().Err(err).Str("action", change.Action).Msg("failed to publish domain event")
		}
	}
}

// Invalidate drops cached snapshots of an organization without recording a change.
func (n *ChangeNotifier) Invalidate(ctx context.Context, organizationID uint) {
	if n == nil {
		return
	}
	n.cache.InvalidateOrganization(ctx, organizationID)
}
