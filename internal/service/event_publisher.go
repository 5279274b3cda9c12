package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classroom-api/internal/observability"
)

// Event actions published after successful writes.
const (
	ActionOrganizationCreated = "organizations.created"
	ActionOrganizationJoined  = "organizations.joined"
	ActionGroupCreated        = "groups.created"
	ActionGroupAssigned       = "groups.assigned"
	ActionTaskCreated         = "tasks.created"
	ActionSubmissionUploaded  = "submissions.uploaded"
)

// DomainEvent is the JSON payload published for each write.
type DomainEvent struct {
	Action         string                 `json:"action"`
	OrganizationID uint                   `json:"organization_id"`
	ActorID        uint                   `json:"actor_id"`
	ActorRole      string                 `json:"actor_role"`
	EntityType     string                 `json:"entity_type"`
	EntityID       uint                   `json:"entity_id"`
	Data           map[string]interface{} `json:"data,omitempty"`
	OccurredAt     time.Time              `json:"occurred_at"`
}

// EventPublisher broadcasts domain events.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}

type natsEventPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSEventPublisher publishes events to "<subjectBase>.<action>". A nil
// connection turns Publish into a no-op.
func NewNATSEventPublisher(conn *nats.Conn, subjectBase string, logger zerolog.Logger) EventPublisher {
	return &natsEventPublisher{
		conn:    conn,
		subject: strings.Trim(strings.ReplaceAll(subjectBase, ":", "."), "."),
		logger:  logger.With().Str("component", "event_publisher").Logger(),
	}
}

// Subject returns the NATS subject used for an action.
func (p *natsEventPublisher) Subject(action string) string {
	if p.subject == "" {
		return action
	}
	return p.subject + "." + action
}

func (p *natsEventPublisher) Publish(ctx context.Context, event DomainEvent) error {
	if p.conn == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(p.Subject(event.Action), payload); err != nil {
		observability.DomainEvents().WithLabelValues(event.Action, "error").Inc()
		return err
	}
	observability.DomainEvents().WithLabelValues(event.Action, "published").Inc()
	return nil
}
