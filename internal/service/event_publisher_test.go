package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/repository"
)

func TestNATSEventPublisherSubjects(t *testing.T) {
	publisher := NewNATSEventPublisher(nil, "classroom:events.", testLogger()).(*natsEventPublisher)
	require.Equal(t, "classroom.events.tasks.created", publisher.Subject(ActionTaskCreated))

	bare := NewNATSEventPublisher(nil, "", testLogger()).(*natsEventPublisher)
	require.Equal(t, ActionTaskCreated, bare.Subject(ActionTaskCreated))

	require.NoError(t, publisher.Publish(context.Background(), DomainEvent{Action: ActionTaskCreated}))
}

func TestChangeNotifierSwallowsPublishFailures(t *testing.T) {
	repos := setupRepos(t)
	events := &recordingPublisher{err: errors.New("nats down")}
	notifier := repos.notifier(events, nil)
	ctx := context.Background()

	notifier.Notify(ctx, Change{
		ActorID:        3,
		ActorRole:      RoleTeacher,
		OrganizationID: 7,
		Action:         ActionGroupCreated,
		EntityType:     "group",
		EntityID:       9,
		Metadata:       map[string]interface{}{"name": "<b>Robotics</b>"},
	})

	require.Equal(t, []string{ActionGroupCreated}, events.actions())

	organizationID := uint(7)
	logs, err := repos.activity.List(ctx, repository.ActivityLogFilter{OrganizationID: &organizationID})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, "Robotics", logs[0].Metadata["name"])
	require.NotNil(t, logs[0].EntityID)
	require.Equal(t, uint(9), *logs[0].EntityID)

	var nilNotifier *ChangeNotifier
	nilNotifier.Notify(ctx, Change{Action: ActionGroupCreated})
}
