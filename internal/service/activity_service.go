package service

import (
	"context"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
)

// ActivityEntry describes an auditable write.
type ActivityEntry struct {
	ActorID        uint
	ActorRole      string
	OrganizationID uint
	Action         string
	EntityType     string
	EntityID       uint
	Metadata       map[string]interface{}
}

// ActivityService persists and lists audit entries.
type ActivityService interface {
	Record(ctx context.Context, entry ActivityEntry) error
	List(ctx context.Context, organizationID uint, limit int) ([]models.ActivityLog, error)
}

type activityService struct {
	repo      repository.ActivityLogRepository
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewActivityService constructs an ActivityService.
func NewActivityService(repo repository.ActivityLogRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:      repo,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) error {
	metadata := datatypes.JSONMap{}
	for key, value := range entry.Metadata {
		if text, ok := value.(string); ok {
			value = sanitizeText(s.sanitizer, text)
		}
		metadata[key] = value
	}

	log := models.ActivityLog{
		ActorID:    entry.ActorID,
		ActorRole:  entry.ActorRole,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		Metadata:   metadata,
	}
	if entry.OrganizationID != 0 {
		organizationID := entry.OrganizationID
		log.OrganizationID = &organizationID
	}
	if entry.EntityID != 0 {
		entityID := entry.EntityID
		log.EntityID = &entityID
	}

	if err := s.repo.Create(ctx, &log); err != nil {
		s.logger.Error().Err(err).Str("action", entry.Action).Msg("failed to record activity")
		return err
	}
	return nil
}

func (s *activityService) List(ctx context.Context, organizationID uint, limit int) ([]models.ActivityLog, error) {
	filter := repository.ActivityLogFilter{Limit: limit}
	if organizationID != 0 {
		filter.OrganizationID = &organizationID
	}
	return s.repo.List(ctx, filter)
}
