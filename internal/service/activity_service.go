package service

import (
	"context"

	"digestly-be/internal/dto"
	"digestly-be/internal/entity"
	"digestly-be/internal/pkg/logger"
	"digestly-be/internal/repository/specification"
	"digestly-be/internal/repository/unitofwork"
	"digestly-be/pkg/apperror"
	"digestly-be/pkg/events"
	pktNats "digestly-be/pkg/nats"

	"github.com/google/uuid"
)

const activityDurableName = "digest-activity"

// EventSubscriber is implemented by the NATS subscriber.
type EventSubscriber interface {
	Subscribe(subject string, durableName string, handler pktNats.EventHandler) error
}

type IActivityService interface {
	Start(sub EventSubscriber) error
	HandleEvent(ctx context.Context, event events.Event) error
	GetActivity(ctx context.Context, teamId, digestId uuid.UUID, q dto.ActivityQuery) ([]dto.ActivityResponse, error)
}

type activityService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewActivityService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IActivityService {
	return &activityService{uowFactory: uowFactory, logger: log}
}

func (s *activityService) Start(sub EventSubscriber) error {
	return sub.Subscribe(pktNats.SubjectPrefix+">", activityDurableName, s.HandleEvent)
}

// HandleEvent records a digest event in the activity feed. Events without digest ids are skipped.
func (s *activityService) HandleEvent(ctx context.Context, event events.Event) error {
	teamId, digestId, err := events.DigestIDs(event)
	if err != nil {
		s.logger.Debug("Activity", "Skipping event without digest ids", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	metadata := make(map[string]interface{}, len(event.Payload()))
	for k, v := range event.Payload() {
		if k == "team_id" || k == "digest_id" {
			continue
		}
		metadata[k] = v
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.DigestActivityRepository().Create(ctx, &entity.DigestActivity{
		Id:        uuid.New(),
		DigestId:  digestId,
		TeamId:    teamId,
		Type:      event.EventType(),
		Metadata:  metadata,
		CreatedAt: event.Timestamp(),
	})
}

func (s *activityService) GetActivity(ctx context.Context, teamId, digestId uuid.UUID, q dto.ActivityQuery) ([]dto.ActivityResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	digest, err := uow.DigestRepository().FindOne(ctx,
		specification.ByID{ID: digestId},
		specification.ByTeamID{TeamID: teamId},
	)
	if err != nil {
		return nil, err
	}
	if digest == nil {
		return nil, apperror.NotFound("digest not found")
	}

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	activities, err := uow.DigestActivityRepository().FindAll(ctx,
		specification.ByDigestID{DigestID: digestId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.ActivityResponse, len(activities))
	for i, a := range activities {
		res[i] = toActivityResponse(a)
	}
	return res, nil
}
