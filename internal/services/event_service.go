package services

import (
	"context"
	"time"

	"github.com/mroshb/value_matcher/internal/models"
	"github.com/mroshb/value_matcher/internal/security"
	"github.com/mroshb/value_matcher/pkg/errors"
	"github.com/mroshb/value_matcher/pkg/logger"
	"github.com/mroshb/value_matcher/pkg/utils"
)

type EventStore interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	ListEvents(ctx context.Context) ([]models.Event, error)
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
	AddAttendee(ctx context.Context, eventID string, userID uint) (bool, error)
	RemoveAttendee(ctx context.Context, eventID string, userID uint) (bool, error)
}

// CreateEventInput is the user supplied part of a new event.
type CreateEventInput struct {
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	EventType    string              `json:"event_type"`
	Date         time.Time           `json:"date"`
	Location     string              `json:"location"`
	Image        string              `json:"image"`
	ValueProfile models.ValueProfile `json:"value_profile"`
	Tags         []string            `json:"tags"`
}

type EventService struct {
	repo    EventStore
	actions ActionRecorder
}

func NewEventService(repo EventStore, actions ActionRecorder) *EventService {
	return &EventService{
		repo:    repo,
		actions: actions,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, creatorID uint, in CreateEventInput) (*models.Event, error) {
	name := security.SanitizeText(in.Name, security.MaxNameLength)
	if name == "" {
		return nil, errors.New(errors.ErrCodeValidation, "event name is required")
	}
	eventType := security.SanitizeText(in.EventType, security.MaxShortFieldLength)
	if eventType == "" {
		return nil, errors.New(errors.ErrCodeValidation, "event type is required")
	}
	if in.Date.IsZero() {
		return nil, errors.New(errors.ErrCodeValidation, "event date is required")
	}
	if !security.ValidateImageURL(in.Image) {
		return nil, errors.New(errors.ErrCodeValidation, "image must be an http(s) URL")
	}
	if !in.ValueProfile.InRange() {
		return nil, errors.New(errors.ErrCodeValidation, "value profile entries must be between 0 and 1")
	}

	event := &models.Event{
		ID:           utils.NewPublicID("event"),
		Name:         name,
		Description:  security.SanitizeText(in.Description, security.MaxDescriptionLength),
		EventType:    eventType,
		Date:         in.Date.UTC(),
		Location:     security.SanitizeText(in.Location, security.MaxNameLength),
		Image:        in.Image,
		CreatorID:    creatorID,
		ValueProfile: in.ValueProfile,
		Tags:         security.SanitizeTags(in.Tags),
	}
	if event.ValueProfile == nil {
		event.ValueProfile = models.ValueProfile{}
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return nil, err
	}

	logger.Info("Event created", "event_id", event.ID, "creator_id", creatorID, "date", event.Date)
	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.repo.ListEvents(ctx)
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return s.repo.GetEventByID(ctx, id)
}

// Attend registers the user for an event. It reports false when the user already attends.
func (s *EventService) Attend(ctx context.Context, userID uint, eventID string) (bool, error) {
	added, err := s.repo.AddAttendee(ctx, eventID, userID)
	if err != nil {
		return false, err
	}
	if added {
		s.record(ctx, userID, eventID, models.ActionAttend)
	}
	return added, nil
}

// Cancel withdraws attendance. Cancelling an event the user does not attend is a no-op.
func (s *EventService) Cancel(ctx context.Context, userID uint, eventID string) (bool, error) {
	removed, err := s.repo.RemoveAttendee(ctx, eventID, userID)
	if err != nil {
		return false, err
	}
	if removed {
		s.record(ctx, userID, eventID, models.ActionCancel)
	}
	return removed, nil
}

// Skip records negative feedback for an event.
func (s *EventService) Skip(ctx context.Context, userID uint, eventID string) error {
	if _, err := s.repo.GetEventByID(ctx, eventID); err != nil {
		return err
	}
	return s.actions.RecordAction(ctx, &models.UserAction{
		UserID:        userID,
		CandidateKind: models.KindEvent,
		CandidateID:   eventID,
		Action:        models.ActionSkip,
	})
}

func (s *EventService) record(ctx context.Context, userID uint, eventID, action string) {
	err := s.actions.RecordAction(ctx, &models.UserAction{
		UserID:        userID,
		CandidateKind: models.KindEvent,
		CandidateID:   eventID,
		Action:        action,
	})
	if err != nil {
		logger.Warn("Failed to record event action", "user_id", userID, "event_id", eventID, "action", action, "error", err)
	}
}
