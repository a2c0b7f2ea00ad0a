package repositories

import (
	"context"
	"time"

	"github.com/mroshb/value_matcher/internal/models"
	"github.com/mroshb/value_matcher/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// CreateEvent inserts the event with its creator as the first attendee.
func (r *EventRepository) CreateEvent(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event.AttendeeCount = 1
		if err := tx.Create(event).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create event")
		}

		attendee := &models.EventAttendee{
			EventID: event.ID,
			UserID:  event.CreatorID,
		}
		if err := tx.Create(attendee).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to add creator as attendee")
		}

		event.Attendees = []uint{event.CreatorID}
		return nil
	})
}

// ListEvents returns events in creation order
func (r *EventRepository) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Limit(maxListSize).Find(&events).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list events")
	}
	return events, nil
}

// ListUpcomingEvents returns events dated at or after from, soonest first
func (r *EventRepository) ListUpcomingEvents(ctx context.Context, from time.Time, limit int) ([]models.Event, error) {
	if limit <= 0 || limit > maxListSize {
		limit = maxListSize
	}
	var events []models.Event
	if err := r.db.WithContext(ctx).Where("date >= ?", from).Order("date ASC").Limit(limit).Find(&events).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list upcoming events")
	}
	return events, nil
}

// GetEventByID loads an event with its attendee IDs
func (r *EventRepository) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.ErrCodeCandidateNotFound, "event not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get event")
	}

	attendees, err := r.GetAttendeeIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	event.Attendees = attendees
	return &event, nil
}

// AddAttendee registers attendance. It returns false when the user already attends.
func (r *EventRepository) AddAttendee(ctx context.Context, eventID string, userID uint) (bool, error) {
	added := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Event{}).Where("id = ?", eventID).Count(&count).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to check event")
		}
		if count == 0 {
			return errors.New(errors.ErrCodeCandidateNotFound, "event not found")
		}

		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.EventAttendee{EventID: eventID, UserID: userID})
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to add attendee")
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if err := tx.Model(&models.Event{}).Where("id = ?", eventID).Update("attendee_count", gorm.Expr("attendee_count + 1")).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update attendee count")
		}
		added = true
		return nil
	})
	return added, err
}

// RemoveAttendee cancels attendance. The counter only moves when a row was deleted.
func (r *EventRepository) RemoveAttendee(ctx context.Context, eventID string, userID uint) (bool, error) {
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("event_id = ? AND user_id = ?", eventID, userID).Delete(&models.EventAttendee{})
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to remove attendee")
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if err := tx.Model(&models.Event{}).
			Where("id = ? AND attendee_count > 0", eventID).
			Update("attendee_count", gorm.Expr("attendee_count - 1")).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update attendee count")
		}
		removed = true
		return nil
	})
	return removed, err
}

// GetAttendeeIDs returns the user IDs attending an event
func (r *EventRepository) GetAttendeeIDs(ctx context.Context, eventID string) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.EventAttendee{}).
		Where("event_id = ?", eventID).
		Order("joined_at ASC").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get event attendees")
	}
	return ids, nil
}

// GetAttendingIDs returns the IDs of every event the user attends
func (r *EventRepository) GetAttendingIDs(ctx context.Context, userID uint) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.EventAttendee{}).
		Where("user_id = ?", userID).
		Pluck("event_id", &ids).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get attended events")
	}
	return ids, nil
}
