package repositories

import (
	"context"

	"github.com/mroshb/value_matcher/internal/models"
	"github.com/mroshb/value_matcher/pkg/errors"
	"gorm.io/gorm"
)

// ActionRepository stores the append-only feedback log.
type ActionRepository struct {
	db *gorm.DB
}

func NewActionRepository(db *gorm.DB) *ActionRepository {
	return &ActionRepository{db: db}
}

func (r *ActionRepository) RecordAction(ctx context.Context, action *models.UserAction) error {
	if !models.ValidAction(action.Action) {
		return errors.New(errors.ErrCodeValidation, "unknown action "+action.Action)
	}
	if err := r.db.WithContext(ctx).Create(action).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to record action")
	}
	return nil
}

// GetSkippedIDs returns the distinct candidate IDs of the given kind the user skipped.
func (r *ActionRepository) GetSkippedIDs(ctx context.Context, userID uint, kind string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.UserAction{}).
		Where("user_id = ? AND candidate_kind = ? AND action = ?", userID, kind, models.ActionSkip).
		Distinct("candidate_id").
		Pluck("candidate_id", &ids).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get skipped candidates")
	}
	return ids, nil
}

// ListUserActions returns the user's most recent actions first
func (r *ActionRepository) ListUserActions(ctx context.Context, userID uint, limit int) ([]models.UserAction, error) {
	if limit <= 0 || limit > maxListSize {
		limit = maxListSize
	}
	var actions []models.UserAction
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Limit(limit).Find(&actions).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list actions")
	}
	return actions, nil
}
