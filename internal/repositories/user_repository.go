package repositories

import (
	"context"
	"time"

	"github.com/mroshb/value_matcher/internal/models"
	"github.com/mroshb/value_matcher/pkg/errors"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser creates a new user
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create user")
	}
	return nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// GetUserByTelegramID retrieves a user by Telegram ID
func (r *UserRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// GetOrCreateByTelegramID returns the user bound to a Telegram account, registering
// one on first contact. The bool is true when the user was just created.
func (r *UserRepository) GetOrCreateByTelegramID(ctx context.Context, telegramID int64, fullName string) (*models.User, bool, error) {
	user, err := r.GetUserByTelegramID(ctx, telegramID)
	if err == nil {
		return user, false, nil
	}
	if !errors.HasCode(err, errors.ErrCodeNotFound) {
		return nil, false, err
	}

	tgID := telegramID
	user = &models.User{
		TelegramID: &tgID,
		FullName:   fullName,
	}
	if err := r.CreateUser(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// SaveGameProfile replaces the user's game responses and writes profile, preferences
// and the completion flag in one UPDATE, all inside a single transaction.
func (r *UserRepository) SaveGameProfile(
	ctx context.Context,
	userID uint,
	responses []models.GameResponse,
	profile models.ValueProfile,
	prefs models.EnvironmentPreferences,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.GameResponse{}).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to clear game responses")
		}

		for i := range responses {
			responses[i].ID = 0
			responses[i].UserID = userID
		}
		if len(responses) > 0 {
			if err := tx.Create(&responses).Error; err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "failed to save game responses")
			}
		}

		result := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Select("value_profile", "environment_preferences", "game_completed", "updated_at").
			UpdateColumns(&models.User{
				ValueProfile:           profile,
				EnvironmentPreferences: &prefs,
				GameCompleted:          true,
				UpdatedAt:              time.Now().UTC(),
			})
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update value profile")
		}
		if result.RowsAffected == 0 {
			return errors.New(errors.ErrCodeNotFound, "user not found")
		}

		return nil
	})
}

// GetGameResponses returns the user's latest submission ordered by round
func (r *UserRepository) GetGameResponses(ctx context.Context, userID uint) ([]models.GameResponse, error) {
	var responses []models.GameResponse
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("round_number ASC").Find(&responses).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get game responses")
	}
	return responses, nil
}

// UpdateLastActivity updates user's last activity timestamp
func (r *UserRepository) UpdateLastActivity(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).UpdateColumn("last_activity", time.Now().UTC()).Error
}
