package services

import (
	"context"

	"github.com/mroshb/value_matcher/internal/models"
	"github.com/mroshb/value_matcher/internal/values"
	"github.com/mroshb/value_matcher/pkg/logger"
)

// How many actions a profile view lists.
const recentActionLimit = 20

type ProfileStore interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	SaveGameProfile(ctx context.Context, userID uint, responses []models.GameResponse, profile models.ValueProfile, prefs models.EnvironmentPreferences) error
	GetGameResponses(ctx context.Context, userID uint) ([]models.GameResponse, error)
}

type ActionHistory interface {
	ListUserActions(ctx context.Context, userID uint, limit int) ([]models.UserAction, error)
}

// ProfileService plays the value discovery game on behalf of a user.
type ProfileService struct {
	users   ProfileStore
	actions ActionHistory
	builder *values.Builder
}

func NewProfileService(users ProfileStore, actions ActionHistory, builder *values.Builder) *ProfileService {
	return &ProfileService{
		users:   users,
		actions: actions,
		builder: builder,
	}
}

// Tiles returns the game board, one entry per round.
func (s *ProfileService) Tiles() []values.Round {
	return s.builder.Board().Rounds()
}

// SubmitGame scores a complete submission and stores it. A rejected submission
// leaves the stored profile untouched.
func (s *ProfileService) SubmitGame(ctx context.Context, userID uint, selections []values.Selection) (*values.Result, error) {
	result, err := s.builder.Build(selections)
	if err != nil {
		logger.Debug("Rejected game submission", "user_id", userID, "error", err)
		return nil, err
	}

	responses := make([]models.GameResponse, 0, len(result.Selections))
	for _, sel := range result.Selections {
		responses = append(responses, models.GameResponse{
			UserID:       userID,
			RoundNumber:  sel.Round,
			SelectedWord: sel.Word,
		})
	}

	if err := s.users.SaveGameProfile(ctx, userID, responses, result.Profile, result.Preferences); err != nil {
		return nil, err
	}

	logger.Info("Value profile created", "user_id", userID, "social_energy", result.Preferences.SocialEnergy)
	return result, nil
}

// GetProfile returns the stored user.
func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

// RecentActions lists the user's latest feedback actions, newest first.
func (s *ProfileService) RecentActions(ctx context.Context, userID uint) ([]models.UserAction, error) {
	return s.actions.ListUserActions(ctx, userID, recentActionLimit)
}

// Selections returns the stored picks of the user's latest game, by round.
func (s *ProfileService) Selections(ctx context.Context, userID uint) ([]values.Selection, error) {
	responses, err := s.users.GetGameResponses(ctx, userID)
	if err != nil {
		return nil, err
	}

	selections := make([]values.Selection, 0, len(responses))
	for _, r := range responses {
		selections = append(selections, values.Selection{Round: r.RoundNumber, Word: r.SelectedWord})
	}
	return selections, nil
}
