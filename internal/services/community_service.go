package services

import (
	"context"

	"github.com/mroshb/value_matcher/internal/models"
	"github.com/mroshb/value_matcher/internal/security"
	"github.com/mroshb/value_matcher/pkg/errors"
	"github.com/mroshb/value_matcher/pkg/logger"
	"github.com/mroshb/value_matcher/pkg/utils"
)

type CommunityStore interface {
	CreateCommunity(ctx context.Context, community *models.Community) error
	ListCommunities(ctx context.Context) ([]models.Community, error)
	GetCommunityByID(ctx context.Context, id string) (*models.Community, error)
	AddMember(ctx context.Context, communityID string, userID uint) (bool, error)
	RemoveMember(ctx context.Context, communityID string, userID uint) (bool, error)
	GetUserCommunities(ctx context.Context, userID uint) ([]models.Community, error)
}

type ActionRecorder interface {
	RecordAction(ctx context.Context, action *models.UserAction) error
}

// CreateCommunityInput is the user supplied part of a new community.
type CreateCommunityInput struct {
	Name                string              `json:"name"`
	Description         string              `json:"description"`
	Image               string              `json:"image"`
	Category            string              `json:"category"`
	ValueProfile        models.ValueProfile `json:"value_profile"`
	EnvironmentSettings map[string]string   `json:"environment_settings"`
}

type CommunityService struct {
	repo    CommunityStore
	actions ActionRecorder
}

func NewCommunityService(repo CommunityStore, actions ActionRecorder) *CommunityService {
	return &CommunityService{
		repo:    repo,
		actions: actions,
	}
}

func (s *CommunityService) CreateCommunity(ctx context.Context, creatorID uint, in CreateCommunityInput) (*models.Community, error) {
	name := security.SanitizeText(in.Name, security.MaxNameLength)
	if name == "" {
		return nil, errors.New(errors.ErrCodeValidation, "community name is required")
	}
	if !security.ValidateImageURL(in.Image) {
		return nil, errors.New(errors.ErrCodeValidation, "image must be an http(s) URL")
	}
	if !in.ValueProfile.InRange() {
		return nil, errors.New(errors.ErrCodeValidation, "value profile entries must be between 0 and 1")
	}

	settings := make(map[string]string, len(in.EnvironmentSettings))
	for k, v := range in.EnvironmentSettings {
		key := security.SanitizeText(k, security.MaxShortFieldLength)
		if key == "" {
			continue
		}
		settings[key] = security.SanitizeText(v, security.MaxShortFieldLength)
	}

	community := &models.Community{
		ID:                  utils.NewPublicID("comm"),
		Name:                name,
		Description:         security.SanitizeText(in.Description, security.MaxDescriptionLength),
		Image:               in.Image,
		Category:            security.SanitizeText(in.Category, security.MaxShortFieldLength),
		CreatorID:           creatorID,
		ValueProfile:        in.ValueProfile,
		EnvironmentSettings: settings,
	}
	if community.ValueProfile == nil {
		community.ValueProfile = models.ValueProfile{}
	}

	if err := s.repo.CreateCommunity(ctx, community); err != nil {
		return nil, err
	}

	logger.Info("Community created", "community_id", community.ID, "creator_id", creatorID)
	return community, nil
}

func (s *CommunityService) ListCommunities(ctx context.Context) ([]models.Community, error) {
	return s.repo.ListCommunities(ctx)
}

func (s *CommunityService) GetCommunity(ctx context.Context, id string) (*models.Community, error) {
	return s.repo.GetCommunityByID(ctx, id)
}

// Join adds the user to a community. It reports false when the user was already a member.
func (s *CommunityService) Join(ctx context.Context, userID uint, communityID string) (bool, error) {
	added, err := s.repo.AddMember(ctx, communityID, userID)
	if err != nil {
		return false, err
	}
	if added {
		s.record(ctx, userID, communityID, models.ActionJoin)
	}
	return added, nil
}

// Leave removes the user from a community. Leaving a community the user is not in is a no-op.
func (s *CommunityService) Leave(ctx context.Context, userID uint, communityID string) (bool, error) {
	removed, err := s.repo.RemoveMember(ctx, communityID, userID)
	if err != nil {
		return false, err
	}
	if removed {
		s.record(ctx, userID, communityID, models.ActionLeave)
	}
	return removed, nil
}

// Skip records negative feedback so the community ranks lower next time.
func (s *CommunityService) Skip(ctx context.Context, userID uint, communityID string) error {
	if _, err := s.repo.GetCommunityByID(ctx, communityID); err != nil {
		return err
	}
	return s.actions.RecordAction(ctx, &models.UserAction{
		UserID:        userID,
		CandidateKind: models.KindCommunity,
		CandidateID:   communityID,
		Action:        models.ActionSkip,
	})
}

func (s *CommunityService) MyCommunities(ctx context.Context, userID uint) ([]models.Community, error) {
	return s.repo.GetUserCommunities(ctx, userID)
}

// record logs membership changes. The change itself is already committed, so a
// failure here is only logged.
func (s *CommunityService) record(ctx context.Context, userID uint, communityID, action string) {
	err := s.actions.RecordAction(ctx, &models.UserAction{
		UserID:        userID,
		CandidateKind: models.KindCommunity,
		CandidateID:   communityID,
		Action:        action,
	})
	if err != nil {
		logger.Warn("Failed to record community action", "user_id", userID, "community_id", communityID, "action", action, "error", err)
	}
}
