package repositories

import (
	"context"

	"github.com/mroshb/value_matcher/internal/models"
	"github.com/mroshb/value_matcher/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Upper bound on unpaginated list queries.
const maxListSize = 1000

type CommunityRepository struct {
	db *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) *CommunityRepository {
	return &CommunityRepository{db: db}
}

// CreateCommunity inserts the community and enrolls its creator as the first member.
func (r *CommunityRepository) CreateCommunity(ctx context.Context, community *models.Community) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		community.MemberCount = 1
		if err := tx.Create(community).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create community")
		}

		member := &models.CommunityMember{
			CommunityID: community.ID,
			UserID:      community.CreatorID,
			Role:        models.CommunityRoleCreator,
		}
		if err := tx.Create(member).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to add creator as member")
		}

		community.Members = []uint{community.CreatorID}
		return nil
	})
}

// ListCommunities returns communities in creation order
func (r *CommunityRepository) ListCommunities(ctx context.Context) ([]models.Community, error) {
	var communities []models.Community
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Limit(maxListSize).Find(&communities).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list communities")
	}
	return communities, nil
}

// GetCommunityByID loads a community with its member IDs
func (r *CommunityRepository) GetCommunityByID(ctx context.Context, id string) (*models.Community, error) {
	var community models.Community
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&community).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.ErrCodeCandidateNotFound, "community not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get community")
	}

	members, err := r.GetMemberIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	community.Members = members
	return &community, nil
}

// AddMember enrolls a user. It returns false when the user was already a member.
func (r *CommunityRepository) AddMember(ctx context.Context, communityID string, userID uint) (bool, error) {
	added := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Community{}).Where("id = ?", communityID).Count(&count).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to check community")
		}
		if count == 0 {
			return errors.New(errors.ErrCodeCandidateNotFound, "community not found")
		}

		member := &models.CommunityMember{
			CommunityID: communityID,
			UserID:      userID,
			Role:        models.CommunityRoleMember,
		}
		// Existing membership leaves RowsAffected at zero.
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(member)
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to add member")
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if err := tx.Model(&models.Community{}).Where("id = ?", communityID).Update("member_count", gorm.Expr("member_count + 1")).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update member count")
		}
		added = true
		return nil
	})
	return added, err
}

// RemoveMember removes a membership. The counter only moves when a row was deleted.
func (r *CommunityRepository) RemoveMember(ctx context.Context, communityID string, userID uint) (bool, error) {
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("community_id = ? AND user_id = ?", communityID, userID).Delete(&models.CommunityMember{})
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to remove member")
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if err := tx.Model(&models.Community{}).
			Where("id = ? AND member_count > 0", communityID).
			Update("member_count", gorm.Expr("member_count - 1")).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update member count")
		}
		removed = true
		return nil
	})
	return removed, err
}

// GetMemberIDs returns the user IDs enrolled in a community
func (r *CommunityRepository) GetMemberIDs(ctx context.Context, communityID string) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.CommunityMember{}).
		Where("community_id = ?", communityID).
		Order("joined_at ASC").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get community members")
	}
	return ids, nil
}

// GetJoinedIDs returns the IDs of every community the user belongs to
func (r *CommunityRepository) GetJoinedIDs(ctx context.Context, userID uint) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.CommunityMember{}).
		Where("user_id = ?", userID).
		Pluck("community_id", &ids).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get joined communities")
	}
	return ids, nil
}

// GetUserCommunities returns the communities the user belongs to
func (r *CommunityRepository) GetUserCommunities(ctx context.Context, userID uint) ([]models.Community, error) {
	var communities []models.Community
	if err := r.db.WithContext(ctx).
		Joins("JOIN community_members ON community_members.community_id = communities.id").
		Where("community_members.user_id = ?", userID).
		Order("community_members.joined_at ASC").
		Limit(maxListSize).
		Find(&communities).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get user communities")
	}
	return communities, nil
}
