package handlers

import (
	"context"
	"time"

	"github.com/mroshb/value_matcher/internal/config"
	"github.com/mroshb/value_matcher/internal/models"
	"github.com/mroshb/value_matcher/internal/services"
)

// UserAccounts resolves Telegram senders to stored users.
type UserAccounts interface {
	GetOrCreateByTelegramID(ctx context.Context, telegramID int64, fullName string) (*models.User, bool, error)
	UpdateLastActivity(ctx context.Context, userID uint) error
}

type HandlerManager struct {
	Config      *config.Config
	Users       UserAccounts
	Profiles    *services.ProfileService
	Communities *services.CommunityService
	Events      *services.EventService
	Matches     *services.MatchService

	// Upper bound for a single update's service calls.
	timeout time.Duration
}

func NewHandlerManager(
	cfg *config.Config,
	users UserAccounts,
	profiles *services.ProfileService,
	communities *services.CommunityService,
	events *services.EventService,
	matches *services.MatchService,
) *HandlerManager {
	return &HandlerManager{
		Config:      cfg,
		Users:       users,
		Profiles:    profiles,
		Communities: communities,
		Events:      events,
		Matches:     matches,
		timeout:     cfg.GetRequestTimeout(),
	}
}

func (h *HandlerManager) requestContext() (context.Context, context.CancelFunc) {
	timeout := h.timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}
