package handlers

import (
	"fmt"
	"html"
	"math"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mroshb/value_matcher/internal/models"
	"github.com/mroshb/value_matcher/internal/security"
	"github.com/mroshb/value_matcher/internal/values"
	"github.com/mroshb/value_matcher/pkg/errors"
	"github.com/mroshb/value_matcher/pkg/logger"
)

type BotInterface interface {
	SendMessage(chatID int64, text string, keyboard interface{}) int
	EditMessage(chatID int64, messageID int, text string, keyboard interface{})
	AnswerCallbackQuery(queryID string, text string, showAlert bool)
	GetMainMenuKeyboard() interface{}
}

type UserSession struct {
	State string
	Data  map[string]interface{}

	// Picks made so far in the running game.
	Selections []values.Selection
}

const (
	StateNone    = ""
	StatePlaying = "playing"
)

// Reset drops any in-progress flow.
func (s *UserSession) Reset() {
	s.State = StateNone
	s.Data = make(map[string]interface{})
	s.Selections = nil
}

// resolveUser maps a Telegram sender to a stored user, registering on first contact.
func (h *HandlerManager) resolveUser(from *tgbotapi.User) (*models.User, bool, error) {
	ctx, cancel := h.requestContext()
	defer cancel()
	user, created, err := h.Users.GetOrCreateByTelegramID(ctx, from.ID, displayName(from))
	if err != nil {
		return nil, false, err
	}
	if !created {
		if err := h.Users.UpdateLastActivity(ctx, user.ID); err != nil {
			logger.Warn("Failed to update last activity", "user_id", user.ID, "error", err)
		}
	}
	return user, created, nil
}

func displayName(from *tgbotapi.User) string {
	name := strings.TrimSpace(strings.TrimSpace(from.FirstName) + " " + strings.TrimSpace(from.LastName))
	if name == "" {
		name = from.UserName
	}
	return security.SanitizeText(name, security.MaxNameLength)
}

// HandleStart registers the sender if needed and greets them.
func (h *HandlerManager) HandleStart(from *tgbotapi.User, session *UserSession, bot BotInterface) {
	session.Reset()

	user, created, err := h.resolveUser(from)
	if err != nil {
		h.replyError(from.ID, err, bot)
		return
	}

	name := html.EscapeString(user.FullName)
	if created {
		logger.Info("User registered via Telegram", "user_id", user.ID)
		bot.SendMessage(from.ID, fmt.Sprintf(MsgWelcome, name), bot.GetMainMenuKeyboard())
		return
	}
	bot.SendMessage(from.ID, fmt.Sprintf(MsgWelcomeBack, name), bot.GetMainMenuKeyboard())
}

// ShowProfile sends the user's value profile.
func (h *HandlerManager) ShowProfile(from *tgbotapi.User, bot BotInterface) {
	user, _, err := h.resolveUser(from)
	if err != nil {
		h.replyError(from.ID, err, bot)
		return
	}
	if !user.GameCompleted || len(user.ValueProfile) == 0 {
		bot.SendMessage(from.ID, MsgProfileNotReady, nil)
		return
	}
	bot.SendMessage(from.ID, FormatProfile(user.ValueProfile, user.EnvironmentPreferences), nil)
}

// HandleToken issues a JWT for the API.
func (h *HandlerManager) HandleToken(from *tgbotapi.User, bot BotInterface) {
	user, _, err := h.resolveUser(from)
	if err != nil {
		h.replyError(from.ID, err, bot)
		return
	}

	token, err := security.GenerateJWT(user.ID, from.ID, h.Config.JWTSecret)
	if err != nil {
		logger.Error("Failed to issue token", "user_id", user.ID, "error", err)
		bot.SendMessage(from.ID, MsgGenericError, nil)
		return
	}
	bot.SendMessage(from.ID, fmt.Sprintf(MsgToken, token), nil)
}

// FormatProfile renders the exposed dimensions as percentages plus preferences.
func FormatProfile(profile models.ValueProfile, prefs *models.EnvironmentPreferences) string {
	var sb strings.Builder
	sb.WriteString("👤 <b>Your value profile</b>\n")
	for _, k := range profile.Keys() {
		fmt.Fprintf(&sb, "• %s: %.0f%%\n", strings.ReplaceAll(k, "_", " "), math.Round(profile[k]*100))
	}
	if prefs != nil {
		fmt.Fprintf(&sb, "\nSocial energy: %s\nGroup size: %s\nInteraction: %s\nPace: %s",
			prefs.SocialEnergy, prefs.GroupSize, prefs.InteractionStyle, prefs.Pace)
	}
	return sb.String()
}

// replyError turns a service error into a chat reply.
func (h *HandlerManager) replyError(chatID int64, err error, bot BotInterface) {
	bot.SendMessage(chatID, userMessage(err), nil)
}

func userMessage(err error) string {
	switch {
	case errors.HasCode(err, errors.ErrCodeProfileNotReady):
		return MsgProfileNotReady
	case errors.HasCode(err, errors.ErrCodeNotFound), errors.HasCode(err, errors.ErrCodeCandidateNotFound):
		return MsgNotFound
	case errors.HasCode(err, errors.ErrCodeMalformedSubmission):
		return MsgGameRejected
	default:
		logger.Error("Telegram request failed", "error", err)
		return MsgGenericError
	}
}
