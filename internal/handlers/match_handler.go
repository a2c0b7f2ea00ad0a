package handlers

import (
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mroshb/value_matcher/pkg/logger"
)

// How many matches one listing shows.
const matchesPerPage = 5

// FormatMatch renders one ranked candidate card.
func FormatMatch(name, description string, score float64, why string, friction *string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s</b> · %.1f%% match\n", html.EscapeString(name), score)
	if description != "" {
		sb.WriteString(html.EscapeString(description))
		sb.WriteString("\n")
	}
	sb.WriteString("💡 ")
	sb.WriteString(html.EscapeString(why))
	if friction != nil {
		sb.WriteString("\n⚠️ ")
		sb.WriteString(html.EscapeString(*friction))
	}
	return sb.String()
}

func (h *HandlerManager) ShowCommunityMatches(from *tgbotapi.User, bot BotInterface) {
	user, _, err := h.resolveUser(from)
	if err != nil {
		h.replyError(from.ID, err, bot)
		return
	}

	ctx, cancel := h.requestContext()
	defer cancel()

	matches, err := h.Matches.CommunityMatches(ctx, user.ID)
	if err != nil {
		h.replyError(from.ID, err, bot)
		return
	}
	if len(matches) == 0 {
		bot.SendMessage(from.ID, MsgNoCommunities, nil)
		return
	}

	if len(matches) > matchesPerPage {
		matches = matches[:matchesPerPage]
	}
	for _, m := range matches {
		text := FormatMatch(m.Community.Name, m.Community.Description, m.Score, m.Why, m.Friction)
		bot.SendMessage(from.ID, text, CommunityMatchKeyboard(m.Community.ID))
	}
}

func (h *HandlerManager) ShowEventMatches(from *tgbotapi.User, bot BotInterface) {
	user, _, err := h.resolveUser(from)
	if err != nil {
		h.replyError(from.ID, err, bot)
		return
	}

	ctx, cancel := h.requestContext()
	defer cancel()

	matches, err := h.Matches.EventMatches(ctx, user.ID)
	if err != nil {
		h.replyError(from.ID, err, bot)
		return
	}
	if len(matches) == 0 {
		bot.SendMessage(from.ID, MsgNoEvents, nil)
		return
	}

	if len(matches) > matchesPerPage {
		matches = matches[:matchesPerPage]
	}
	for _, m := range matches {
		desc := m.Event.Date.Format("Mon Jan 2, 15:04 MST")
		if m.Event.Location != "" {
			desc += " · " + m.Event.Location
		}
		text := FormatMatch(m.Event.Name, desc, m.Score, m.Why, m.Friction)
		bot.SendMessage(from.ID, text, EventMatchKeyboard(m.Event.ID))
	}
}

// HandleCandidateCallback applies join, attend and skip buttons. It reports
// false when data is not a candidate action.
func (h *HandlerManager) HandleCandidateCallback(query *tgbotapi.CallbackQuery, bot BotInterface) bool {
	data := query.Data

	var apply func(userID uint) (string, error)
	switch {
	case strings.HasPrefix(data, CallbackCommJoin):
		id := strings.TrimPrefix(data, CallbackCommJoin)
		apply = func(userID uint) (string, error) {
			ctx, cancel := h.requestContext()
			defer cancel()
			joined, err := h.Communities.Join(ctx, userID, id)
			if err != nil || !joined {
				return AnsAlreadyJoin, err
			}
			return AnsJoined, nil
		}
	case strings.HasPrefix(data, CallbackCommSkip):
		id := strings.TrimPrefix(data, CallbackCommSkip)
		apply = func(userID uint) (string, error) {
			ctx, cancel := h.requestContext()
			defer cancel()
			return AnsSkipped, h.Communities.Skip(ctx, userID, id)
		}
	case strings.HasPrefix(data, CallbackEventAttend):
		id := strings.TrimPrefix(data, CallbackEventAttend)
		apply = func(userID uint) (string, error) {
			ctx, cancel := h.requestContext()
			defer cancel()
			attending, err := h.Events.Attend(ctx, userID, id)
			if err != nil || !attending {
				return AnsAlreadyGoing, err
			}
			return AnsAttending, nil
		}
	case strings.HasPrefix(data, CallbackEventSkip):
		id := strings.TrimPrefix(data, CallbackEventSkip)
		apply = func(userID uint) (string, error) {
			ctx, cancel := h.requestContext()
			defer cancel()
			return AnsSkipped, h.Events.Skip(ctx, userID, id)
		}
	default:
		return false
	}

	user, _, err := h.resolveUser(query.From)
	if err != nil {
		bot.AnswerCallbackQuery(query.ID, userMessage(err), true)
		return true
	}

	answer, err := apply(user.ID)
	if err != nil {
		logger.Debug("Candidate action failed", "user_id", user.ID, "data", data, "error", err)
		bot.AnswerCallbackQuery(query.ID, userMessage(err), true)
		return true
	}
	bot.AnswerCallbackQuery(query.ID, answer, false)
	return true
}
