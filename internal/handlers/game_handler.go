package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mroshb/value_matcher/pkg/logger"
)

// StartGame begins a new value game, discarding any unfinished one.
func (h *HandlerManager) StartGame(from *tgbotapi.User, session *UserSession, bot BotInterface) {
	user, _, err := h.resolveUser(from)
	if err != nil {
		h.replyError(from.ID, err, bot)
		return
	}

	rounds := h.Profiles.Tiles()
	if len(rounds) == 0 {
		bot.SendMessage(from.ID, MsgGenericError, nil)
		return
	}

	session.Reset()
	session.State = StatePlaying
	session.Data["user_id"] = user.ID

	first := rounds[0]
	bot.SendMessage(from.ID, fmt.Sprintf(MsgRoundPrompt, first.Number, len(rounds)), RoundKeyboard(first))
}

// HandleGamePick records one pick and either shows the next round or submits the game.
func (h *HandlerManager) HandleGamePick(query *tgbotapi.CallbackQuery, session *UserSession, bot BotInterface) {
	chatID := query.From.ID

	sel, ok := ParsePick(query.Data)
	if !ok {
		bot.AnswerCallbackQuery(query.ID, MsgStaleRound, false)
		return
	}
	if session.State != StatePlaying {
		bot.AnswerCallbackQuery(query.ID, MsgNotPlaying, false)
		return
	}
	if sel.Round != len(session.Selections)+1 {
		bot.AnswerCallbackQuery(query.ID, MsgStaleRound, false)
		return
	}
	bot.AnswerCallbackQuery(query.ID, "", false)

	session.Selections = append(session.Selections, sel)
	rounds := h.Profiles.Tiles()

	messageID := 0
	if query.Message != nil {
		messageID = query.Message.MessageID
	}

	if len(session.Selections) < len(rounds) {
		next := rounds[len(session.Selections)]
		bot.EditMessage(chatID, messageID, fmt.Sprintf(MsgRoundPrompt, next.Number, len(rounds)), RoundKeyboard(next))
		return
	}

	userID, _ := session.Data["user_id"].(uint)
	selections := session.Selections
	session.Reset()

	ctx, cancel := h.requestContext()
	defer cancel()

	result, err := h.Profiles.SubmitGame(ctx, userID, selections)
	if err != nil {
		logger.Warn("Telegram game submission failed", "user_id", userID, "error", err)
		bot.EditMessage(chatID, messageID, userMessage(err), nil)
		return
	}

	bot.EditMessage(chatID, messageID, fmt.Sprintf(MsgGameDone, FormatProfile(result.Profile, &result.Preferences)), nil)
}
