package handlers

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mroshb/value_matcher/internal/values"
)

// Callback data prefixes. Telegram caps callback data at 64 bytes, which public
// IDs and lexicon words stay well under.
const (
	CallbackPick        = "pick:"
	CallbackCommJoin    = "comm:join:"
	CallbackCommSkip    = "comm:skip:"
	CallbackEventAttend = "event:attend:"
	CallbackEventSkip   = "event:skip:"
)

// RoundKeyboard lays out one round's words, two per row.
func RoundKeyboard(round values.Round) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var currentRow []tgbotapi.InlineKeyboardButton

	for _, word := range round.Words {
		data := CallbackPick + strconv.Itoa(round.Number) + ":" + word
		currentRow = append(currentRow, tgbotapi.NewInlineKeyboardButtonData(word, data))
		if len(currentRow) == 2 {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(currentRow...))
			currentRow = []tgbotapi.InlineKeyboardButton{}
		}
	}
	if len(currentRow) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(currentRow...))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func CommunityMatchKeyboard(communityID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnJoin, CallbackCommJoin+communityID),
			tgbotapi.NewInlineKeyboardButtonData(BtnSkip, CallbackCommSkip+communityID),
		),
	)
}

func EventMatchKeyboard(eventID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnAttend, CallbackEventAttend+eventID),
			tgbotapi.NewInlineKeyboardButtonData(BtnSkip, CallbackEventSkip+eventID),
		),
	)
}

// ParsePick splits "pick:<round>:<word>".
func ParsePick(data string) (values.Selection, bool) {
	rest, ok := strings.CutPrefix(data, CallbackPick)
	if !ok {
		return values.Selection{}, false
	}
	roundStr, word, ok := strings.Cut(rest, ":")
	if !ok || word == "" {
		return values.Selection{}, false
	}
	round, err := strconv.Atoi(roundStr)
	if err != nil || round < 1 {
		return values.Selection{}, false
	}
	return values.Selection{Round: round, Word: word}, true
}
