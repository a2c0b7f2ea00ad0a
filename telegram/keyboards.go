package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mroshb/value_matcher/internal/handlers"
)

// MainMenuKeyboard creates the main menu keyboard
func MainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(handlers.BtnPlay),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(handlers.BtnMatches),
			tgbotapi.NewKeyboardButton(handlers.BtnEvents),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(handlers.BtnProfile),
			tgbotapi.NewKeyboardButton(handlers.BtnHelp),
		),
	)
}

// commandForButton maps main menu buttons onto the equivalent command.
func commandForButton(text string) (string, bool) {
	switch text {
	case handlers.BtnPlay:
		return "play", true
	case handlers.BtnMatches:
		return "matches", true
	case handlers.BtnEvents:
		return "events", true
	case handlers.BtnProfile:
		return "profile", true
	case handlers.BtnHelp:
		return "help", true
	}
	return "", false
}
