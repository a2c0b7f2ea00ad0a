package telegram

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mroshb/value_matcher/internal/config"
	"github.com/mroshb/value_matcher/internal/handlers"
	"github.com/mroshb/value_matcher/internal/middleware"
	"github.com/mroshb/value_matcher/pkg/logger"
)

const workerCount = 10

type Bot struct {
	api      *tgbotapi.BotAPI
	config   *config.Config
	handlers *handlers.HandlerManager
	limiter  *middleware.RateLimiter

	// User sessions for conversation state
	sessions map[int64]*handlers.UserSession
	mu       sync.RWMutex

	// Worker pool for parallel processing
	workerChans []chan tgbotapi.Update

	stop     chan struct{}
	stopOnce sync.Once
}

func InitBot(cfg *config.Config, mgr *handlers.HandlerManager, limiter *middleware.RateLimiter) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if cfg.AppEnv == "development" {
		api.Debug = true
	}

	logger.Info("Authorized on account", "username", api.Self.UserName)

	bot := &Bot{
		api:         api,
		config:      cfg,
		handlers:    mgr,
		limiter:     limiter,
		sessions:    make(map[int64]*handlers.UserSession),
		workerChans: make([]chan tgbotapi.Update, workerCount),
		stop:        make(chan struct{}),
	}

	// Start workers
	for i := 0; i < workerCount; i++ {
		bot.workerChans[i] = make(chan tgbotapi.Update, 100)
		go bot.startWorker(bot.workerChans[i])
	}

	// Start update listener
	go bot.startUpdateListener()

	return bot, nil
}

func (b *Bot) startUpdateListener() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for {
		logger.Info("Starting update listener...")
		updates := b.api.GetUpdatesChan(u)

		for update := range updates {
			// Find userID for hashing
			var userID int64
			if update.Message != nil && update.Message.From != nil {
				userID = update.Message.From.ID
			} else if update.CallbackQuery != nil {
				userID = update.CallbackQuery.From.ID
			}

			if userID != 0 {
				// Hashed dispatch to workers to ensure per-user ordered processing
				workerIdx := userID % int64(len(b.workerChans))
				if workerIdx < 0 {
					workerIdx = -workerIdx
				}
				b.workerChans[workerIdx] <- update
			}
		}

		select {
		case <-b.stop:
			return
		default:
		}

		logger.Warn("Update channel closed. Restarting in 5 seconds...")
		time.Sleep(5 * time.Second)
	}
}

func (b *Bot) startWorker(ch chan tgbotapi.Update) {
	for update := range ch {
		b.handleUpdate(update)
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in handleUpdate", "error", r)
		}
	}()

	if update.Message != nil {
		if !b.allow(update.Message.From.ID) {
			b.sendMessage(update.Message.From.ID, handlers.MsgTooManyRequests, nil)
			return
		}
		b.handleMessage(update.Message)
	} else if update.CallbackQuery != nil {
		if !b.allow(update.CallbackQuery.From.ID) {
			b.AnswerCallbackQuery(update.CallbackQuery.ID, handlers.MsgTooManyRequests, false)
			return
		}
		b.handleCallbackQuery(update.CallbackQuery)
	}
}

func (b *Bot) allow(telegramID int64) bool {
	if b.limiter == nil || telegramID <= 0 {
		return true
	}
	return b.limiter.CheckUserLimit(uint(telegramID))
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	userID := message.From.ID

	logger.Debug("Received message", "user_id", userID, "text", message.Text)

	if message.IsCommand() {
		b.handleCommand(message.From, message.Command())
		return
	}

	if command, ok := commandForButton(strings.TrimSpace(message.Text)); ok {
		b.handleCommand(message.From, command)
		return
	}

	session := b.getSession(userID)
	if session.State == handlers.StatePlaying {
		b.sendMessage(userID, handlers.MsgNotPlaying, nil)
		return
	}

	b.sendMessage(userID, handlers.MsgUnknown, MainMenuKeyboard())
}

func (b *Bot) handleCommand(from *tgbotapi.User, command string) {
	userID := from.ID

	switch command {
	case "start":
		b.handlers.HandleStart(from, b.getSession(userID), b)

	case "help":
		b.sendMessage(userID, handlers.MsgHelp, MainMenuKeyboard())

	case "cancel":
		b.clearSession(userID)
		b.sendMessage(userID, handlers.MsgCancel, MainMenuKeyboard())

	case "play":
		b.handlers.StartGame(from, b.getSession(userID), b)

	case "profile":
		b.handlers.ShowProfile(from, b)

	case "matches":
		b.handlers.ShowCommunityMatches(from, b)

	case "events":
		b.handlers.ShowEventMatches(from, b)

	case "token":
		b.handlers.HandleToken(from, b)

	default:
		b.sendMessage(userID, handlers.MsgUnknown, MainMenuKeyboard())
	}
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	logger.Debug("Callback query", "data", query.Data, "user_id", query.From.ID)

	data := query.Data

	if strings.HasPrefix(data, handlers.CallbackPick) {
		b.handlers.HandleGamePick(query, b.getSession(query.From.ID), b)
		return
	}

	if b.handlers.HandleCandidateCallback(query, b) {
		// Remove inline keyboard to keep chat clean
		if query.Message != nil {
			b.removeInlineKeyboard(query.Message.Chat.ID, query.Message.MessageID)
		}
		return
	}

	b.AnswerCallbackQuery(query.ID, "", false)
}

func (b *Bot) getSession(userID int64) *handlers.UserSession {
	b.mu.Lock()
	defer b.mu.Unlock()

	if session, exists := b.sessions[userID]; exists {
		return session
	}

	session := &handlers.UserSession{
		State: handlers.StateNone,
		Data:  make(map[string]interface{}),
	}
	b.sessions[userID] = session
	return session
}

func (b *Bot) clearSession(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sessions[userID] = &handlers.UserSession{
		State: handlers.StateNone,
		Data:  make(map[string]interface{}),
	}
}

func (b *Bot) sendMessage(chatID int64, text string, keyboard interface{}) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	switch kb := keyboard.(type) {
	case tgbotapi.ReplyKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.InlineKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.ReplyKeyboardRemove:
		msg.ReplyMarkup = kb
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		sentMsg, err := b.api.Send(msg)
		if err != nil {
			logger.Error("Failed to send message", "error", err, "chat_id", chatID, "attempt", i+1)

			// If it's a network error, wait and retry
			if isTransient(err) {
				time.Sleep(time.Duration(i+1) * time.Second)
				continue
			}
			return 0
		}
		return sentMsg.MessageID
	}
	return 0
}

func isTransient(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "network is unreachable")
}

func (b *Bot) SendMessage(chatID int64, text string, keyboard interface{}) int {
	return b.sendMessage(chatID, text, keyboard)
}

func (b *Bot) EditMessage(chatID int64, messageID int, text string, keyboard interface{}) {
	if messageID == 0 {
		b.sendMessage(chatID, text, keyboard)
		return
	}

	msg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if keyboard != nil {
		if kb, ok := keyboard.(tgbotapi.InlineKeyboardMarkup); ok {
			msg.ReplyMarkup = &kb
		}
	}

	if _, err := b.api.Send(msg); err != nil {
		logger.Error("Failed to edit message", "error", err, "chat_id", chatID, "message_id", messageID)
	}
}

func (b *Bot) removeInlineKeyboard(chatID int64, messageID int) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
	if _, err := b.api.Request(edit); err != nil {
		logger.Debug("Failed to remove inline keyboard", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) AnswerCallbackQuery(queryID string, text string, showAlert bool) {
	callback := tgbotapi.NewCallback(queryID, text)
	callback.ShowAlert = showAlert
	if _, err := b.api.Request(callback); err != nil {
		logger.Error("Failed to answer callback query", "error", err, "query_id", queryID)
	}
}

func (b *Bot) GetMainMenuKeyboard() interface{} {
	return MainMenuKeyboard()
}

func (b *Bot) Stop() {
	b.stopOnce.Do(func() {
		close(b.stop)
		b.api.StopReceivingUpdates()
		logger.Info("Bot stopped receiving updates")
	})
}
