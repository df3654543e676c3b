// Package bot содержит главный модуль бота — приём апдейтов и маршрутизацию команд.
// bot.go читает long polling, ограничивает параллелизм и раздаёт сообщения обработчикам.
package bot

import (
	"context"
	"strings"

	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"

	"soicau.vn/xsmb-bot/internal/bot/filters"
	"soicau.vn/xsmb-bot/internal/bot/middleware"
	"soicau.vn/xsmb-bot/internal/config"
	"soicau.vn/xsmb-bot/internal/features/admin"
	"soicau.vn/xsmb-bot/internal/features/bridge"
	"soicau.vn/xsmb-bot/internal/features/subscribers"
	"soicau.vn/xsmb-bot/internal/source"
)

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *telego.Bot
	cfg *config.Config

	chatFilter  *filters.ChatFilter
	rateLimiter *middleware.RateLimiter

	bridgeHandler     *bridge.Handler
	subscriberHandler *subscribers.Handler
	adminHandler      *admin.Handler

	parser *CommandParser

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *telego.Bot,
	cfg *config.Config,
	bridgeHandler *bridge.Handler,
	subscriberHandler *subscribers.Handler,
	adminHandler *admin.Handler,
	chatFilter *filters.ChatFilter,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 32
	}

	return &Bot{
		api:               api,
		cfg:               cfg,
		chatFilter:        chatFilter,
		rateLimiter:       middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		bridgeHandler:     bridgeHandler,
		subscriberHandler: subscriberHandler,
		adminHandler:      adminHandler,
		parser:            NewCommandParser(),
		inflight:          make(chan struct{}, maxInFlight),
	}
}

// Start запускает long polling и блокируется до отмены ctx.
func (b *Bot) Start(ctx context.Context) {
	defer b.rateLimiter.Close()

	updates, err := b.api.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout:        b.cfg.BotUpdateTimeoutSeconds,
		AllowedUpdates: []string{"message"},
	})
	if err != nil {
		log.WithError(err).Error("Не удалось запустить long polling")
		return
	}

	log.WithFields(log.Fields{
		"max_inflight": cap(b.inflight),
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return
			}

			// лимит параллелизма
			select {
			case b.inflight <- struct{}{}:
			case <-ctx.Done():
				return
			}
			go func(upd telego.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update telego.Update) {
	defer middleware.RecoverFromPanic(log.Fields{"update_id": update.UpdateID})

	message := update.Message
	if message == nil || message.Text == "" {
		return
	}

	middleware.LogMessage(message)

	if !b.chatFilter.CheckAccess(message) {
		return
	}

	if !b.rateLimiter.Allow(message.From.ID) {
		log.WithFields(log.Fields{
			"user_id":     message.From.ID,
			"retry_after": b.rateLimiter.RetryAfter(message.From.ID).String(),
		}).Debug("rate limited")
		return
	}

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if isCommand {
		log.WithFields(log.Fields{
			"cmd":  cmd,
			"args": len(args),
		}).Debug("parsed command")
		b.routeCommand(ctx, message, cmd, args)
		return
	}

	// Не команда: может быть вставленным результатом
	if b.cfg.FeaturePasteEnabled && source.LooksLikeResult(message.Text) {
		b.bridgeHandler.HandlePaste(ctx, message.Chat.ID, message.Text)
	}
}

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, message *telego.Message, cmd string, args []string) {
	chatID := message.Chat.ID
	userID := message.From.ID
	private := message.Chat.Type == telego.ChatTypePrivate

	switch cmd {
	case "start", "help", "huongdan":
		b.bridgeHandler.HandleHelp(ctx, chatID)

	case "cau", "soicau":
		b.bridgeHandler.HandlePositions(ctx, chatID, args)

	case "giai", "caugiai":
		b.bridgeHandler.HandleTiers(ctx, chatID, args)

	case "ngay", "ky":
		b.bridgeHandler.HandleDay(ctx, chatID, args)

	case "todo":
		b.bridgeHandler.HandleCommon(ctx, chatID)

	case "live", "tructiep":
		if b.cfg.FeatureLiveEnabled {
			b.bridgeHandler.HandleLive(ctx, chatID)
		}

	case "dangky":
		b.subscriberHandler.HandleSubscribe(ctx, chatID, userID, chatTitle(message))

	case "huy":
		b.subscriberHandler.HandleUnsubscribe(ctx, chatID)

	case "login":
		b.adminHandler.HandleLogin(ctx, chatID, userID, private, args)

	case "logout":
		b.adminHandler.HandleLogout(ctx, chatID, userID)

	case "refresh":
		b.adminHandler.HandleRefresh(ctx, chatID, userID)

	case "broadcast":
		b.adminHandler.HandleBroadcast(ctx, chatID, userID, args)

	default:
		log.WithField("cmd", cmd).Debug("unknown command")
	}
}

// chatTitle — название группы или имя собеседника в личке.
func chatTitle(message *telego.Message) string {
	if message.Chat.Title != "" {
		return message.Chat.Title
	}
	if message.From != nil {
		return strings.TrimSpace(message.From.FirstName + " " + message.From.LastName)
	}
	return ""
}

// CommandParser парсит команды с префиксами "/", "!" и ".".
type CommandParser struct {
	validPrefixes []string
}

// NewCommandParser создаёт парсер команд.
func NewCommandParser() *CommandParser {
	return &CommandParser{
		validPrefixes: []string{"/", "!", "."},
	}
}

// ParseCommand разбирает текст на команду и аргументы.
// Суффикс "@BotName" у команды в группах отбрасывается.
//
// Пример:
//
//	"/cau@soicau_bot rev 3" → ("cau", ["rev", "3"], true)
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range p.validPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}

	if !hasPrefix {
		return "", nil, false
	}

	parts := strings.Fields(text)
	if len(parts) == 0 || strings.HasPrefix(text, " ") {
		return "", nil, false
	}

	command := strings.ToLower(parts[0])
	if at := strings.IndexByte(command, '@'); at >= 0 {
		command = command[:at]
	}
	if command == "" {
		return "", nil, false
	}

	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}

	return command, args, true
}
