// Package bridge — handlers.go отвечает на команды /cau, /giai, /ngay, /todo, /live
// и на вставленный текст результата.
package bridge

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"soicau.vn/xsmb-bot/internal/common"
	"soicau.vn/xsmb-bot/internal/scan"
)

// Handler обрабатывает команды поиска cầu.
type Handler struct {
	service *Service
	sender  common.Sender
	limit   int
}

// NewHandler создаёт обработчик. limit — максимальная длина одного сообщения.
func NewHandler(service *Service, sender common.Sender, limit int) *Handler {
	return &Handler{service: service, sender: sender, limit: limit}
}

// HandleHelp — /start, /help.
func (h *Handler) HandleHelp(ctx context.Context, chatID int64) {
	h.reply(ctx, chatID, HelpText)
}

// HandlePositions — /cau [mode] [n] [next].
func (h *Handler) HandlePositions(ctx context.Context, chatID int64, args []string) {
	opts, err := ParseScanArgs(args, h.service.DefaultOptions())
	if err != nil {
		h.fail(ctx, chatID, "cau", err)
		return
	}
	report, err := h.service.ScanPositions(ctx, opts)
	if err != nil {
		h.fail(ctx, chatID, "cau", err)
		return
	}
	h.reply(ctx, chatID, FormatPositions(report))
}

// HandleTiers — /giai [mode] [n] [next].
func (h *Handler) HandleTiers(ctx context.Context, chatID int64, args []string) {
	opts, err := ParseScanArgs(args, h.service.DefaultOptions())
	if err != nil {
		h.fail(ctx, chatID, "giai", err)
		return
	}
	report, err := h.service.ScanTiers(ctx, opts)
	if err != nil {
		h.fail(ctx, chatID, "giai", err)
		return
	}
	h.reply(ctx, chatID, FormatTiers(report))
}

// HandleDay — /ngay [k].
func (h *Handler) HandleDay(ctx context.Context, chatID int64, args []string) {
	k := 0
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			h.fail(ctx, chatID, "ngay", fmt.Errorf("%w: %q", common.ErrBadArgs, args[0]))
			return
		}
		k = v
	}
	a, err := h.service.Day(ctx, k)
	if err != nil {
		h.fail(ctx, chatID, "ngay", err)
		return
	}
	h.reply(ctx, chatID, FormatDay(a))
}

// HandleCommon — /todo.
func (h *Handler) HandleCommon(ctx context.Context, chatID int64) {
	r, err := h.service.Common(ctx)
	if err != nil {
		h.fail(ctx, chatID, "todo", err)
		return
	}
	h.reply(ctx, chatID, FormatCommon(r))
}

// HandleLive — /live.
func (h *Handler) HandleLive(ctx context.Context, chatID int64) {
	r, err := h.service.Live(ctx)
	if err != nil {
		h.fail(ctx, chatID, "live", err)
		return
	}
	h.reply(ctx, chatID, FormatReconciliation("📡 Trực tiếp", r))
}

// HandlePaste — обычное сообщение, похожее на результат.
func (h *Handler) HandlePaste(ctx context.Context, chatID int64, text string) {
	r, err := h.service.Reconcile(ctx, text)
	if err != nil {
		h.fail(ctx, chatID, "paste", err)
		return
	}
	if r.Values == 0 {
		h.reply(ctx, chatID, "❓ Không nhận ra kết quả nào trong tin nhắn.")
		return
	}
	h.reply(ctx, chatID, FormatReconciliation("📋 Kết quả dán", r))
}

// ParseScanArgs разбирает аргументы /cau и /giai поверх значений по умолчанию.
//
// Пример:
//
//	[]          → exact, тот же день, порог по умолчанию
//	[rev 3]     → exact-or-reversed, порог 3
//	[bo next]   → same-bucket, ngày sau
func ParseScanArgs(args []string, def scan.Options) (scan.Options, error) {
	opts := def
	for _, a := range args {
		a = strings.ToLower(strings.TrimSpace(a))
		switch a {
		case "":
			continue
		case "next", "sau", "mai":
			opts.Lag = scan.NextDay
			continue
		case "today", "nay":
			opts.Lag = scan.SameDay
			continue
		}
		if n, err := strconv.Atoi(a); err == nil {
			if n < 1 || n > 50 {
				return def, fmt.Errorf("%w: ngưỡng %d", common.ErrBadArgs, n)
			}
			opts.MinStreak = n
			continue
		}
		mode, err := scan.ParseMatchMode(a)
		if err != nil {
			return def, fmt.Errorf("%w: %v", common.ErrBadArgs, err)
		}
		opts.Mode = mode
	}
	return opts, nil
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string) {
	if err := common.SendText(ctx, h.sender, chatID, text, h.limit); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки ответа")
	}
}

func (h *Handler) fail(ctx context.Context, chatID int64, cmd string, err error) {
	log.WithError(err).WithFields(log.Fields{
		"cmd":     cmd,
		"chat_id": chatID,
	}).Warn("Команда завершилась ошибкой")
	h.reply(ctx, chatID, common.UserMessage(err))
}
