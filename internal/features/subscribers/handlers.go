// Package subscribers — handlers.go: команды /dangky и /huy.
package subscribers

import (
	"context"

	log "github.com/sirupsen/logrus"

	"soicau.vn/xsmb-bot/internal/common"
)

// Handler обрабатывает команды подписки.
type Handler struct {
	service *Service
	sender  common.Sender
}

// NewHandler создаёт обработчик.
func NewHandler(service *Service, sender common.Sender) *Handler {
	return &Handler{service: service, sender: sender}
}

// HandleSubscribe — /dangky.
func (h *Handler) HandleSubscribe(ctx context.Context, chatID, userID int64, title string) {
	if err := h.service.Subscribe(ctx, chatID, title, userID); err != nil {
		h.fail(ctx, chatID, err)
		return
	}
	h.send(ctx, chatID, "✅ Đã đăng ký. Báo cáo cầu sẽ được gửi sau mỗi kỳ quay.")
}

// HandleUnsubscribe — /huy.
func (h *Handler) HandleUnsubscribe(ctx context.Context, chatID int64) {
	if err := h.service.Unsubscribe(ctx, chatID); err != nil {
		h.fail(ctx, chatID, err)
		return
	}
	h.send(ctx, chatID, "👋 Đã huỷ đăng ký báo cáo.")
}

func (h *Handler) fail(ctx context.Context, chatID int64, err error) {
	log.WithError(err).WithField("chat_id", chatID).Warn("Ошибка подписки")
	h.send(ctx, chatID, common.UserMessage(err))
}

func (h *Handler) send(ctx context.Context, chatID int64, text string) {
	if err := common.SendText(ctx, h.sender, chatID, text, 0); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
