// Package admin — handlers.go: /login, /logout, /refresh, /broadcast.
// Вход только в личных сообщениях: пароль в группе виден всем.
package admin

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"soicau.vn/xsmb-bot/internal/common"
)

// Handler обрабатывает админ-команды.
type Handler struct {
	service *Service
	sender  common.Sender
}

// NewHandler создаёт обработчик админ-команд.
func NewHandler(service *Service, sender common.Sender) *Handler {
	return &Handler{service: service, sender: sender}
}

// HandleLogin — /login <пароль>.
func (h *Handler) HandleLogin(ctx context.Context, chatID, userID int64, private bool, args []string) {
	if !private {
		h.send(ctx, chatID, "🔐 Chỉ đăng nhập trong tin nhắn riêng với bot.")
		return
	}
	password := strings.TrimSpace(strings.Join(args, " "))
	if password == "" {
		h.send(ctx, chatID, "Cú pháp: /login <mật khẩu>")
		return
	}
	if err := h.service.Login(ctx, userID, password); err != nil {
		h.fail(ctx, chatID, userID, "login", err)
		return
	}
	h.send(ctx, chatID, "✅ Đăng nhập thành công (24 giờ).")
}

// HandleLogout — /logout.
func (h *Handler) HandleLogout(ctx context.Context, chatID, userID int64) {
	if err := h.service.Logout(ctx, userID); err != nil {
		h.fail(ctx, chatID, userID, "logout", err)
		return
	}
	h.send(ctx, chatID, "👋 Đã đăng xuất.")
}

// HandleRefresh — /refresh.
func (h *Handler) HandleRefresh(ctx context.Context, chatID, userID int64) {
	if err := h.service.Refresh(ctx, userID); err != nil {
		h.fail(ctx, chatID, userID, "refresh", err)
		return
	}
	h.send(ctx, chatID, "🔄 Đã xoá bộ nhớ đệm, lần tra cứu sau sẽ tải dữ liệu mới.")
}

// HandleBroadcast — /broadcast <текст>.
func (h *Handler) HandleBroadcast(ctx context.Context, chatID, userID int64, args []string) {
	res, err := h.service.Broadcast(ctx, userID, strings.Join(args, " "))
	if err != nil {
		h.fail(ctx, chatID, userID, "broadcast", err)
		return
	}
	h.send(ctx, chatID, "📢 "+res.Summary())
}

func (h *Handler) fail(ctx context.Context, chatID, userID int64, cmd string, err error) {
	log.WithError(err).WithFields(log.Fields{
		"cmd":     cmd,
		"user_id": userID,
	}).Warn("Админ-команда отклонена")
	h.send(ctx, chatID, common.UserMessage(err))
}

func (h *Handler) send(ctx context.Context, chatID int64, text string) {
	if err := common.SendText(ctx, h.sender, chatID, text, 0); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
