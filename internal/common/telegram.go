// Package common — telegram.go: отправка текста с разбиением на страницы
// и перевод ошибок в сообщения для пользователя.
package common

import (
	"context"
	"errors"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// Sender — часть *telego.Bot, которая нужна обработчикам. В тестах подменяется.
type Sender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// SendText отправляет текст, разбивая его на части не длиннее limit.
// Возвращает первую ошибку отправки; оставшиеся части не отправляются.
func SendText(ctx context.Context, sender Sender, chatID int64, text string, limit int) error {
	for _, part := range SplitMessage(text, limit) {
		if part == "" {
			continue
		}
		if _, err := sender.SendMessage(ctx, tu.Message(tu.ID(chatID), part)); err != nil {
			return err
		}
	}
	return nil
}

// UserMessage переводит ошибку в короткий ответ на вьетнамском.
// Неизвестные ошибки не раскрываются пользователю.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrFetch):
		return "⚠️ Không tải được dữ liệu kết quả, thử lại sau."
	case errors.Is(err, ErrPayload):
		return "⚠️ Nguồn dữ liệu trả về định dạng lạ, thử lại sau."
	case errors.Is(err, ErrNotEnoughDraws):
		return "⚠️ Chưa đủ số kỳ để phân tích."
	case errors.Is(err, ErrLiveNotFound):
		return "⏳ Chưa có bảng kết quả trực tiếp."
	case errors.Is(err, ErrBadArgs):
		return "❌ Sai tham số. Gõ /help để xem hướng dẫn."
	case errors.Is(err, ErrDrawIndex):
		return "❌ Không có kỳ này trong lịch sử đã tải."
	case errors.Is(err, ErrAlreadySubscribed):
		return "ℹ️ Nhóm này đã đăng ký nhận báo cáo."
	case errors.Is(err, ErrNotSubscribed):
		return "ℹ️ Nhóm này chưa đăng ký."
	case errors.Is(err, ErrNotAdmin):
		return "⛔ Bạn không có quyền quản trị."
	case errors.Is(err, ErrWrongPassword):
		return "❌ Sai mật khẩu."
	case errors.Is(err, ErrTooManyAttempts):
		return "⛔ Sai quá nhiều lần, thử lại sau 1 giờ."
	case errors.Is(err, ErrSessionExpired):
		return "🔐 Phiên đăng nhập hết hạn, hãy /login lại."
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "⚠️ Hết thời gian chờ, thử lại sau."
	}
	return "⚠️ Có lỗi xảy ra, thử lại sau."
}
