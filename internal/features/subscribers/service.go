// Package subscribers — service.go: подписка, отписка и рассылка по подписчикам.
package subscribers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mymmrac/telego/telegoapi"
	log "github.com/sirupsen/logrus"

	"soicau.vn/xsmb-bot/internal/common"
)

// Store — операции с хранилищем подписок (*Repository в проде).
type Store interface {
	Get(ctx context.Context, chatID int64) (*Subscriber, error)
	Upsert(ctx context.Context, s *Subscriber) error
	Deactivate(ctx context.Context, chatID int64) (bool, error)
	ListActiveChatIDs(ctx context.Context) ([]int64, error)
	MarkSent(ctx context.Context, chatID int64) error
}

// Service управляет подписками.
type Service struct {
	store  Store
	sender common.Sender
	limit  int
}

// NewService создаёт сервис. limit — максимальная длина одного сообщения.
func NewService(store Store, sender common.Sender, limit int) *Service {
	return &Service{store: store, sender: sender, limit: limit}
}

// Subscribe включает подписку чата.
func (s *Service) Subscribe(ctx context.Context, chatID int64, title string, by int64) error {
	existing, err := s.store.Get(ctx, chatID)
	switch {
	case err == nil && existing.IsActive:
		return common.ErrAlreadySubscribed
	case err != nil && !errors.Is(err, pgx.ErrNoRows):
		return err
	}

	if err := s.store.Upsert(ctx, &Subscriber{ChatID: chatID, Title: title, SubscribedBy: by}); err != nil {
		return err
	}
	log.WithFields(log.Fields{"chat_id": chatID, "by": by}).Info("Чат подписан на отчёты")
	return nil
}

// Unsubscribe выключает подписку чата.
func (s *Service) Unsubscribe(ctx context.Context, chatID int64) error {
	ok, err := s.store.Deactivate(ctx, chatID)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrNotSubscribed
	}
	log.WithField("chat_id", chatID).Info("Чат отписан от отчётов")
	return nil
}

// BroadcastResult — итог рассылки.
type BroadcastResult struct {
	Sent     int
	Failed   int
	Disabled int // чаты, где бота заблокировали или удалили, — подписка снята
}

// Broadcast отправляет текст всем активным подписчикам. Ошибка одного чата
// не останавливает рассылку.
func (s *Service) Broadcast(ctx context.Context, text string) (*BroadcastResult, error) {
	ids, err := s.store.ListActiveChatIDs(ctx)
	if err != nil {
		return nil, err
	}

	res := &BroadcastResult{}
	for _, chatID := range ids {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		if err := common.SendText(ctx, s.sender, chatID, text, s.limit); err != nil {
			if isForbidden(err) {
				if _, derr := s.store.Deactivate(ctx, chatID); derr != nil {
					log.WithError(derr).WithField("chat_id", chatID).Warn("Не удалось снять подписку")
				}
				res.Disabled++
				continue
			}
			log.WithError(err).WithField("chat_id", chatID).Warn("Рассылка: сообщение не доставлено")
			res.Failed++
			continue
		}
		res.Sent++
		if err := s.store.MarkSent(ctx, chatID); err != nil {
			log.WithError(err).WithField("chat_id", chatID).Debug("MarkSent failed")
		}
	}

	log.WithFields(log.Fields{
		"sent":     res.Sent,
		"failed":   res.Failed,
		"disabled": res.Disabled,
	}).Info("Рассылка завершена")
	return res, nil
}

// Summary — короткий итог рассылки для админа.
func (r *BroadcastResult) Summary() string {
	return fmt.Sprintf("Đã gửi %d, lỗi %d, huỷ %d nhóm chặn bot", r.Sent, r.Failed, r.Disabled)
}

// isForbidden — Telegram ответил 403: бот заблокирован или исключён из чата.
func isForbidden(err error) bool {
	var apiErr *telegoapi.Error
	return errors.As(err, &apiErr) && apiErr.ErrorCode == 403
}
