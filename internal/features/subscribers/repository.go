// Package subscribers — repository.go работает с таблицей subscribers.
// Каждая функция выполняет один SQL-запрос.
package subscribers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Get возвращает подписку чата; если записи нет — ошибка с pgx.ErrNoRows.
func (r *Repository) Get(ctx context.Context, chatID int64) (*Subscriber, error) {
	query := `
		SELECT id, chat_id, title, subscribed_by, is_active, created_at, updated_at, last_sent_at
		FROM subscribers
		WHERE chat_id = $1
	`
	var s Subscriber
	err := r.db.QueryRow(ctx, query, chatID).Scan(
		&s.ID, &s.ChatID, &s.Title, &s.SubscribedBy,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt, &s.LastSentAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("подписка не найдена (chat_id=%d): %w", chatID, err)
		}
		return nil, fmt.Errorf("ошибка чтения подписки (chat_id=%d): %w", chatID, err)
	}
	return &s, nil
}

// Upsert включает подписку. На конфликте по chat_id обновляет название и активирует.
func (r *Repository) Upsert(ctx context.Context, s *Subscriber) error {
	query := `
		INSERT INTO subscribers (chat_id, title, subscribed_by, is_active)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (chat_id) DO UPDATE
		SET title = EXCLUDED.title,
		    subscribed_by = EXCLUDED.subscribed_by,
		    is_active = TRUE,
		    updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, s.ChatID, s.Title, s.SubscribedBy); err != nil {
		return fmt.Errorf("ошибка сохранения подписки: %w", err)
	}
	return nil
}

// Deactivate выключает подписку. Возвращает false, если активной подписки не было.
func (r *Repository) Deactivate(ctx context.Context, chatID int64) (bool, error) {
	query := `UPDATE subscribers SET is_active = FALSE, updated_at = NOW() WHERE chat_id = $1 AND is_active = TRUE`
	tag, err := r.db.Exec(ctx, query, chatID)
	if err != nil {
		return false, fmt.Errorf("ошибка отключения подписки: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListActiveChatIDs возвращает chat_id всех активных подписок.
func (r *Repository) ListActiveChatIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT chat_id FROM subscribers WHERE is_active = TRUE ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения подписок: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения подписок: %w", err)
	}
	return ids, nil
}

// MarkSent отмечает время последней успешной отправки.
func (r *Repository) MarkSent(ctx context.Context, chatID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE subscribers SET last_sent_at = NOW() WHERE chat_id = $1`, chatID)
	return err
}
