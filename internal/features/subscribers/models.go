// Package subscribers хранит чаты, подписанные на ежедневный отчёт и live-оповещения.
// models.go описывает запись подписки.
package subscribers

import "time"

// Subscriber — подписанный чат (группа или личка).
type Subscriber struct {
	ID           int64      `db:"id"`
	ChatID       int64      `db:"chat_id"`
	Title        string     `db:"title"`
	SubscribedBy int64      `db:"subscribed_by"`
	IsActive     bool       `db:"is_active"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	LastSentAt   *time.Time `db:"last_sent_at"`
}
