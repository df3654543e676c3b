// Package admin реализует вход администратора по паролю (Argon2id) и админ-команды:
// сброс кэша истории и рассылку подписчикам.
// models.go описывает структуры сессий и попыток входа.
package admin

import "time"

// AdminSession — активная сессия администратора.
type AdminSession struct {
	ID              int64     `db:"id"`
	UserID          int64     `db:"user_id"`
	SessionToken    string    `db:"session_token"`
	AuthenticatedAt time.Time `db:"authenticated_at"`
	ExpiresAt       time.Time `db:"expires_at"`
	LastActivity    time.Time `db:"last_activity"`
	IsActive        bool      `db:"is_active"`
}

// LoginAttempt — попытка входа (для защиты от brute-force).
type LoginAttempt struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	AttemptTime time.Time `db:"attempt_time"`
	Success     bool      `db:"success"`
}

const (
	// SessionTTL — сколько живёт сессия после входа.
	SessionTTL = 24 * time.Hour
	// AttemptWindow — окно подсчёта неудачных попыток.
	AttemptWindow = time.Hour
	// MaxAttempts — после стольких неудач в окне вход блокируется.
	MaxAttempts = 3
)
