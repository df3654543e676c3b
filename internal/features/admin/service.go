// Package admin — service.go содержит логику аутентификации и админ-действий.
package admin

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"soicau.vn/xsmb-bot/internal/common"
	"soicau.vn/xsmb-bot/internal/features/subscribers"
)

// Store — операции с админ-таблицами (*Repository в проде).
type Store interface {
	CreateSession(ctx context.Context, session *AdminSession) error
	GetActiveSession(ctx context.Context, userID int64) (*AdminSession, error)
	DeactivateSession(ctx context.Context, userID int64) error
	UpdateActivity(ctx context.Context, userID int64) error
	LogAttempt(ctx context.Context, userID int64, success bool) error
	GetRecentAttempts(ctx context.Context, userID int64, period time.Duration) (int, error)
	PurgeExpired(ctx context.Context, keep time.Duration) (int64, error)
}

// CacheInvalidator сбрасывает кэш истории (*source.Cache).
type CacheInvalidator interface {
	Invalidate()
}

// Broadcaster рассылает текст подписчикам (*subscribers.Service).
type Broadcaster interface {
	Broadcast(ctx context.Context, text string) (*subscribers.BroadcastResult, error)
}

// Service управляет входом и админ-действиями.
type Service struct {
	repo         Store
	isAdmin      func(userID int64) bool
	passwordHash string
	cache        CacheInvalidator
	broadcaster  Broadcaster
	now          func() time.Time
}

// NewService создаёт сервис. isAdmin — проверка по ADMIN_IDS.
func NewService(repo Store, isAdmin func(int64) bool, passwordHash string, cache CacheInvalidator, broadcaster Broadcaster) *Service {
	return &Service{
		repo:         repo,
		isAdmin:      isAdmin,
		passwordHash: passwordHash,
		cache:        cache,
		broadcaster:  broadcaster,
		now:          time.Now,
	}
}

// Login проверяет пароль администратора с использованием Argon2id.
// Включает защиту от brute-force: 3 неудачные попытки = блокировка на 1 час.
func (s *Service) Login(ctx context.Context, userID int64, password string) error {
	if !s.isAdmin(userID) {
		return common.ErrNotAdmin
	}

	attempts, err := s.repo.GetRecentAttempts(ctx, userID, AttemptWindow)
	if err != nil {
		return err
	}
	if attempts >= MaxAttempts {
		return common.ErrTooManyAttempts
	}

	match := verifyArgon2id(password, s.passwordHash)

	if err := s.repo.LogAttempt(ctx, userID, match); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Не удалось записать попытку входа")
	}

	if !match {
		log.WithFields(log.Fields{"user_id": userID, "attempt": attempts + 1}).Warn("Неверный пароль администратора")
		return common.ErrWrongPassword
	}

	session := &AdminSession{
		UserID:       userID,
		SessionToken: generateSecureToken(),
		ExpiresAt:    s.now().Add(SessionTTL),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return err
	}
	log.WithField("user_id", userID).Info("Администратор вошёл")
	return nil
}

// Logout закрывает сессии пользователя.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.repo.DeactivateSession(ctx, userID)
}

// Authorize проверяет права и активную сессию, продлевая активность.
func (s *Service) Authorize(ctx context.Context, userID int64) error {
	if !s.isAdmin(userID) {
		return common.ErrNotAdmin
	}
	session, err := s.repo.GetActiveSession(ctx, userID)
	if err != nil || session == nil {
		return common.ErrSessionExpired
	}
	if err := s.repo.UpdateActivity(ctx, userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Debug("UpdateActivity failed")
	}
	return nil
}

// Refresh сбрасывает кэш истории: следующий запрос пойдёт в API.
func (s *Service) Refresh(ctx context.Context, userID int64) error {
	if err := s.Authorize(ctx, userID); err != nil {
		return err
	}
	s.cache.Invalidate()
	log.WithField("user_id", userID).Info("Кэш истории сброшен администратором")
	return nil
}

// Broadcast рассылает текст всем подписчикам.
func (s *Service) Broadcast(ctx context.Context, userID int64, text string) (*subscribers.BroadcastResult, error) {
	if err := s.Authorize(ctx, userID); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: пустой текст рассылки", common.ErrBadArgs)
	}
	return s.broadcaster.Broadcast(ctx, text)
}

// Purge чистит старые сессии и попытки входа (вызывается планировщиком).
func (s *Service) Purge(ctx context.Context) error {
	n, err := s.repo.PurgeExpired(ctx, 7*24*time.Hour)
	if err != nil {
		return err
	}
	if n > 0 {
		log.WithField("rows", n).Info("Старые сессии и попытки входа удалены")
	}
	return nil
}

// --- Криптографические утилиты ---

// verifyArgon2id проверяет пароль по хешу Argon2id.
// Формат хеша: $argon2id$v=19$m=65536,t=3,p=2$<salt_base64>$<hash_base64>
func verifyArgon2id(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		log.Error("Некорректный формат хеша Argon2id")
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		log.WithField("version", parts[2]).Error("Неподдерживаемая версия Argon2id")
		return false
	}

	var memory uint32
	var iterations uint32
	var parallelism uint8
	_, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism)
	if err != nil {
		log.WithError(err).Error("Ошибка парсинга параметров Argon2id")
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования соли")
		return false
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expectedHash) == 0 {
		log.WithError(err).Error("Ошибка декодирования хеша")
		return false
	}

	computedHash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expectedHash)))

	// Сравнение в постоянном времени
	return subtle.ConstantTimeCompare(computedHash, expectedHash) == 1
}

// EncodeArgon2id строит хеш в формате, который понимает verifyArgon2id.
func EncodeArgon2id(password string, salt []byte, memory, iterations uint32, parallelism uint8) string {
	hash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, 32)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, memory, iterations, parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)
}

// generateSecureToken генерирует криптографически безопасный токен сессии.
func generateSecureToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return base64.URLEncoding.EncodeToString(b)
}
