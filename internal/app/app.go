// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, источники данных, репозитории, сервисы,
// обработчики, фильтры и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"

	"soicau.vn/xsmb-bot/internal/bot"
	"soicau.vn/xsmb-bot/internal/bot/filters"
	"soicau.vn/xsmb-bot/internal/config"
	"soicau.vn/xsmb-bot/internal/db/postgres"
	"soicau.vn/xsmb-bot/internal/features/admin"
	"soicau.vn/xsmb-bot/internal/features/bridge"
	"soicau.vn/xsmb-bot/internal/features/subscribers"
	"soicau.vn/xsmb-bot/internal/jobs"
	"soicau.vn/xsmb-bot/internal/live"
	"soicau.vn/xsmb-bot/internal/source"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	BotAPI    *telego.Bot
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := postgres.RunMigrations(ctx, pool, migrations); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Telegram Bot API ===
	var opts []telego.BotOption
	if cfg.AppEnv == "development" {
		opts = append(opts, telego.WithLogger(log.StandardLogger()))
	}
	botAPI, err := telego.NewBot(cfg.TelegramBotToken, opts...)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	me, err := botAPI.GetMe(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка авторизации в Telegram: %w", err)
	}
	log.Infof("Авторизован как @%s", me.Username)

	// === 3. Источники данных ===
	api := source.NewAPIClient(source.APIConfig{
		URL:      cfg.APIURL,
		GameCode: cfg.APIGameCode,
		Timeout:  cfg.FetchTimeout,
		Retries:  cfg.FetchRetries,
	})
	cache := source.NewCache(api, cfg.APILimit, cfg.CacheTTL)

	var liveSrc live.Source
	if cfg.FeatureLiveEnabled {
		liveSrc = source.NewScraper(cfg.LiveURL, cfg.FetchTimeout)
	}

	// === 4. Репозитории ===
	subscriberRepo := subscribers.NewRepository(pool)
	adminRepo := admin.NewRepository(pool)

	// === 5. Сервисы ===
	bridgeService := bridge.NewService(cache, liveSrc, cfg.ScanMinStreak, cfg.ScanTop)
	subscriberService := subscribers.NewService(subscriberRepo, botAPI, cfg.BotMessageLimit)
	adminService := admin.NewService(adminRepo, cfg.IsAdmin, cfg.AdminPasswordHash, cache, subscriberService)

	// === 6. Обработчики ===
	bridgeHandler := bridge.NewHandler(bridgeService, botAPI, cfg.BotMessageLimit)
	subscriberHandler := subscribers.NewHandler(subscriberService, botAPI)
	adminHandler := admin.NewHandler(adminService, botAPI)

	// === 7. Фильтры ===
	chatFilter := filters.NewChatFilter(cfg.AllowedChatIDs)

	// === 8. Собираем бота ===
	b := bot.New(botAPI, cfg, bridgeHandler, subscriberHandler, adminHandler, chatFilter)

	// === 9. Планировщик задач ===
	scheduler := jobs.NewScheduler(jobs.Config{
		ReportCron:    cfg.ReportCron,
		LiveCron:      cfg.LiveCron,
		ReportEnabled: cfg.FeatureReportEnabled,
		LiveEnabled:   cfg.FeatureLiveEnabled,
	}, bridgeService, subscriberService, cache, adminService)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		BotAPI:    botAPI,
	}, nil
}

// SQL-миграции встроены в код для упрощения деплоя.
var migrations = []postgres.Migration{
	{Version: 1, SQL: migration001Subscribers},
	{Version: 2, SQL: migration002Admin},
}

var migration001Subscribers = `
CREATE TABLE IF NOT EXISTS subscribers (
    id BIGSERIAL PRIMARY KEY,
    chat_id BIGINT UNIQUE NOT NULL,
    title VARCHAR(255) NOT NULL DEFAULT '',
    subscribed_by BIGINT NOT NULL,
    is_active BOOLEAN DEFAULT TRUE,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW(),
    last_sent_at TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_subscribers_active ON subscribers(is_active);
`

var migration002Admin = `
CREATE TABLE IF NOT EXISTS admin_sessions (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL,
    session_token VARCHAR(255) UNIQUE,
    authenticated_at TIMESTAMP DEFAULT NOW(),
    expires_at TIMESTAMP,
    last_activity TIMESTAMP DEFAULT NOW(),
    is_active BOOLEAN DEFAULT TRUE
);
CREATE INDEX IF NOT EXISTS idx_admin_sessions_user_id ON admin_sessions(user_id);
CREATE TABLE IF NOT EXISTS admin_login_attempts (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT,
    attempt_time TIMESTAMP DEFAULT NOW(),
    success BOOLEAN DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_admin_login_attempts_user ON admin_login_attempts(user_id, attempt_time);
`
