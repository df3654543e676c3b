// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Telegram ---
	TelegramBotToken string  `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	AdminIDsRaw      string  `envconfig:"ADMIN_IDS" required:"true"`
	AdminIDs         []int64 `envconfig:"-"` // заполняется в Load
	// Групповые чаты, где бот отвечает. Пусто — любые группы. Личка разрешена всегда.
	AllowedChatIDsRaw string  `envconfig:"ALLOWED_CHAT_IDS"`
	AllowedChatIDs    []int64 `envconfig:"-"`

	// --- Database ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose), для локалки DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"soicau"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"soicau"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"2"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`

	// --- Bot runtime ---
	// Сколько апдейтов обрабатываем параллельно. Иначе "go на каждый апдейт" = утечка памяти при флуде.
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"32"`
	// Таймаут long polling (секунды)
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`
	// Telegram режет сообщения длиннее 4096 символов
	BotMessageLimit int `envconfig:"BOT_MESSAGE_LIMIT" default:"4000"`

	// --- Admin ---
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH" required:"true"`

	// --- Источник истории (JSON API) ---
	APIURL       string        `envconfig:"XSMB_API_URL" default:"https://www.kqxs88.live/api/front/open/lottery/history/list/game"`
	APIGameCode  string        `envconfig:"XSMB_GAME_CODE" default:"miba"`
	APILimit     int           `envconfig:"XSMB_API_LIMIT" default:"50"`
	FetchTimeout time.Duration `envconfig:"XSMB_FETCH_TIMEOUT" default:"10s"`
	FetchRetries uint64        `envconfig:"XSMB_FETCH_RETRIES" default:"2"`
	CacheTTL     time.Duration `envconfig:"XSMB_CACHE_TTL" default:"10m"`

	// --- Live-страница ---
	LiveURL string `envconfig:"XSMB_LIVE_URL" default:"https://www.minhngoc.net.vn/xo-so-truc-tiep/mien-bac.html"`

	// --- Поиск ---
	ScanMinStreak int `envconfig:"SCAN_MIN_STREAK" default:"2"`
	ScanTop       int `envconfig:"SCAN_TOP" default:"20"`

	// --- Расписание (cron, часовой пояс Asia/Ho_Chi_Minh) ---
	ReportCron string `envconfig:"REPORT_CRON" default:"40 18 * * *"`
	LiveCron   string `envconfig:"LIVE_CRON" default:"15-59/2 18 * * *"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Feature Flags ---
	FeatureReportEnabled bool `envconfig:"FEATURE_REPORT_ENABLED" default:"true"`
	FeatureLiveEnabled   bool `envconfig:"FEATURE_LIVE_ENABLED" default:"true"`
	FeaturePasteEnabled  bool `envconfig:"FEATURE_PASTE_ENABLED" default:"true"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// IsAdmin проверяет, есть ли userID в ADMIN_IDS.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Validate проверяет значения, которые envconfig проверить не может.
func (c *Config) Validate() error {
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if c.BotMessageLimit <= 0 || c.BotMessageLimit > 4096 {
		return fmt.Errorf("BOT_MESSAGE_LIMIT должен быть в диапазоне 1..4096")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if c.APILimit < 2 {
		return fmt.Errorf("XSMB_API_LIMIT должен быть >= 2")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("XSMB_FETCH_TIMEOUT должен быть > 0")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("XSMB_CACHE_TTL не может быть отрицательным")
	}
	if c.ScanMinStreak < 1 {
		return fmt.Errorf("SCAN_MIN_STREAK должен быть >= 1")
	}
	if c.ScanTop <= 0 {
		return fmt.Errorf("SCAN_TOP должен быть > 0")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	ids, err := parseInt64CSV(cfg.AdminIDsRaw)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_IDS parse: %w", err)
	}
	cfg.AdminIDs = ids

	chats, err := parseInt64CSV(cfg.AllowedChatIDsRaw)
	if err != nil {
		return nil, fmt.Errorf("ALLOWED_CHAT_IDS parse: %w", err)
	}
	cfg.AllowedChatIDs = chats

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseInt64CSV(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad int64 %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}
