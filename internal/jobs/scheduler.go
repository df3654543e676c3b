// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: ежедневный отчёт после розыгрыша,
// опрос live-страницы во время розыгрыша и ночную чистку админ-таблиц.
package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"soicau.vn/xsmb-bot/internal/common"
	"soicau.vn/xsmb-bot/internal/features/bridge"
	"soicau.vn/xsmb-bot/internal/features/subscribers"
	"soicau.vn/xsmb-bot/internal/live"
)

// Reporter — то, что умеет собрать отчёт и опросить live (*bridge.Service).
type Reporter interface {
	DailyReport(ctx context.Context) (string, error)
	PollLive(ctx context.Context) (*live.Snapshot, error)
}

// Broadcaster рассылает текст подписчикам (*subscribers.Service).
type Broadcaster interface {
	Broadcast(ctx context.Context, text string) (*subscribers.BroadcastResult, error)
}

// Invalidator сбрасывает кэш истории (*source.Cache).
type Invalidator interface {
	Invalidate()
}

// Purger чистит устаревшие записи (*admin.Service).
type Purger interface {
	Purge(ctx context.Context) error
}

// Config — расписания и флаги задач.
type Config struct {
	ReportCron    string
	LiveCron      string
	ReportEnabled bool
	LiveEnabled   bool
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron        *cron.Cron
	cfg         Config
	reporter    Reporter
	broadcaster Broadcaster
	cache       Invalidator
	purger      Purger
}

// NewScheduler создаёт планировщик задач с часовым поясом Ханоя.
// Задача, не успевшая завершиться к следующему запуску, пропускает запуск.
func NewScheduler(cfg Config, reporter Reporter, broadcaster Broadcaster, cache Invalidator, purger Purger) *Scheduler {
	logger := cronLogger{}
	c := cron.New(
		cron.WithLocation(common.HanoiLocation()),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	return &Scheduler{
		cron:        c,
		cfg:         cfg,
		reporter:    reporter,
		broadcaster: broadcaster,
		cache:       cache,
		purger:      purger,
	}
}

// Start регистрирует задачи и запускает планировщик.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.ReportEnabled {
		if _, err := s.cron.AddFunc(s.cfg.ReportCron, func() {
			log.Info("[CRON] Ежедневный отчёт")
			if err := s.RunReport(ctx); err != nil {
				log.WithError(err).Error("[CRON] Ошибка отчёта")
			}
		}); err != nil {
			return fmt.Errorf("REPORT_CRON %q: %w", s.cfg.ReportCron, err)
		}
	}

	if s.cfg.LiveEnabled {
		if _, err := s.cron.AddFunc(s.cfg.LiveCron, func() {
			log.Debug("[CRON] Опрос live")
			if err := s.RunLive(ctx); err != nil {
				log.WithError(err).Warn("[CRON] Ошибка опроса live")
			}
		}); err != nil {
			return fmt.Errorf("LIVE_CRON %q: %w", s.cfg.LiveCron, err)
		}
	}

	// Чистка сессий и попыток входа в 03:00
	if _, err := s.cron.AddFunc("0 3 * * *", func() {
		if err := s.purger.Purge(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка чистки админ-таблиц")
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.WithFields(log.Fields{
		"report": s.cfg.ReportCron,
		"live":   s.cfg.LiveCron,
	}).Info("Планировщик задач запущен (" + common.HanoiZone + ")")
	return nil
}

// Stop останавливает планировщик и ждёт выполняющиеся задачи.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

// RunReport сбрасывает кэш (нужен свежий тираж), собирает отчёт и рассылает его.
func (s *Scheduler) RunReport(ctx context.Context) error {
	s.cache.Invalidate()

	text, err := s.reporter.DailyReport(ctx)
	if err != nil {
		return err
	}
	res, err := s.broadcaster.Broadcast(ctx, text)
	if err != nil {
		return err
	}
	log.WithField("sent", res.Sent).Info("[CRON] Отчёт разослан")
	return nil
}

// RunLive опрашивает live и рассылает только новые срабатывания.
func (s *Scheduler) RunLive(ctx context.Context) error {
	snap, err := s.reporter.PollLive(ctx)
	if err != nil {
		return err
	}
	if len(snap.New) == 0 {
		return nil
	}
	_, err = s.broadcaster.Broadcast(ctx, bridge.FormatSnapshot(snap))
	return err
}

// cronLogger направляет лог cron в logrus.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.WithFields(kvFields(keysAndValues)).Debug("[CRON] " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.WithError(err).WithFields(kvFields(keysAndValues)).Error("[CRON] " + msg)
}

func kvFields(kv []interface{}) log.Fields {
	fields := log.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return fields
}
