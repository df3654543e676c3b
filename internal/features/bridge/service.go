// Package bridge — «soi cầu»: поиск cầu по истории, разбор дня, live и вставленный результат.
// service.go содержит бизнес-логику, handlers.go — ответы в Telegram.
package bridge

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"soicau.vn/xsmb-bot/internal/common"
	"soicau.vn/xsmb-bot/internal/live"
	"soicau.vn/xsmb-bot/internal/scan"
	"soicau.vn/xsmb-bot/internal/source"
	"soicau.vn/xsmb-bot/internal/xsmb"
)

// DrawProvider отдаёт историю тиражей (обычно *source.Cache).
type DrawProvider interface {
	Draws(ctx context.Context) (*source.FetchResult, error)
}

// Service ищет cầu и сверяет их с live/вставленным результатом.
type Service struct {
	draws     DrawProvider
	live      live.Source
	monitor   *live.Monitor
	minStreak int
	top       int
}

// NewService создаёт сервис. liveSrc может быть nil, если live выключен.
func NewService(draws DrawProvider, liveSrc live.Source, minStreak, top int) *Service {
	s := &Service{
		draws:     draws,
		live:      liveSrc,
		minStreak: minStreak,
		top:       top,
	}
	if liveSrc != nil {
		s.monitor = live.NewMonitor(liveSrc)
	}
	return s
}

// DefaultOptions — точный режим, тот же день, пороги из конфига.
func (s *Service) DefaultOptions() scan.Options {
	return scan.Options{Mode: scan.Exact, MinStreak: s.minStreak, Lag: scan.SameDay, Limit: s.top}
}

// PositionReport — результат поиска по парам позиций.
type PositionReport struct {
	Latest  xsmb.DrawRecord
	Draws   int
	Dropped int
	Options scan.Options
	Bridges []scan.PositionBridge
}

// TierReport — результат поиска по призам.
type TierReport struct {
	Latest  xsmb.DrawRecord
	Draws   int
	Options scan.Options
	Bridges []scan.PrizeBridge
}

// history загружает тиражи и проверяет, что их хватает для сдвига lag.
func (s *Service) history(ctx context.Context, need int) (*source.FetchResult, error) {
	res, err := s.draws.Draws(ctx)
	if err != nil {
		return nil, err
	}
	if len(res.Draws) < need {
		return nil, fmt.Errorf("%w: есть %d, нужно %d", common.ErrNotEnoughDraws, len(res.Draws), need)
	}
	return res, nil
}

// ScanPositions ищет пары позиций.
func (s *Service) ScanPositions(ctx context.Context, opts scan.Options) (*PositionReport, error) {
	res, err := s.history(ctx, int(opts.Lag)+1)
	if err != nil {
		return nil, err
	}

	bridges := scan.Positions(res.Draws, opts)
	log.WithFields(log.Fields{
		"mode":    opts.Mode.String(),
		"lag":     int(opts.Lag),
		"draws":   len(res.Draws),
		"bridges": len(bridges),
	}).Debug("Поиск по позициям завершён")

	return &PositionReport{
		Latest:  res.Draws[0],
		Draws:   len(res.Draws),
		Dropped: res.Dropped,
		Options: opts,
		Bridges: bridges,
	}, nil
}

// ScanTiers ищет призы, содержащие обе цифры «đề».
func (s *Service) ScanTiers(ctx context.Context, opts scan.Options) (*TierReport, error) {
	res, err := s.history(ctx, int(opts.Lag)+1)
	if err != nil {
		return nil, err
	}
	return &TierReport{
		Latest:  res.Draws[0],
		Draws:   len(res.Draws),
		Options: opts,
		Bridges: scan.Tiers(res.Draws, opts),
	}, nil
}

// Day разбирает тираж k (0 — последний).
func (s *Service) Day(ctx context.Context, k int) (*scan.DayAnalysis, error) {
	res, err := s.history(ctx, 1)
	if err != nil {
		return nil, err
	}
	if k < 0 || k >= len(res.Draws) {
		return nil, fmt.Errorf("%w: k=%d, загружено %d", common.ErrDrawIndex, k, len(res.Draws))
	}
	a := scan.AnalyzeDay(res.Draws[k])
	return &a, nil
}

// CommonReport — пары, давшие «đề» в двух последних тиражах.
type CommonReport struct {
	Today     scan.DayAnalysis
	Yesterday scan.DayAnalysis
	Pairs     []scan.CommonPair
}

// Common сравнивает два последних тиража.
func (s *Service) Common(ctx context.Context) (*CommonReport, error) {
	res, err := s.history(ctx, 2)
	if err != nil {
		return nil, err
	}
	today := scan.AnalyzeDay(res.Draws[0])
	yesterday := scan.AnalyzeDay(res.Draws[1])
	return &CommonReport{
		Today:     today,
		Yesterday: yesterday,
		Pairs:     scan.CommonPairs(today, yesterday),
	}, nil
}

// Reconciliation — доска live/вставки и сработавшие на ней cầu.
type Reconciliation struct {
	Board   *live.Board
	Bridges []scan.PositionBridge
	Firings []live.Firing
	Tiers   []live.TierFiring
	Values  int // сколько значений призов распознано (для вставки)
}

// Live загружает live-страницу и сверяет с текущими cầu.
func (s *Service) Live(ctx context.Context) (*Reconciliation, error) {
	if s.live == nil {
		return nil, fmt.Errorf("%w: live выключен", common.ErrFetch)
	}
	str, err := s.live.FetchLive(ctx)
	if err != nil {
		return nil, err
	}
	return s.reconcile(ctx, live.NewBoard(str))
}

// Reconcile разбирает вставленный текст и сверяет с текущими cầu.
func (s *Service) Reconcile(ctx context.Context, text string) (*Reconciliation, error) {
	parsed := source.ParsePasted(text)
	rec, err := s.reconcile(ctx, live.NewBoard(parsed.Body()))
	if err != nil {
		return nil, err
	}
	rec.Values = parsed.Values()
	return rec, nil
}

func (s *Service) reconcile(ctx context.Context, board *live.Board) (*Reconciliation, error) {
	pos, err := s.ScanPositions(ctx, s.DefaultOptions())
	if err != nil {
		return nil, err
	}
	tiers, err := s.ScanTiers(ctx, s.DefaultOptions())
	if err != nil {
		return nil, err
	}
	return &Reconciliation{
		Board:   board,
		Bridges: pos.Bridges,
		Firings: live.Fire(board, pos.Bridges),
		Tiers:   live.FireTiers(board, tiers.Bridges),
	}, nil
}

// PollLive — один шаг live-монитора для планировщика: только новые за сегодня срабатывания.
func (s *Service) PollLive(ctx context.Context) (*live.Snapshot, error) {
	if s.monitor == nil {
		return nil, fmt.Errorf("%w: live выключен", common.ErrFetch)
	}
	// После заполнения доски кэш уже может содержать сегодняшний тираж,
	// и скан выдал бы новые мосты, «сработавшие» разом.
	if s.monitor.Finished() {
		return s.monitor.Poll(ctx, nil)
	}
	pos, err := s.ScanPositions(ctx, s.DefaultOptions())
	if err != nil {
		return nil, err
	}
	return s.monitor.Poll(ctx, pos.Bridges)
}

// DailyReport собирает текст ежедневного отчёта: cầu на завтра и разбор дня.
func (s *Service) DailyReport(ctx context.Context) (string, error) {
	next := s.DefaultOptions()
	next.Lag = scan.NextDay
	pos, err := s.ScanPositions(ctx, next)
	if err != nil {
		return "", err
	}
	tiers, err := s.ScanTiers(ctx, s.DefaultOptions())
	if err != nil {
		return "", err
	}
	day := scan.AnalyzeDay(pos.Latest)

	return FormatPositions(pos) + "\n\n" + FormatTiers(tiers) + "\n\n" + FormatDay(&day), nil
}
