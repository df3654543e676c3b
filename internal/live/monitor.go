// Package live — monitor.go опрашивает live-страницу и выдаёт только новые срабатывания.
// Доска и список отправленного живут до смены дня по Ханою.
package live

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"soicau.vn/xsmb-bot/internal/common"
	"soicau.vn/xsmb-bot/internal/scan"
)

// Source отдаёт текущую строку live из 107 символов.
type Source interface {
	FetchLive(ctx context.Context) (string, error)
}

// Snapshot — итог одного опроса.
type Snapshot struct {
	Day      string
	Added    int // новых цифр за этот опрос
	Progress int
	Complete bool
	Stale    bool // страница ещё показывает прошлый тираж
	Board    string
	New      []Firing // ещё не отправлявшиеся сегодня
}

// Monitor хранит доску текущего дня.
type Monitor struct {
	src Source
	now func() time.Time

	mu    sync.Mutex
	day   string
	board *Board
	sent  map[string]bool
}

// NewMonitor создаёт монитор поверх источника live.
func NewMonitor(src Source) *Monitor {
	return &Monitor{
		src:   src,
		now:   common.GetHanoiTime,
		board: NewBoard(""),
		sent:  make(map[string]bool),
	}
}

// rollover сбрасывает доску при смене дня. Вызывать под mu.
func (m *Monitor) rollover() string {
	day := common.DayKey(m.now())
	if day != m.day {
		if m.day != "" {
			log.WithFields(log.Fields{"from": m.day, "to": day}).Info("Новый день: доска live сброшена")
		}
		m.day = day
		m.board.Reset()
		m.sent = make(map[string]bool)
	}
	return day
}

// Finished сообщает, что сегодняшний тираж уже полностью на доске.
func (m *Monitor) Finished() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollover()
	return m.board.Complete()
}

// Poll загружает live, дописывает доску и возвращает срабатывания, которых
// сегодня ещё не было. Ошибка источника доску не трогает.
//
// Полностью заполненная страница на пустой доске — это прошлый тираж
// (розыгрыш ещё не начался): такая страница отбрасывается.
// После заполнения доски источник больше не опрашивается до следующего дня.
func (m *Monitor) Poll(ctx context.Context, bridges []scan.PositionBridge) (*Snapshot, error) {
	if m.Finished() {
		m.mu.Lock()
		defer m.mu.Unlock()
		return &Snapshot{Day: m.day, Progress: m.board.Progress(), Complete: true, Board: m.board.String()}, nil
	}

	page, err := m.src.FetchLive(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	day := m.rollover()

	if m.board.Progress() == 0 && NewBoard(page).Complete() {
		log.WithField("day", day).Info("Live-страница показывает прошлый тираж, пропускаем")
		return &Snapshot{Day: day, Stale: true, Board: m.board.String()}, nil
	}

	snap := &Snapshot{Day: day, Added: m.board.Update(page)}
	snap.Progress = m.board.Progress()
	snap.Complete = m.board.Complete()
	snap.Board = m.board.String()

	for _, f := range Fire(m.board, bridges) {
		if m.sent[f.Key()] {
			continue
		}
		m.sent[f.Key()] = true
		snap.New = append(snap.New, f)
	}

	log.WithFields(log.Fields{
		"day":      day,
		"added":    snap.Added,
		"progress": snap.Progress,
		"firings":  len(snap.New),
	}).Debug("Опрос live")
	return snap, nil
}
