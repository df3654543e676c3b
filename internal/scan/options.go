// Package scan ищет «cầu» — позиции и призы, значения которых несколько
// тиражей подряд совпадали с «đề».
//
// options.go описывает режимы сравнения и параметры поиска.
package scan

import (
	"fmt"
	"strings"

	"soicau.vn/xsmb-bot/internal/xsmb"
)

// MatchMode — правило сравнения значения с целью.
type MatchMode int

const (
	// Exact — значение равно «đề».
	Exact MatchMode = iota
	// ExactOrReversed — значение равно «đề» или перевёрнутому «đề».
	ExactOrReversed
	// SameBucket — значение из той же группы bộ đề, что и «đề».
	SameBucket
)

func (m MatchMode) String() string {
	switch m {
	case Exact:
		return "exact"
	case ExactOrReversed:
		return "exact-or-reversed"
	case SameBucket:
		return "same-bucket"
	default:
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
}

// ParseMatchMode разбирает режим из аргумента команды.
// Понимает полные имена и короткие формы: "rev", "dao", "bo".
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact", "chinh":
		return Exact, nil
	case "exact-or-reversed", "rev", "dao", "lon":
		return ExactOrReversed, nil
	case "same-bucket", "bo", "bode":
		return SameBucket, nil
	}
	return Exact, fmt.Errorf("неизвестный режим %q", s)
}

// Match проверяет значение value против цели target в режиме m.
func (m MatchMode) Match(value, target string) bool {
	switch m {
	case Exact:
		return value == target
	case ExactOrReversed:
		return value == target || value == xsmb.Reverse(target)
	case SameBucket:
		b := xsmb.BoDeOf(value)
		return b != "" && b == xsmb.BoDeOf(target)
	}
	return false
}

// Lag — сдвиг между тиражом-источником значения и тиражом-целью.
type Lag int

const (
	// SameDay — значение и «đề» из одного тиража, спецприз исключён.
	SameDay Lag = 0
	// NextDay — значение тиража k+1 сравнивается с «đề» тиража k;
	// значение на последнем тираже — прогноз на следующий.
	NextDay Lag = 1
)

// Options — параметры одного поиска.
type Options struct {
	Mode      MatchMode
	MinStreak int // меньше 1 трактуется как 1
	Lag       Lag
	Limit     int // 0 — без ограничения
}

func (o Options) minStreak() int {
	if o.MinStreak < 1 {
		return 1
	}
	return o.MinStreak
}

// domainStart — первое смещение области поиска позиций.
func (o Options) domainStart() int {
	if o.Lag == SameDay {
		return xsmb.BodyStart
	}
	return 0
}
