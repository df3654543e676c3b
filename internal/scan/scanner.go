// Package scan — scanner.go содержит единый подсчёт серии и два сканера поверх него:
// по парам позиций и по призам.
package scan

import (
	"fmt"
	"sort"
	"strings"

	"soicau.vn/xsmb-bot/internal/xsmb"
)

// PositionBridge — пара позиций (I, J), значение которой держится Streak тиражей подряд.
type PositionBridge struct {
	I      int
	J      int
	Streak int
	Value  string // Body[I]+Body[J] на последнем тираже
}

// Name возвращает человекочитаемое имя пары: "G3.2.1 + G7.4.2".
func (b PositionBridge) Name() string {
	return xsmb.PositionName(b.I) + " + " + xsmb.PositionName(b.J)
}

// PrizeBridge — приз, в котором обе цифры «đề» встречались Streak тиражей подряд.
type PrizeBridge struct {
	Tier   xsmb.Tier
	Val    string // значение приза на последнем тираже
	Streak int
}

// Streak считает, сколько тиражей подряд, начиная с самого свежего (k = 0),
// выполняется hit(k). Проверяются только k, для которых k+lag < n.
// На первом промахе счёт останавливается, дальше тиражи не смотрятся.
func Streak(n int, lag Lag, hit func(k int) bool) int {
	streak := 0
	for k := 0; k+int(lag) < n; k++ {
		if !hit(k) {
			break
		}
		streak++
	}
	return streak
}

// Positions перебирает все упорядоченные пары позиций (i ≠ j) и возвращает те,
// чья серия не короче opts.MinStreak. draws[0] — самый свежий тираж.
//
// Сложность O(W²·D): для W=102 и D=50 это около 500 тыс. сравнений.
func Positions(draws []xsmb.DrawRecord, opts Options) []PositionBridge {
	lag := int(opts.Lag)
	if len(draws) <= lag {
		return nil
	}
	minStreak := opts.minStreak()

	var out []PositionBridge
	for i := opts.domainStart(); i < xsmb.DrawLength; i++ {
		for j := opts.domainStart(); j < xsmb.DrawLength; j++ {
			if i == j {
				continue
			}
			s := Streak(len(draws), opts.Lag, func(k int) bool {
				return opts.Mode.Match(draws[k+lag].Pair(i, j), draws[k].De())
			})
			if s < minStreak {
				continue
			}
			out = append(out, PositionBridge{
				I:      i,
				J:      j,
				Streak: s,
				Value:  draws[0].Pair(i, j),
			})
		}
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].Streak > out[b].Streak })
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

// Tiers проверяет 26 призов (без спецприза): обе цифры «đề» должны встречаться
// в значении приза. В режиме SameBucket достаточно любого числа из группы bộ đề.
// Для ExactOrReversed результат совпадает с Exact — порядок цифр не важен.
func Tiers(draws []xsmb.DrawRecord, opts Options) []PrizeBridge {
	lag := int(opts.Lag)
	if len(draws) <= lag {
		return nil
	}
	minStreak := opts.minStreak()

	var out []PrizeBridge
	for _, tier := range xsmb.BodyTiers() {
		s := Streak(len(draws), opts.Lag, func(k int) bool {
			return tierContains(tier.Value(draws[k+lag].Body), draws[k].De(), opts.Mode)
		})
		if s < minStreak {
			continue
		}
		out = append(out, PrizeBridge{
			Tier:   tier,
			Val:    tier.Value(draws[0].Body),
			Streak: s,
		})
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].Streak > out[b].Streak })
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

func tierContains(val, target string, mode MatchMode) bool {
	if mode != SameBucket {
		return hasDigits(val, target)
	}
	for _, n := range xsmb.BoDeMembers(xsmb.BoDeOf(target)) {
		if hasDigits(val, n) {
			return true
		}
	}
	return false
}

func hasDigits(val, n string) bool {
	if len(n) != 2 {
		return false
	}
	return strings.IndexByte(val, n[0]) >= 0 && strings.IndexByte(val, n[1]) >= 0
}

// Describe — короткое описание параметров поиска для логов и ответов.
func (o Options) Describe() string {
	lag := "cùng ngày"
	if o.Lag == NextDay {
		lag = "ngày sau"
	}
	return fmt.Sprintf("%s, %s, ≥%d", o.Mode, lag, o.minStreak())
}
