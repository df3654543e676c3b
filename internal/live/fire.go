// Package live — fire.go проверяет, какие «cầu» уже можно прочитать на доске.
package live

import (
	"soicau.vn/xsmb-bot/internal/scan"
)

// Firing — сработавший «cầu» по позициям: обе ячейки заполнены, Value — их значение
// на доске. Сравнение с «đề» не делается: спецприз выпадает последним.
type Firing struct {
	Bridge scan.PositionBridge
	Value  string
}

// Key — ключ для дедупликации в пределах дня.
func (f Firing) Key() string { return "p:" + f.Bridge.Name() }

// TierFiring — приз, значение которого выпало целиком.
type TierFiring struct {
	Bridge scan.PrizeBridge
	Value  string
}

// Key — ключ для дедупликации в пределах дня.
func (f TierFiring) Key() string { return "t:" + f.Bridge.Tier.Name }

// Fire возвращает «cầu», у которых заполнены обе позиции, в порядке bridges.
//
// Пример:
//
//	board: "?????45021…"  bridge {I: 5, J: 9}  → Firing{Value: "41"}
func Fire(board *Board, bridges []scan.PositionBridge) []Firing {
	var out []Firing
	for _, b := range bridges {
		if !board.Filled(b.I) || !board.Filled(b.J) {
			continue
		}
		out = append(out, Firing{
			Bridge: b,
			Value:  string([]byte{board.At(b.I), board.At(b.J)}),
		})
	}
	return out
}

// FireTiers возвращает призы, все цифры которых уже на доске.
func FireTiers(board *Board, bridges []scan.PrizeBridge) []TierFiring {
	var out []TierFiring
	for _, b := range bridges {
		filled := true
		for i := b.Tier.Start; i < b.Tier.End(); i++ {
			if !board.Filled(i) {
				filled = false
				break
			}
		}
		if !filled {
			continue
		}
		out = append(out, TierFiring{
			Bridge: b,
			Value:  board.String()[b.Tier.Start:b.Tier.End()],
		})
	}
	return out
}
