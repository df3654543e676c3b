// Package live следит за розыгрышем, который ещё идёт: цифры появляются
// постепенно, а «cầu» срабатывает, как только заполнены обе его позиции.
//
// board.go — доска из 107 ячеек, которая только заполняется.
package live

import (
	"fmt"
	"strings"

	"soicau.vn/xsmb-bot/internal/xsmb"
)

// Board — текущее состояние тиража. Ячейка, получившая цифру, больше не меняется:
// опечатки поздних обновлений не затирают уже выпавшие значения.
//
// Board не потокобезопасна: ею владеет одна горутина (монитор) или один запрос.
type Board struct {
	cells [xsmb.DrawLength]byte
}

// NewBoard создаёт доску из строки live. Символы, не являющиеся цифрой, считаются '?'.
func NewBoard(s string) *Board {
	b := &Board{}
	for i := range b.cells {
		b.cells[i] = xsmb.Placeholder
	}
	b.Update(s)
	return b
}

// Update заполняет только пустые ячейки и возвращает число новых цифр.
// Строка короче 107 символов применяется к префиксу.
func (b *Board) Update(s string) int {
	added := 0
	for i := 0; i < len(s) && i < xsmb.DrawLength; i++ {
		c := s[i]
		if c < '0' || c > '9' || b.cells[i] != xsmb.Placeholder {
			continue
		}
		b.cells[i] = c
		added++
	}
	return added
}

// Filled сообщает, что в ячейке i уже есть цифра.
func (b *Board) Filled(i int) bool {
	return i >= 0 && i < xsmb.DrawLength && b.cells[i] != xsmb.Placeholder
}

// At возвращает символ ячейки i.
func (b *Board) At(i int) byte { return b.cells[i] }

// Progress возвращает число заполненных ячеек.
func (b *Board) Progress() int {
	n := 0
	for _, c := range b.cells {
		if c != xsmb.Placeholder {
			n++
		}
	}
	return n
}

// Complete сообщает, что все 107 цифр выпали.
func (b *Board) Complete() bool { return b.Progress() == xsmb.DrawLength }

// Reset очищает доску (новый день).
func (b *Board) Reset() {
	for i := range b.cells {
		b.cells[i] = xsmb.Placeholder
	}
}

func (b *Board) String() string { return string(b.cells[:]) }

// Draw превращает заполненную доску в DrawRecord.
func (b *Board) Draw(issue string) (xsmb.DrawRecord, error) {
	if !b.Complete() {
		return xsmb.DrawRecord{}, fmt.Errorf("%w: заполнено %d из %d", xsmb.ErrInvalidBody, b.Progress(), xsmb.DrawLength)
	}
	return xsmb.NewDrawRecord(issue, "", b.String())
}

// Render показывает доску по призам: "G3.1 55120", незаполненное — '?'.
func (b *Board) Render() string {
	var sb strings.Builder
	body := b.String()
	for _, t := range xsmb.AllTiers() {
		fmt.Fprintf(&sb, "%-6s %s\n", t.Name, t.Value(body))
	}
	return sb.String()
}
