// Package xsmb описывает структуру результата Xổ số Miền Bắc (XSMB).
// layout.go задаёт раскладку 27 призов по 107 цифрам и имена позиций.
//
// Порядок групп фиксированный:
//
//	GDB (1×5), G1 (1×5), G2 (2×5), G3 (6×5), G4 (4×4), G5 (6×4), G6 (3×3), G7 (4×2)
//
// Смещения в строке из 107 символов:
//
//	GDB 0–4, G1 5–9, G2 10–19, G3 20–49, G4 50–65, G5 66–89, G6 90–98, G7 99–106
package xsmb

import "fmt"

const (
	// DrawLength — длина полной строки розыгрыша.
	DrawLength = 107
	// BodyStart — первое смещение после спецприза (GDB).
	BodyStart = 5
	// Placeholder — символ незаполненной позиции (live/вставка/OCR).
	Placeholder = '?'
)

// Group — одна группа призов (например, G3: 6 значений по 5 цифр).
type Group struct {
	Name  string
	Count int
	Width int
}

// Groups — канонический порядок групп XSMB.
var Groups = []Group{
	{Name: "GDB", Count: 1, Width: 5},
	{Name: "G1", Count: 1, Width: 5},
	{Name: "G2", Count: 2, Width: 5},
	{Name: "G3", Count: 6, Width: 5},
	{Name: "G4", Count: 4, Width: 4},
	{Name: "G5", Count: 6, Width: 4},
	{Name: "G6", Count: 3, Width: 3},
	{Name: "G7", Count: 4, Width: 2},
}

// Tier — один приз внутри группы, например "G3.2".
type Tier struct {
	Name  string
	Group int // индекс в Groups
	Start int
	Width int
}

// End возвращает смещение сразу за последней цифрой приза.
func (t Tier) End() int { return t.Start + t.Width }

// Value вырезает значение приза из строки розыгрыша.
func (t Tier) Value(body string) string {
	if len(body) < t.End() {
		return ""
	}
	return body[t.Start:t.End()]
}

var (
	allTiers      []Tier
	positionNames [DrawLength]string
	groupOf       [DrawLength]int
)

func init() {
	offset := 0
	for gi, g := range Groups {
		for n := 1; n <= g.Count; n++ {
			t := Tier{
				Name:  fmt.Sprintf("%s.%d", g.Name, n),
				Group: gi,
				Start: offset,
				Width: g.Width,
			}
			allTiers = append(allTiers, t)
			for d := 1; d <= g.Width; d++ {
				positionNames[offset] = fmt.Sprintf("%s.%d", t.Name, d)
				groupOf[offset] = gi
				offset++
			}
		}
	}
	if offset != DrawLength {
		panic(fmt.Sprintf("xsmb: раскладка даёт %d цифр вместо %d", offset, DrawLength))
	}
}

// AllTiers возвращает все 27 призов, включая GDB.1.
func AllTiers() []Tier {
	out := make([]Tier, len(allTiers))
	copy(out, allTiers)
	return out
}

// BodyTiers возвращает 26 призов без спецприза — область поиска «cầu giải».
func BodyTiers() []Tier {
	out := make([]Tier, 0, len(allTiers)-1)
	for _, t := range allTiers {
		if t.Group == 0 {
			continue
		}
		out = append(out, t)
	}
	return out
}

// PositionName возвращает имя позиции в формате "G<k>.<n>.<d>".
//
// Пример:
//
//	PositionName(0)   → "GDB.1.1"
//	PositionName(5)   → "G1.1.1"
//	PositionName(106) → "G7.4.2"
func PositionName(i int) string {
	if i < 0 || i >= DrawLength {
		return fmt.Sprintf("?%d", i)
	}
	return positionNames[i]
}

// GroupOf возвращает индекс группы (в Groups), которой принадлежит смещение.
func GroupOf(i int) int {
	if i < 0 || i >= DrawLength {
		return -1
	}
	return groupOf[i]
}
