// Package xsmb — draw.go описывает один розыгрыш.
package xsmb

import (
	"errors"
	"fmt"
)

// ErrInvalidBody — строка розыгрыша не состоит ровно из 107 цифр.
var ErrInvalidBody = errors.New("строка розыгрыша должна содержать ровно 107 цифр")

// DrawRecord — один розыгрыш XSMB. Создаётся только через NewDrawRecord
// и дальше не меняется.
type DrawRecord struct {
	Issue    string // номер тиража / дата, как пришло из источника
	OpenTime string // время розыгрыша (только для отображения)
	Body     string // 107 цифр в каноническом порядке
}

// NewDrawRecord проверяет строку и создаёт запись.
// Строка не дополняется и не обрезается: либо ровно 107 цифр, либо ошибка.
func NewDrawRecord(issue, openTime, body string) (DrawRecord, error) {
	if len(body) != DrawLength {
		return DrawRecord{}, fmt.Errorf("%w: тираж %q, длина %d", ErrInvalidBody, issue, len(body))
	}
	for i := 0; i < len(body); i++ {
		if body[i] < '0' || body[i] > '9' {
			return DrawRecord{}, fmt.Errorf("%w: тираж %q, символ %q на позиции %d", ErrInvalidBody, issue, body[i], i)
		}
	}
	return DrawRecord{Issue: issue, OpenTime: openTime, Body: body}, nil
}

// Special возвращает спецприз (первые 5 цифр).
func (d DrawRecord) Special() string { return d.Body[0:BodyStart] }

// De возвращает «đề» — две последние цифры спецприза.
func (d DrawRecord) De() string { return d.Body[3:BodyStart] }

// DeRev возвращает перевёрнутое «đề».
func (d DrawRecord) DeRev() string { return Reverse(d.De()) }

// DeSet возвращает имя группы bộ đề, в которую попадает «đề».
func (d DrawRecord) DeSet() string { return BoDeOf(d.De()) }

// Pair склеивает цифры двух позиций: Body[i]+Body[j].
func (d DrawRecord) Pair(i, j int) string {
	return string([]byte{d.Body[i], d.Body[j]})
}

// Lotos возвращает «lô tô» — две последние цифры каждого из 27 призов.
func (d DrawRecord) Lotos() []string {
	out := make([]string, 0, len(allTiers))
	for _, t := range allTiers {
		v := t.Value(d.Body)
		out = append(out, v[len(v)-2:])
	}
	return out
}
