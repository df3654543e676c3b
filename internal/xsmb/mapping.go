// Package xsmb — mapping.go собирает строку из 107 символов из разрозненных
// значений призов (вставленный текст, OCR, live-страница) и разбирает её обратно.
package xsmb

import "strings"

// MapGroups заполняет строку по группам слева направо.
// groups[k] — значения k-й группы (GDB, G1, …, G7) в порядке появления.
//
// Правила для каждого слота:
//   - длина совпадает с шириной → как есть
//   - длиннее → берём хвост нужной ширины
//   - короче → дополняем слева символом '?'
//   - значения нет → '?' на всю ширину
//
// Лишние значения в группе игнорируются. Функция никогда не возвращает ошибку:
// кривой ввод даёт строку с '?'.
func MapGroups(groups [][]string) string {
	var sb strings.Builder
	sb.Grow(DrawLength)
	for gi, g := range Groups {
		var values []string
		if gi < len(groups) {
			values = groups[gi]
		}
		for n := 0; n < g.Count; n++ {
			if n < len(values) {
				sb.WriteString(fitWidth(values[n], g.Width))
			} else {
				sb.WriteString(strings.Repeat(string(Placeholder), g.Width))
			}
		}
	}
	return sb.String()
}

// MapSequential раскладывает плоский список значений по 27 призам подряд.
// Используется для результатов OCR, где группа неизвестна.
func MapSequential(values []string) string {
	groups := make([][]string, len(Groups))
	idx := 0
	for gi, g := range Groups {
		for n := 0; n < g.Count; n++ {
			if idx < len(values) {
				groups[gi] = append(groups[gi], values[idx])
			} else {
				groups[gi] = append(groups[gi], "")
			}
			idx++
		}
	}
	return MapGroups(groups)
}

// SplitGroups режет строку из 107 символов на 27 значений призов.
// Для строки другой длины возвращает nil.
func SplitGroups(body string) []string {
	if len(body) != DrawLength {
		return nil
	}
	out := make([]string, 0, len(allTiers))
	for _, t := range allTiers {
		out = append(out, t.Value(body))
	}
	return out
}

// IsComplete сообщает, что в строке не осталось '?'.
func IsComplete(body string) bool {
	return len(body) == DrawLength && strings.IndexByte(body, Placeholder) < 0
}

func fitWidth(v string, width int) string {
	switch {
	case len(v) == width:
		return v
	case len(v) > width:
		return v[len(v)-width:]
	default:
		return strings.Repeat(string(Placeholder), width-len(v)) + v
	}
}
