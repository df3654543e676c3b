// Package source — paste.go разбирает вставленный пользователем текст результата
// (копия с сайта, сообщение из группы, вывод OCR с телефона).
//
// Строки раскладываются по восьми группам по ключевым словам: «Giải ĐB», «Giải nhất»,
// «G1» … «G7». Числа без ключевого слова в строке идут в последнюю найденную группу.
// Если ключевых слов нет вовсе, числа берутся подряд, как в выводе OCR.
package source

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"soicau.vn/xsmb-bot/internal/xsmb"
)

// Parsed — результат разбора вставленного текста.
type Parsed struct {
	Groups     [][]string // по группам xsmb.Groups, если нашлись ключевые слова
	Sequential []string   // числа подряд, если ключевых слов не было
	Keyed      bool
}

// Body собирает строку из 107 символов; незаполненное — '?'.
func (p Parsed) Body() string {
	if p.Keyed {
		return xsmb.MapGroups(p.Groups)
	}
	return xsmb.MapSequential(p.Sequential)
}

// Values возвращает число найденных значений призов.
func (p Parsed) Values() int {
	if !p.Keyed {
		return len(p.Sequential)
	}
	n := 0
	for _, g := range p.Groups {
		n += len(g)
	}
	return n
}

// ParsePasted разбирает текст. Никогда не возвращает ошибку:
// кривой ввод даёт пустые группы, а в строке — '?'.
func ParsePasted(text string) Parsed {
	p := Parsed{Groups: make([][]string, len(xsmb.Groups))}
	var all []string
	current := -1

	for _, line := range strings.Split(text, "\n") {
		words := tokenize(fold(line))
		if len(words) == 0 {
			continue
		}

		group, label := detectGroup(words)
		switch {
		case group == skipLine:
			current = -1
			continue
		case group >= 0:
			current = group
			p.Keyed = true
		}

		for i, w := range words {
			if i < label || !isDigits(w) {
				continue
			}
			all = append(all, w)
			if current >= 0 && len(w) >= 2 {
				p.Groups[current] = append(p.Groups[current], w)
			}
		}
	}

	if !p.Keyed {
		p.Sequential = FilterOCRTokens(all)
	}
	return p
}

// FilterOCRTokens оставляет только числа из 2–5 цифр: такой длины бывают призы XSMB.
// Пробелы внутри токена убираются.
func FilterOCRTokens(tokens []string) []string {
	var out []string
	for _, t := range tokens {
		t = strings.Join(strings.Fields(t), "")
		if !isDigits(t) || len(t) < 2 || len(t) > 5 {
			continue
		}
		out = append(out, t)
	}
	return out
}

// LooksLikeResult — быстрая проверка, стоит ли разбирать обычное сообщение как результат.
func LooksLikeResult(text string) bool {
	digits := 0
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits >= 20 {
		return true
	}
	if digits < 2 {
		return false
	}
	for _, line := range strings.Split(text, "\n") {
		if g, _ := detectGroup(tokenize(fold(line))); g >= 0 {
			return true
		}
	}
	return false
}

const skipLine = -2

var groupWords = map[string]int{
	"db": 0, "gdb": 0,
	"nhat": 1, "g1": 1,
	"nhi": 2, "g2": 2,
	"ba": 3, "g3": 3,
	"tu": 4, "g4": 4,
	"nam": 5, "g5": 5,
	"sau": 6, "g6": 6,
	"bay": 7, "g7": 7,
}

// detectGroup ищет метку группы среди первых слов строки.
// Возвращает индекс группы (или -1, или skipLine) и число слов, занятых меткой.
func detectGroup(words []string) (int, int) {
	// Метка стоит в начале строки: берём слова до первого числа (кроме «giải 1»).
	for i, w := range words {
		switch w {
		case "ma", "ngay", "thu", "chu", "cn", "ky", "xsmb", "kqxs":
			// «Mã ĐB», «XSMB Thứ tư ngày 01/05», «Chủ nhật 05/05», «Kỳ #…» — заголовки, не призы
			return skipLine, 0
		case "giai", "g":
			if i+1 < len(words) && len(words[i+1]) == 1 && words[i+1][0] >= '1' && words[i+1][0] <= '7' {
				return int(words[i+1][0] - '0'), i + 2
			}
			continue
		case "dac":
			if i+1 < len(words) && words[i+1] == "biet" {
				return 0, i + 2
			}
		}
		if g, ok := groupWords[w]; ok {
			return g, i + 1
		}
		if isDigits(w) {
			break
		}
	}
	return -1, 0
}

// fold приводит строку к нижнему регистру без диакритики: «Giải Đặc Biệt» → «giai dac biet».
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		out = strings.ToLower(s)
	}
	return strings.ReplaceAll(out, "đ", "d")
}

// tokenize режет строку на слова из букв/цифр.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
