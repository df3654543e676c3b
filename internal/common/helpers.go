// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: время по Ханою, форматирование дат и разбиение длинных сообщений.
package common

import (
	"strings"
	"time"
	"unicode/utf8"
)

// HanoiZone — часовой пояс розыгрыша XSMB.
const HanoiZone = "Asia/Ho_Chi_Minh"

// HanoiLocation возвращает часовой пояс Ханоя.
// Если tzdata в образе нет — используем UTC+7 вручную.
func HanoiLocation() *time.Location {
	loc, err := time.LoadLocation(HanoiZone)
	if err != nil {
		return time.FixedZone("ICT", 7*60*60)
	}
	return loc
}

// GetHanoiTime возвращает текущее время по Ханою.
func GetHanoiTime() time.Time {
	return time.Now().In(HanoiLocation())
}

// DayKey возвращает дату в формате 2006-01-02 по Ханою.
// Используется как ключ «сегодняшнего» розыгрыша.
func DayKey(t time.Time) string {
	return t.In(HanoiLocation()).Format("2006-01-02")
}

// FormatDateTime форматирует время как "02/01/2006 15:04" (вьетнамский порядок).
func FormatDateTime(t time.Time) string {
	return t.In(HanoiLocation()).Format("02/01/2006 15:04")
}

// SplitMessage режет длинный текст на части не длиннее limit байт.
// Режем по пустым строкам, затем по переводам строк; одна строка длиннее limit
// режется по границе руны.
//
// Пример:
//
//	SplitMessage("a\n\nb", 2) → ["a", "b"]
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || len(text) <= limit {
		return []string{text}
	}

	var parts []string
	var cur strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			parts = append(parts, s)
		}
		cur.Reset()
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			flush()
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
			parts = append(parts, line[:cut])
			line = line[cut:]
		}
		if cur.Len()+len(line) > limit {
			flush()
		}
		cur.WriteString(line)
	}
	flush()
	return parts
}
