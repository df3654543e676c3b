// Package xsmb — bode.go содержит таблицу «bộ đề»: разбиение 100 двузначных
// чисел на 15 именованных групп.
//
// Группа определяется «тенью» цифр (d mod 5) с точностью до перестановки:
// 5 групп «kép» по 4 числа и 10 групп по 8 чисел.
package xsmb

import "sort"

// BoDeTable — статическая таблица групп. Имя группы — её наименьший представитель.
var BoDeTable = map[string][]string{
	"00": {"00", "55", "05", "50"},
	"11": {"11", "66", "16", "61"},
	"22": {"22", "77", "27", "72"},
	"33": {"33", "88", "38", "83"},
	"44": {"44", "99", "49", "94"},

	"01": {"01", "10", "06", "60", "51", "15", "56", "65"},
	"02": {"02", "20", "07", "70", "25", "52", "57", "75"},
	"03": {"03", "30", "08", "80", "35", "53", "58", "85"},
	"04": {"04", "40", "09", "90", "45", "54", "59", "95"},
	"12": {"12", "21", "17", "71", "26", "62", "67", "76"},
	"13": {"13", "31", "18", "81", "36", "63", "68", "86"},
	"14": {"14", "41", "19", "91", "46", "64", "69", "96"},
	"23": {"23", "32", "28", "82", "37", "73", "78", "87"},
	"24": {"24", "42", "29", "92", "47", "74", "79", "97"},
	"34": {"34", "43", "39", "93", "48", "84", "89", "98"},
}

var boDeIndex = func() map[string]string {
	idx := make(map[string]string, 100)
	for name, members := range BoDeTable {
		for _, m := range members {
			idx[m] = name
		}
	}
	return idx
}()

// BoDeOf возвращает имя группы для двузначного числа.
// Для строки, которая не является двузначным числом, возвращает "".
func BoDeOf(n string) string {
	return boDeIndex[n]
}

// BoDeMembers возвращает числа группы по имени (копию).
func BoDeMembers(name string) []string {
	members, ok := BoDeTable[name]
	if !ok {
		return nil
	}
	out := make([]string, len(members))
	copy(out, members)
	return out
}

// BoDeNames возвращает имена всех 15 групп по возрастанию.
func BoDeNames() []string {
	names := make([]string, 0, len(BoDeTable))
	for name := range BoDeTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reverse переворачивает двузначное число: "38" → "83".
func Reverse(n string) string {
	if len(n) != 2 {
		return n
	}
	return string([]byte{n[1], n[0]})
}
