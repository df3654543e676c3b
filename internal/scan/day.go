// Package scan — day.go разбирает один тираж: все пары позиций, дающие «đề»,
// и пересечение пар двух тиражей («tô đỏ»).
package scan

import (
	"sort"

	"soicau.vn/xsmb-bot/internal/xsmb"
)

// Pair — упорядоченная пара смещений.
type Pair struct {
	I, J int
}

// DayAnalysis — результат разбора одного тиража.
type DayAnalysis struct {
	Draw  xsmb.DrawRecord
	Pairs []Pair // в порядке (i, j) по возрастанию
	Hits  []int  // смещения, участвующие хотя бы в одной паре, по возрастанию
}

// AnalyzeDay находит все пары (i ≠ j) вне спецприза, для которых
// Body[i]+Body[j] == «đề» этого же тиража.
func AnalyzeDay(d xsmb.DrawRecord) DayAnalysis {
	target := d.De()
	res := DayAnalysis{Draw: d}
	hit := make(map[int]bool)
	for i := xsmb.BodyStart; i < xsmb.DrawLength; i++ {
		if d.Body[i] != target[0] {
			continue
		}
		for j := xsmb.BodyStart; j < xsmb.DrawLength; j++ {
			if i == j || d.Body[j] != target[1] {
				continue
			}
			res.Pairs = append(res.Pairs, Pair{I: i, J: j})
			hit[i], hit[j] = true, true
		}
	}
	for idx := range hit {
		res.Hits = append(res.Hits, idx)
	}
	sort.Ints(res.Hits)
	return res
}

// CommonPair — пара, давшая «đề» в обоих тиражах.
type CommonPair struct {
	Pair
	ValueA string
	ValueB string
}

// CommonPairs возвращает пары, которые есть в обоих разборах, в порядке разбора a.
func CommonPairs(a, b DayAnalysis) []CommonPair {
	inB := make(map[Pair]bool, len(b.Pairs))
	for _, p := range b.Pairs {
		inB[p] = true
	}
	var out []CommonPair
	for _, p := range a.Pairs {
		if !inB[p] {
			continue
		}
		out = append(out, CommonPair{
			Pair:   p,
			ValueA: a.Draw.Pair(p.I, p.J),
			ValueB: b.Draw.Pair(p.I, p.J),
		})
	}
	return out
}
