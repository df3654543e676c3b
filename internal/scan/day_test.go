package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soicau.vn/xsmb-bot/internal/xsmb"
)

func TestAnalyzeDay(t *testing.T) {
	d := makeDraw(t, "38", map[int]byte{10: '3', 42: '8', 70: '8'})
	res := AnalyzeDay(d)

	assert.Equal(t, []Pair{{10, 42}, {10, 70}}, res.Pairs)
	assert.Equal(t, []int{10, 42, 70}, res.Hits)

	t.Run("double digit target", func(t *testing.T) {
		d := makeDraw(t, "55", map[int]byte{30: '5', 31: '5'})
		res := AnalyzeDay(d)
		assert.Equal(t, []Pair{{30, 31}, {31, 30}}, res.Pairs)
	})

	t.Run("no pairs", func(t *testing.T) {
		d := makeDraw(t, "12", nil)
		res := AnalyzeDay(d)
		assert.Empty(t, res.Pairs)
		assert.Empty(t, res.Hits)
	})
}

func TestCommonPairs(t *testing.T) {
	a := AnalyzeDay(makeDraw(t, "38", map[int]byte{10: '3', 42: '8', 70: '8'}))
	b := AnalyzeDay(makeDraw(t, "38", map[int]byte{10: '3', 42: '8'}))

	common := CommonPairs(a, b)
	require.Len(t, common, 1)
	assert.Equal(t, Pair{10, 42}, common[0].Pair)
	assert.Equal(t, "38", common[0].ValueA)
	assert.Equal(t, "38", common[0].ValueB)

	// Пересечение двух дней — это пары с серией ≥ 2 при точном совпадении.
	draws := []xsmb.DrawRecord{a.Draw, b.Draw}
	bridges := Positions(draws, Options{Mode: Exact, MinStreak: 2})
	require.Len(t, bridges, len(common))
	assert.Equal(t, common[0].I, bridges[0].I)
	assert.Equal(t, common[0].J, bridges[0].J)
}
