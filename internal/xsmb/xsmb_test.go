package xsmb

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleBody — реальный по форме результат: 27 призов подряд.
const sampleBody = "" +
	"27138" + // GDB
	"45021" + // G1
	"11234" + "90876" + // G2
	"55120" + "34512" + "77731" + "09283" + "61514" + "28090" + // G3
	"4412" + "9081" + "3377" + "1205" + // G4
	"5560" + "7812" + "0943" + "2216" + "6708" + "3391" + // G5
	"123" + "908" + "456" + // G6
	"11" + "38" + "72" + "05" // G7

func TestLayout(t *testing.T) {
	require.Len(t, sampleBody, DrawLength)

	tiers := AllTiers()
	require.Len(t, tiers, 27)
	assert.Equal(t, "GDB.1", tiers[0].Name)
	assert.Equal(t, 0, tiers[0].Start)

	body := BodyTiers()
	require.Len(t, body, 26)
	assert.Equal(t, "G1.1", body[0].Name)
	assert.Equal(t, BodyStart, body[0].Start)

	starts := map[string]int{
		"G2.1": 10, "G3.1": 20, "G4.1": 50, "G5.1": 66, "G6.1": 90, "G7.1": 99, "G7.4": 105,
	}
	for _, tier := range tiers {
		if want, ok := starts[tier.Name]; ok {
			assert.Equal(t, want, tier.Start, tier.Name)
		}
	}
	assert.Equal(t, DrawLength, tiers[len(tiers)-1].End())
}

func TestPositionName(t *testing.T) {
	tests := []struct {
		offset int
		want   string
	}{
		{0, "GDB.1.1"},
		{4, "GDB.1.5"},
		{5, "G1.1.1"},
		{15, "G2.2.1"},
		{50, "G4.1.1"},
		{98, "G6.3.3"},
		{106, "G7.4.2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PositionName(tt.offset), "offset %d", tt.offset)
	}
	assert.Equal(t, "?107", PositionName(107))
	assert.Equal(t, 7, GroupOf(100))
	assert.Equal(t, -1, GroupOf(-1))
}

func TestNewDrawRecord(t *testing.T) {
	d, err := NewDrawRecord("24001", "2024-01-01 18:30", sampleBody)
	require.NoError(t, err)
	assert.Equal(t, "27138", d.Special())
	assert.Equal(t, "38", d.De())
	assert.Equal(t, "83", d.DeRev())
	assert.Equal(t, "33", d.DeSet())
	assert.Equal(t, "45", d.Pair(5, 6))
	assert.Len(t, d.Lotos(), 27)
	assert.Equal(t, "38", d.Lotos()[0])

	t.Run("short body rejected", func(t *testing.T) {
		_, err := NewDrawRecord("x", "", sampleBody[:106])
		assert.ErrorIs(t, err, ErrInvalidBody)
	})

	t.Run("long body rejected", func(t *testing.T) {
		_, err := NewDrawRecord("x", "", sampleBody+"1")
		assert.ErrorIs(t, err, ErrInvalidBody)
	})

	t.Run("non digit rejected", func(t *testing.T) {
		bad := "?" + sampleBody[1:]
		_, err := NewDrawRecord("x", "", bad)
		assert.ErrorIs(t, err, ErrInvalidBody)
	})
}

func TestBoDePartition(t *testing.T) {
	require.Len(t, BoDeTable, 15)

	seen := make(map[string]string, 100)
	for name, members := range BoDeTable {
		for _, m := range members {
			prev, dup := seen[m]
			require.False(t, dup, "%s в группах %s и %s", m, prev, name)
			seen[m] = name
		}
	}
	require.Len(t, seen, 100)

	// Таблица совпадает с правилом «упорядоченная пара теней цифр».
	for n := 0; n < 100; n++ {
		s := fmt.Sprintf("%02d", n)
		a, b := int(s[0]-'0')%5, int(s[1]-'0')%5
		if a > b {
			a, b = b, a
		}
		assert.Equal(t, fmt.Sprintf("%d%d", a, b), BoDeOf(s), s)
		assert.Equal(t, BoDeOf(s), BoDeOf(Reverse(s)), "reverse of %s", s)
	}

	assert.Equal(t, "", BoDeOf("7"))
	assert.Nil(t, BoDeMembers("99"))
	assert.Len(t, BoDeMembers("12"), 8)
	assert.Equal(t, "00", BoDeNames()[0])
}

func TestSplitMapRoundTrip(t *testing.T) {
	parts := SplitGroups(sampleBody)
	require.Len(t, parts, 27)
	assert.Equal(t, "27138", parts[0])
	assert.Equal(t, "05", parts[26])
	assert.Equal(t, sampleBody, MapSequential(parts))

	assert.Nil(t, SplitGroups("123"))
}

func TestMapGroups(t *testing.T) {
	t.Run("fit rules", func(t *testing.T) {
		groups := [][]string{
			{"1234567"},        // длиннее → хвост
			{"12"},             // короче → '?' слева
			{"11111", "22222"}, // как есть
		}
		got := MapGroups(groups)
		require.Len(t, got, DrawLength)
		assert.Equal(t, "34567", got[0:5])
		assert.Equal(t, "???12", got[5:10])
		assert.Equal(t, "1111122222", got[10:20])
		assert.Equal(t, strings.Repeat("?", DrawLength-20), got[20:])
		assert.False(t, IsComplete(got))
	})

	t.Run("extra values ignored", func(t *testing.T) {
		groups := make([][]string, len(Groups))
		groups[7] = []string{"11", "22", "33", "44", "55"}
		got := MapGroups(groups)
		assert.Equal(t, "11223344", got[99:])
	})

	t.Run("empty input", func(t *testing.T) {
		got := MapSequential(nil)
		assert.Equal(t, strings.Repeat("?", DrawLength), got)
	})

	assert.True(t, IsComplete(sampleBody))
}
