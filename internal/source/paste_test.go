package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soicau.vn/xsmb-bot/internal/xsmb"
)

const pastedResult = `XSMB Thứ Tư ngày 01/05/2024
Mã ĐB: 1KT-5KT-9KT
Giải ĐB: 27138
Giải nhất: 45021
Giải nhì: 11234 - 90876
Giải ba: 55120 34512 77731
09283 61514 28090
Giải tư: 4412 9081 3377 1205
Giải năm: 5560 7812 0943 2216 6708 3391
Giải sáu: 123 908 456
Giải bảy: 11 38 72 05`

func TestParsePastedKeyed(t *testing.T) {
	p := ParsePasted(pastedResult)
	require.True(t, p.Keyed)
	assert.Equal(t, 27, p.Values())

	assert.Equal(t, []string{"27138"}, p.Groups[0])
	assert.Equal(t, []string{"55120", "34512", "77731", "09283", "61514", "28090"}, p.Groups[3])
	assert.Equal(t, []string{"11", "38", "72", "05"}, p.Groups[7])

	body := p.Body()
	assert.True(t, xsmb.IsComplete(body))
	d, err := xsmb.NewDrawRecord("paste", "", body)
	require.NoError(t, err)
	assert.Equal(t, "38", d.De())
}

func TestParsePastedShortLabels(t *testing.T) {
	p := ParsePasted("ĐB 27138\nG1 45021\nG.7 11 38\nGiải 6: 123")
	require.True(t, p.Keyed)
	assert.Equal(t, []string{"27138"}, p.Groups[0])
	assert.Equal(t, []string{"45021"}, p.Groups[1])
	assert.Equal(t, []string{"123"}, p.Groups[6])
	assert.Equal(t, []string{"11", "38"}, p.Groups[7])

	body := p.Body()
	assert.Equal(t, "2713845021", body[:10])
	assert.Equal(t, "1138????", body[99:])
}

func TestParsePastedSundayHeader(t *testing.T) {
	for _, header := range []string{"Chủ nhật 05/05/2024", "XSMB CN 05/05"} {
		p := ParsePasted(header + "\nGiải ĐB 27138\nGiải nhất 45021\n")
		require.True(t, p.Keyed, header)
		assert.Equal(t, []string{"45021"}, p.Groups[1], header)
		assert.Equal(t, "2713845021", p.Body()[:10], header)
	}
}

func TestParsePastedSequential(t *testing.T) {
	p := ParsePasted("27138 45021\n11234 90876 7 abc 1234567")
	require.False(t, p.Keyed)
	assert.Equal(t, []string{"27138", "45021", "11234", "90876"}, p.Sequential)
	assert.Equal(t, "27138", p.Body()[:5])
	assert.Equal(t, "????", p.Body()[103:])
}

func TestFilterOCRTokens(t *testing.T) {
	got := FilterOCRTokens([]string{"1", "12", "123 45", "123456", "ab", "00"})
	assert.Equal(t, []string{"12", "12345", "00"}, got)
}

func TestLooksLikeResult(t *testing.T) {
	assert.True(t, LooksLikeResult(pastedResult))
	assert.True(t, LooksLikeResult("giải nhất 45021"))
	assert.False(t, LooksLikeResult("chào bạn"))
	assert.False(t, LooksLikeResult("hẹn 18h30 nhé"))
	assert.True(t, LooksLikeResult("27138 45021 11234 90876"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "giai dac biet", fold("Giải Đặc Biệt"))
	assert.Equal(t, "giai bay", fold("GIẢI BẢY"))
}
