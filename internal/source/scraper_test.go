package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soicau.vn/xsmb-bot/internal/common"
	"soicau.vn/xsmb-bot/internal/xsmb"
)

const livePage = `<html><body>
<div class="header">99999</div>
<div class="box_kqxs">
  <table>
    <tr><td>Đặc biệt</td><td class="giai-db"><div>27138</div></td></tr>
    <tr><td>Giải nhất</td><td class="giai-nhat"><div>45021</div></td></tr>
    <tr><td>Giải nhì</td><td class="giai-nhi"><div>11234</div><div>90876</div></td></tr>
    <tr><td>Giải ba</td><td class="giai-ba"><div><div>55120</div><div>34512</div></div></td></tr>
    <tr><td>Giải bảy</td><td class="giai-bay">11 - 38</td></tr>
  </table>
</div>
</body></html>`

func TestParseLiveHTML(t *testing.T) {
	groups, err := ParseLiveHTML(strings.NewReader(livePage))
	require.NoError(t, err)
	require.Len(t, groups, 8)

	assert.Equal(t, []string{"27138"}, groups[0])
	assert.Equal(t, []string{"45021"}, groups[1])
	assert.Equal(t, []string{"11234", "90876"}, groups[2])
	assert.Equal(t, []string{"55120", "34512"}, groups[3])
	assert.Empty(t, groups[4])
	// В «giai-bay» нет div — берём текстовые узлы целиком, «11 - 38» не число
	assert.Empty(t, groups[7])

	live := xsmb.MapGroups(groups)
	assert.Equal(t, "2713845021", live[:10])
	assert.Equal(t, "?????", live[30:35])
}

func TestParseLiveHTMLNoBox(t *testing.T) {
	_, err := ParseLiveHTML(strings.NewReader(`<html><body><div class="other">1</div></body></html>`))
	assert.ErrorIs(t, err, common.ErrLiveNotFound)
}

func TestScraperFetchLive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla")
		_, _ = w.Write([]byte(livePage))
	}))
	defer srv.Close()

	live, err := NewScraper(srv.URL, 0).FetchLive(context.Background())
	require.NoError(t, err)
	require.Len(t, live, xsmb.DrawLength)
	assert.Equal(t, "27138", live[:5])
	assert.False(t, xsmb.IsComplete(live))
}

func TestScraperHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewScraper(srv.URL, 0).FetchLive(context.Background())
	assert.ErrorIs(t, err, common.ErrFetch)
}
