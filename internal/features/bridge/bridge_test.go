package bridge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soicau.vn/xsmb-bot/internal/common"
	"soicau.vn/xsmb-bot/internal/scan"
	"soicau.vn/xsmb-bot/internal/source"
	"soicau.vn/xsmb-bot/internal/xsmb"
)

type fakeDraws struct {
	res *source.FetchResult
	err error
}

func (f *fakeDraws) Draws(ctx context.Context) (*source.FetchResult, error) {
	return f.res, f.err
}

type fakeLive struct{ body string }

func (f *fakeLive) FetchLive(ctx context.Context) (string, error) { return f.body, nil }

type fakeSender struct{ texts []string }

func (s *fakeSender) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	s.texts = append(s.texts, params.Text)
	return &telego.Message{}, nil
}

func (s *fakeSender) all() string { return strings.Join(s.texts, "\n") }

// bridgeDraw — тираж с «đề» 12, где G1.1.1+G1.1.2 тоже дают 12.
func bridgeDraw(t *testing.T, issue string) xsmb.DrawRecord {
	t.Helper()
	b := []byte(strings.Repeat("0", xsmb.DrawLength))
	b[3], b[4] = '1', '2'
	b[5], b[6] = '1', '2'
	d, err := xsmb.NewDrawRecord(issue, "", string(b))
	require.NoError(t, err)
	return d
}

func newTestService(t *testing.T, n int) *Service {
	t.Helper()
	var draws []xsmb.DrawRecord
	for i := 0; i < n; i++ {
		draws = append(draws, bridgeDraw(t, string(rune('a'+i))))
	}
	return NewService(&fakeDraws{res: &source.FetchResult{Draws: draws}}, &fakeLive{}, 2, 20)
}

func TestScanPositions(t *testing.T) {
	s := newTestService(t, 3)

	r, err := s.ScanPositions(context.Background(), s.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, r.Bridges, 1)
	assert.Equal(t, 5, r.Bridges[0].I)
	assert.Equal(t, 6, r.Bridges[0].J)
	assert.Equal(t, 3, r.Bridges[0].Streak)
	assert.Equal(t, "12", r.Bridges[0].Value)
}

func TestScanTiers(t *testing.T) {
	s := newTestService(t, 3)

	r, err := s.ScanTiers(context.Background(), s.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, r.Bridges, 1)
	assert.Equal(t, "G1.1", r.Bridges[0].Tier.Name)
	assert.Equal(t, 3, r.Bridges[0].Streak)
}

func TestServiceErrors(t *testing.T) {
	s := newTestService(t, 1)

	opts := s.DefaultOptions()
	opts.Lag = scan.NextDay
	_, err := s.ScanPositions(context.Background(), opts)
	assert.ErrorIs(t, err, common.ErrNotEnoughDraws)

	_, err = s.Day(context.Background(), 5)
	assert.ErrorIs(t, err, common.ErrDrawIndex)

	_, err = s.Common(context.Background())
	assert.ErrorIs(t, err, common.ErrNotEnoughDraws)

	broken := NewService(&fakeDraws{err: common.ErrFetch}, nil, 2, 20)
	_, err = broken.ScanPositions(context.Background(), broken.DefaultOptions())
	assert.ErrorIs(t, err, common.ErrFetch)
	_, err = broken.Live(context.Background())
	assert.ErrorIs(t, err, common.ErrFetch)
}

func TestCommon(t *testing.T) {
	s := newTestService(t, 2)
	r, err := s.Common(context.Background())
	require.NoError(t, err)
	require.Len(t, r.Pairs, 1)
	assert.Equal(t, scan.Pair{I: 5, J: 6}, r.Pairs[0].Pair)
	assert.Equal(t, "12", r.Pairs[0].ValueA)
}

func TestReconcilePasted(t *testing.T) {
	s := newTestService(t, 3)

	r, err := s.Reconcile(context.Background(), "Giải nhất: 12345\nGiải nhì: 111")
	require.NoError(t, err)
	assert.Equal(t, 2, r.Values)
	require.Len(t, r.Firings, 1)
	assert.Equal(t, "12", r.Firings[0].Value)
	require.Len(t, r.Tiers, 1)
	assert.Equal(t, "12345", r.Tiers[0].Value)
	// «111» короче ширины G2 — дополняется '?', приз не считается выпавшим
	assert.Equal(t, 5+3, r.Board.Progress())
}

func TestLiveAndPoll(t *testing.T) {
	s := newTestService(t, 3)
	s.live.(*fakeLive).body = "?????12" + strings.Repeat("?", xsmb.DrawLength-7)

	r, err := s.Live(context.Background())
	require.NoError(t, err)
	require.Len(t, r.Firings, 1)

	snap, err := s.PollLive(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.New, 1)

	snap, err = s.PollLive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.New)
	assert.Contains(t, FormatSnapshot(snap), "2/107")
}

func TestPollLiveStopsWhenBoardComplete(t *testing.T) {
	s := newTestService(t, 3)
	fl := s.live.(*fakeLive)

	fl.body = "?????12" + strings.Repeat("?", xsmb.DrawLength-7)
	_, err := s.PollLive(context.Background())
	require.NoError(t, err)

	fl.body = strings.Repeat("1", xsmb.DrawLength)
	snap, err := s.PollLive(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Complete)

	snap, err = s.PollLive(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Complete)
	assert.Empty(t, snap.New)
}

func TestDailyReport(t *testing.T) {
	s := newTestService(t, 3)
	text, err := s.DailyReport(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "Cầu vị trí")
	assert.Contains(t, text, "ngày sau")
	assert.Contains(t, text, "Cầu giải")
	assert.Contains(t, text, "đề 12")
}

func TestParseScanArgs(t *testing.T) {
	def := scan.Options{Mode: scan.Exact, MinStreak: 2, Limit: 20}

	cases := []struct {
		args []string
		want scan.Options
	}{
		{nil, def},
		{[]string{"rev", "3"}, scan.Options{Mode: scan.ExactOrReversed, MinStreak: 3, Limit: 20}},
		{[]string{"BO", "next"}, scan.Options{Mode: scan.SameBucket, MinStreak: 2, Lag: scan.NextDay, Limit: 20}},
		{[]string{"4", "exact", "sau"}, scan.Options{Mode: scan.Exact, MinStreak: 4, Lag: scan.NextDay, Limit: 20}},
	}
	for _, tc := range cases {
		got, err := ParseScanArgs(tc.args, def)
		require.NoError(t, err, tc.args)
		assert.Equal(t, tc.want, got, tc.args)
	}

	for _, bad := range [][]string{{"xyz"}, {"0"}, {"99"}} {
		_, err := ParseScanArgs(bad, def)
		assert.ErrorIs(t, err, common.ErrBadArgs, bad)
	}
}

func TestHandlers(t *testing.T) {
	s := newTestService(t, 3)
	sender := &fakeSender{}
	h := NewHandler(s, sender, 4000)
	ctx := context.Background()

	h.HandlePositions(ctx, 1, nil)
	assert.Contains(t, sender.all(), "G1.1.1 + G1.1.2")

	sender.texts = nil
	h.HandlePositions(ctx, 1, []string{"xyz"})
	assert.Contains(t, sender.all(), "Sai tham số")

	sender.texts = nil
	h.HandleDay(ctx, 1, []string{"abc"})
	assert.Contains(t, sender.all(), "Sai tham số")

	sender.texts = nil
	h.HandleDay(ctx, 1, []string{"1"})
	assert.Contains(t, sender.all(), "Kỳ b")
	assert.Contains(t, sender.all(), "1 cặp vị trí")

	sender.texts = nil
	h.HandlePaste(ctx, 1, "giải nhất: abc")
	assert.Contains(t, sender.all(), "Không nhận ra")

	sender.texts = nil
	h.HandleCommon(ctx, 1)
	assert.Contains(t, sender.all(), "Tô đỏ")

	sender.texts = nil
	h.HandleHelp(ctx, 1)
	assert.Contains(t, sender.all(), "/cau")
}

func TestHandlerHidesInternalErrors(t *testing.T) {
	sender := &fakeSender{}
	s := NewService(&fakeDraws{err: errors.New("dial tcp 10.0.0.1: refused")}, nil, 2, 20)
	NewHandler(s, sender, 4000).HandleTiers(context.Background(), 1, nil)
	require.Len(t, sender.texts, 1)
	assert.NotContains(t, sender.texts[0], "10.0.0.1")
}

type brokenSender struct{}

func (brokenSender) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	return nil, errors.New("chat not found")
}

func TestReplyFailureIsLogged(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	NewHandler(newTestService(t, 3), brokenSender{}, 4000).HandleHelp(context.Background(), 77)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, log.ErrorLevel, entry.Level)
	assert.Equal(t, int64(77), entry.Data["chat_id"])
	assert.EqualError(t, entry.Data[log.ErrorKey].(error), "chat not found")
}
