package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soicau.vn/xsmb-bot/internal/common"
)

// testBody — 107 цифр: ĐB «27138», далее повторяющийся узор.
var testBody = "27138" + strings.Repeat("0123456789", 10) + "01"

func newTestAPI(t *testing.T, handler http.HandlerFunc) (*APIClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAPIClient(APIConfig{URL: srv.URL + "/history", GameCode: "miba", Retries: 2}), srv
}

func TestFetchPayloadShapes(t *testing.T) {
	record := fmt.Sprintf(`{"issue":"20240501","openTime":"2024-05-01 18:30:00","resultString":"%s"}`, testBody)

	cases := map[string]string{
		"bare list":      "[" + record + "]",
		"data list":      `{"data":[` + record + `]}`,
		"data.list":      `{"code":0,"data":{"list":[` + record + `],"total":1}}`,
		"leading spaces": "  \n[" + record + "]",
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "miba", r.URL.Query().Get("gameCode"))
				assert.Equal(t, "30", r.URL.Query().Get("limitNum"))
				_, _ = w.Write([]byte(payload))
			})

			res, err := api.Fetch(context.Background(), 30)
			require.NoError(t, err)
			require.Len(t, res.Draws, 1)
			assert.Equal(t, "20240501", res.Draws[0].Issue)
			assert.Equal(t, "38", res.Draws[0].De())
			assert.Zero(t, res.Dropped)
		})
	}
}

func TestFetchDetailAndDropped(t *testing.T) {
	groups := []string{
		testBody[0:5], testBody[5:10], testBody[10:15] + "," + testBody[15:20],
		testBody[20:50], testBody[50:66], testBody[66:90], testBody[90:99], testBody[99:107],
	}
	detail := `["` + strings.Join(groups, `","`) + `"]`
	quoted := strings.ReplaceAll(detail, `"`, `\"`)

	payload := `{"data":{"list":[` +
		`{"issue":20240503,"detail":"` + quoted + `"},` +
		`{"issue":20240502,"detail":` + detail + `},` +
		`{"issue":20240501,"resultString":"123"},` +
		`{"issue":20240430}` +
		`]}}`

	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	})

	res, err := api.Fetch(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, res.Draws, 2)
	assert.Equal(t, "20240503", res.Draws[0].Issue)
	assert.Equal(t, testBody, res.Draws[0].Body)
	assert.Equal(t, testBody, res.Draws[1].Body)
	assert.Equal(t, 2, res.Dropped)
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls int32
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[{"issue":"1","resultString":"` + testBody + `"}]`))
	})

	res, err := api.Fetch(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, res.Draws, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchClientErrorIsPermanent(t *testing.T) {
	var calls int32
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := api.Fetch(context.Background(), 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrFetch)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchBadPayload(t *testing.T) {
	for _, payload := range []string{"", "not json", `{"data":null}`, `{"data":{"items":[]}}`} {
		api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(payload))
		})
		_, err := api.Fetch(context.Background(), 5)
		assert.ErrorIs(t, err, common.ErrPayload, "payload %q", payload)
	}
}
