// Package source получает результаты XSMB: историю из JSON API,
// live-страницу и вставленный пользователем текст.
//
// api.go — клиент JSON API истории розыгрышей.
package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"

	"soicau.vn/xsmb-bot/internal/common"
	"soicau.vn/xsmb-bot/internal/xsmb"
)

// APIConfig — параметры клиента истории.
type APIConfig struct {
	URL      string
	GameCode string
	Timeout  time.Duration
	Retries  uint64 // повторы после первой попытки
}

// FetchResult — тиражи в порядке API (самый свежий первым) и число отбракованных.
type FetchResult struct {
	Draws   []xsmb.DrawRecord
	Dropped int
	Fetched time.Time
}

// APIClient ходит в JSON API истории розыгрышей.
type APIClient struct {
	cfg    APIConfig
	client *http.Client
}

// NewAPIClient создаёт клиента с таймаутом на запрос.
func NewAPIClient(cfg APIConfig) *APIClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &APIClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Fetch запрашивает limit последних тиражей.
//
// Сетевые ошибки и 5xx повторяются с экспоненциальной задержкой (не больше Retries раз).
// Ошибки формата не повторяются. Тиражи, строка которых не равна 107 цифрам,
// выкидываются целиком и учитываются в Dropped.
func (c *APIClient) Fetch(ctx context.Context, limit int) (*FetchResult, error) {
	reqURL, err := c.buildURL(limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrFetch, err)
	}

	var body []byte
	op := func() error {
		b, err := c.get(ctx, reqURL)
		if err != nil {
			return err
		}
		body = b
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.cfg.Retries), ctx)

	err = backoff.RetryNotify(op, policy, func(err error, next time.Duration) {
		log.WithError(err).WithField("next", next).Warn("Повтор запроса к API истории")
	})
	if err != nil {
		return nil, err
	}

	records, err := decodePayload(body)
	if err != nil {
		return nil, err
	}

	res := &FetchResult{Fetched: time.Now()}
	for _, r := range records {
		d, err := r.draw()
		if err != nil {
			res.Dropped++
			log.WithError(err).WithField("issue", r.Issue).Debug("Тираж отброшен")
			continue
		}
		res.Draws = append(res.Draws, d)
	}

	if res.Dropped > 0 {
		log.WithFields(log.Fields{
			"dropped": res.Dropped,
			"kept":    len(res.Draws),
		}).Warn("Часть тиражей отброшена: строка не из 107 цифр")
	}
	return res, nil
}

func (c *APIClient) buildURL(limit int) (string, error) {
	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("limitNum", strconv.Itoa(limit))
	q.Set("gameCode", c.cfg.GameCode)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *APIClient) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: %v", common.ErrFetch, err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: HTTP %d", common.ErrFetch, resp.StatusCode)
		if resp.StatusCode < 500 {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: чтение ответа: %v", common.ErrFetch, err)
	}
	return body, nil
}

// apiRecord — одна запись истории. Номер тиража бывает и строкой, и числом.
type apiRecord struct {
	Issue        flexString      `json:"issue"`
	OpenTime     flexString      `json:"openTime"`
	ResultString string          `json:"resultString"`
	Detail       json.RawMessage `json:"detail"`
}

// draw собирает строку из resultString, а если её нет — из detail.
func (r apiRecord) draw() (xsmb.DrawRecord, error) {
	body := stripSeparators(r.ResultString)
	if body == "" {
		groups, err := decodeDetail(r.Detail)
		if err != nil {
			return xsmb.DrawRecord{}, err
		}
		body = stripSeparators(strings.Join(groups, ""))
	}
	return xsmb.NewDrawRecord(string(r.Issue), string(r.OpenTime), body)
}

// decodePayload понимает три формы ответа:
//
//	[ {...}, ... ]
//	{"data": [ {...}, ... ]}
//	{"data": {"list": [ {...}, ... ]}}
func decodePayload(body []byte) ([]apiRecord, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: пустой ответ", common.ErrPayload)
	}

	if body[0] == '[' {
		return decodeList(body)
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPayload, err)
	}
	data := bytes.TrimSpace(envelope.Data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: нет поля data", common.ErrPayload)
	}
	if data[0] == '[' {
		return decodeList(data)
	}

	var inner struct {
		List json.RawMessage `json:"list"`
	}
	if err := json.Unmarshal(data, &inner); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPayload, err)
	}
	if len(bytes.TrimSpace(inner.List)) == 0 {
		return nil, fmt.Errorf("%w: нет поля data.list", common.ErrPayload)
	}
	return decodeList(inner.List)
}

func decodeList(raw []byte) ([]apiRecord, error) {
	var records []apiRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPayload, err)
	}
	return records, nil
}

// decodeDetail разбирает поле detail: JSON-строку с массивом групп
// ("[\"12345\",\"11234,90876\",...]") или сразу массив.
func decodeDetail(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("%w: нет ни resultString, ни detail", xsmb.ErrInvalidBody)
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("%w: detail: %v", xsmb.ErrInvalidBody, err)
		}
		raw = []byte(inner)
	}
	var groups []string
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, fmt.Errorf("%w: detail: %v", xsmb.ErrInvalidBody, err)
	}
	return groups, nil
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ',', ' ', '-', '\n', '\t', '\r':
			return -1
		}
		return r
	}, s)
}

// flexString принимает JSON-строку или число.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}
