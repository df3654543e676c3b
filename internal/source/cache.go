// Package source — cache.go держит последнюю выборку истории в памяти с TTL.
// Один Cache создаётся при старте и передаётся всем, кому нужны тиражи.
package source

import (
	"context"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Fetcher — всё, что умеет отдать последние limit тиражей.
type Fetcher interface {
	Fetch(ctx context.Context, limit int) (*FetchResult, error)
}

// Cache — кэш истории с TTL. Одновременные промахи схлопываются в один запрос.
// Ошибка запроса не кэшируется и не портит уже сохранённый результат.
type Cache struct {
	fetcher Fetcher
	limit   int
	ttl     time.Duration
	now     func() time.Time

	mu     sync.Mutex
	result *FetchResult
	at     time.Time
	gen    uint64 // увеличивается на каждом Invalidate

	group singleflight.Group
}

// NewCache создаёт кэш. ttl == 0 отключает кэширование.
func NewCache(fetcher Fetcher, limit int, ttl time.Duration) *Cache {
	return &Cache{
		fetcher: fetcher,
		limit:   limit,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Draws возвращает историю из кэша или загружает заново.
func (c *Cache) Draws(ctx context.Context) (*FetchResult, error) {
	c.mu.Lock()
	if c.result != nil && c.ttl > 0 && c.now().Sub(c.at) < c.ttl {
		res := c.result
		c.mu.Unlock()
		return res, nil
	}
	gen := c.gen
	c.mu.Unlock()

	v, err, shared := c.group.Do("draws:"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		res, err := c.fetcher.Fetch(ctx, c.limit)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		// Invalidate во время запроса — результат отдаём, но не сохраняем.
		if c.gen == gen {
			c.result = res
			c.at = c.now()
		}
		c.mu.Unlock()
		return res, nil
	})
	if err != nil {
		return nil, err
	}

	res := v.(*FetchResult)
	log.WithFields(log.Fields{
		"draws":  len(res.Draws),
		"shared": shared,
	}).Debug("История загружена")
	return res, nil
}

// Invalidate сбрасывает кэш: следующий Draws пойдёт в источник.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result = nil
	c.gen++
}
