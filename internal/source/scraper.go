// Package source — scraper.go разбирает live-страницу с результатами розыгрыша.
// Значения призов ищутся по классам внутри блока box_kqxs; ненайденные
// группы остаются '?' в итоговой строке.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"soicau.vn/xsmb-bot/internal/common"
	"soicau.vn/xsmb-bot/internal/xsmb"
)

// liveClasses — CSS-классы групп в порядке xsmb.Groups.
var liveClasses = []string{
	"giai-db", "giai-nhat", "giai-nhi", "giai-ba",
	"giai-tu", "giai-nam", "giai-sau", "giai-bay",
}

const liveBoxClass = "box_kqxs"

// Scraper загружает live-страницу.
type Scraper struct {
	url    string
	client *http.Client
}

// NewScraper создаёт скрейпер с таймаутом на запрос.
func NewScraper(url string, timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Scraper{url: url, client: &http.Client{Timeout: timeout}}
}

// FetchLive возвращает строку из 107 символов, где ещё не выпавшие цифры — '?'.
func (s *Scraper) FetchLive(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrFetch, err)
	}
	// Сайт отдаёт пустую страницу без браузерного User-Agent
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: HTTP %d", common.ErrFetch, resp.StatusCode)
	}

	groups, err := ParseLiveHTML(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", err
	}

	live := xsmb.MapGroups(groups)
	log.WithField("filled", xsmb.DrawLength-strings.Count(live, string(xsmb.Placeholder))).
		Debug("Live-страница разобрана")
	return live, nil
}

// ParseLiveHTML достаёт значения призов по группам из HTML страницы.
func ParseLiveHTML(r io.Reader) ([][]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPayload, err)
	}

	box := findFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "div" && hasClass(n, liveBoxClass)
	})
	if box == nil {
		return nil, common.ErrLiveNotFound
	}

	groups := make([][]string, len(liveClasses))
	for gi, cls := range liveClasses {
		node := findFirst(box, func(n *html.Node) bool {
			return n.Type == html.ElementNode && hasClass(n, cls)
		})
		if node == nil {
			continue
		}
		groups[gi] = extractNumbers(node)
	}
	return groups, nil
}

// extractNumbers собирает числа из «листовых» div внутри узла,
// а если таких нет — из текстовых узлов длиной от двух цифр.
func extractNumbers(node *html.Node) []string {
	var nums []string
	walk(node, func(n *html.Node) {
		if n == node || n.Type != html.ElementNode || n.Data != "div" || hasChildDiv(n) {
			return
		}
		if t := textContent(n); isDigits(t) {
			nums = append(nums, t)
		}
	})
	if len(nums) > 0 {
		return nums
	}

	walk(node, func(n *html.Node) {
		if n.Type != html.TextNode {
			return
		}
		if t := strings.TrimSpace(n.Data); len(t) > 1 && isDigits(t) {
			nums = append(nums, t)
		}
	})
	return nums
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, pred); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, cls string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == cls {
				return true
			}
		}
	}
	return false
}

func hasChildDiv(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "div" {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(strings.TrimSpace(c.Data))
		}
	})
	return sb.String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
