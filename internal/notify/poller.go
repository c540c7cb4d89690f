package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Poller fetches queued webhook messages from the pub/sub-over-HTTP
// relay on demand. The relay is polled, never pushed to; each user has
// a generated topic.
type Poller struct {
	BaseURL string
	Client  *http.Client
}

func NewPoller(baseURL string) *Poller {
	return &Poller{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// relayMessage is the relay's newline-delimited JSON message shape.
type relayMessage struct {
	ID    string `json:"id"`
	Time  int64  `json:"time"`
	Title string `json:"title"`
	Body  string `json:"message"`
}

// Poll fetches everything queued on the user's topic since the given
// time. A failed poll surfaces to the caller; there is no retry.
func (p *Poller) Poll(ctx context.Context, topic string, since time.Time) ([]Notification, error) {
	url := fmt.Sprintf("%s/%s/json?poll=1&since=%s", p.BaseURL, topic, strconv.FormatInt(since.Unix(), 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("polling relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("relay status %d", resp.StatusCode)
	}

	var items []Notification
	dec := json.NewDecoder(resp.Body)
	for {
		var msg relayMessage
		if err := dec.Decode(&msg); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("decoding relay message: %w", err)
		}
		if msg.ID == "" {
			continue
		}
		items = append(items, Notification{
			ID:        msg.ID,
			Title:     msg.Title,
			Body:      msg.Body,
			Source:    "webhook",
			CreatedAt: time.Unix(msg.Time, 0),
		})
	}
	return items, nil
}
