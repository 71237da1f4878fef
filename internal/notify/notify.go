// Package notify sends fire-and-forget push notifications through ntfy.
// Delivery failures are logged and swallowed; nothing in the pipeline
// depends on a notification arriving.
package notify

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Notifier struct {
	ServerURL string
	Topic     string
	Client    *http.Client
}

func New(serverURL, topic string) *Notifier {
	return &Notifier{
		ServerURL: strings.TrimRight(serverURL, "/"),
		Topic:     topic,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts one notification. Returns false when ntfy is unconfigured or
// delivery failed; callers may ignore the result.
func (n *Notifier) Send(title, message, priority, tags string) bool {
	if n.Topic == "" {
		log.Debug().Msg("ntfy not configured, notification skipped")
		return false
	}

	req, err := http.NewRequest(http.MethodPost, n.ServerURL+"/"+n.Topic, strings.NewReader(message))
	if err != nil {
		log.Warn().Err(err).Msg("ntfy notification failed")
		return false
	}
	req.Header.Set("Title", title)
	if priority != "" {
		req.Header.Set("Priority", priority)
	}
	if tags != "" {
		req.Header.Set("Tags", tags)
	}

	resp, err := n.Client.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("ntfy notification failed")
		return false
	}
	resp.Body.Close()
	if resp.StatusCode >= 300 {
		log.Warn().Int("status", resp.StatusCode).Msg("ntfy notification rejected")
		return false
	}
	log.Info().Str("title", title).Msg("ntfy notification sent")
	return true
}
