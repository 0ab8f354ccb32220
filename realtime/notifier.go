// Package realtime pushes human-readable submission events to the external
// socket broker that feeds the timing operator's dashboard. The broker is an
// opaque collaborator: delivery is fire-and-forget and never part of the
// durability story.
package realtime

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rizkybor/sts-jurysystem-sub000/logging"
)

type SubmissionEvent struct {
	Type       string    `json:"type"`
	EventID    string    `json:"eventId"`
	Discipline string    `json:"discipline"`
	TeamID     string    `json:"teamId"`
	Team       string    `json:"team"`
	Detail     string    `json:"detail"`
	Judge      string    `json:"judge"`
	Timestamp  time.Time `json:"timestamp"`
}

type Notifier struct {
	url    string
	client *http.Client
}

// NewNotifier returns a notifier for the given broker URL. An empty URL
// (no broker configured, the usual case outside production) disables it.
func NewNotifier(url string) *Notifier {
	return &Notifier{
		url: url,
		client: &http.Client{
			Timeout: 3 * time.Second,
		},
	}
}

// Publish delivers the event in the background. Failures are logged and
// dropped; a submission never waits on, or fails because of, the dashboard.
func (n *Notifier) Publish(event SubmissionEvent) {
	if n == nil || n.url == "" {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	go func() {
		body, err := json.Marshal(event)
		if err != nil {
			logging.Log.Errorf("REALTIME: failed to marshal event: %v", err)
			return
		}

		resp, err := n.client.Post(n.url, "application/json", bytes.NewReader(body))
		if err != nil {
			logging.Log.Warnf("REALTIME: failed to push event to broker: %v", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			logging.Log.Warnf("REALTIME: broker rejected event with status %d", resp.StatusCode)
		}
	}()
}
