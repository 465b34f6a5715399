package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"satchel/internal/config"
)

const userAgent = "Satchel/0.1.0"

// Event identifies a pipeline milestone worth telling the user about.
type Event string

const (
	EventAttachmentStored  Event = "attachment_stored"
	EventAttachmentLinked  Event = "attachment_linked"
	EventAttachmentExpired Event = "attachment_expired"
	EventBatchRejected     Event = "batch_rejected"
	EventNoteCreated       Event = "note_created"
	EventError             Event = "error"
	EventTest              Event = "test"
)

// Payload carries the per-event message fields.
type Payload map[string]string

// Service defines the notification surface exposed to pipeline components.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		minLevel: parseLevel(cfg.Notifications.MinLevel),
		client:   &http.Client{Timeout: timeout},
	}
}

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

func parseLevel(s string) level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
	level    level
}

type ntfyService struct {
	endpoint string
	minLevel level
	client   *http.Client
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	msg, ok := render(event, payload)
	if !ok {
		return nil
	}
	if msg.level < n.minLevel {
		return nil
	}
	return n.send(ctx, msg)
}

func render(event Event, payload Payload) (message, bool) {
	get := func(key string) string { return strings.TrimSpace(payload[key]) }
	switch event {
	case EventAttachmentStored:
		return message{
			title: "Satchel - Attachment Stored",
			body:  fmt.Sprintf("Stored %s in %s", get("file"), get("note")),
			tags:  []string{"satchel", "attachment", "stored"},
			level: levelDebug,
		}, true
	case EventAttachmentLinked:
		return message{
			title: "Satchel - Linked Existing File",
			body:  fmt.Sprintf("%s already exists; linked the existing file in %s", get("file"), get("note")),
			tags:  []string{"satchel", "attachment", "linked"},
			level: levelInfo,
		}, true
	case EventAttachmentExpired:
		return message{
			title: "Satchel - Attachment Left In Place",
			body:  fmt.Sprintf("No note referenced %s within %s; it stays at %s", get("file"), get("window"), get("path")),
			tags:  []string{"satchel", "attachment", "expired"},
			level: levelWarn,
		}, true
	case EventBatchRejected:
		return message{
			title:    "Satchel - Drop Rejected",
			body:     fmt.Sprintf("Rejected drop: %s", get("reason")),
			tags:     []string{"satchel", "rejected"},
			priority: "high",
			level:    levelWarn,
		}, true
	case EventNoteCreated:
		return message{
			title: "Satchel - Daily Note Created",
			body:  fmt.Sprintf("Created %s", get("note")),
			tags:  []string{"satchel", "note", "created"},
			level: levelInfo,
		}, true
	case EventError:
		return message{
			title:    "Satchel - Error",
			body:     fmt.Sprintf("Error with %s: %s", get("context"), get("error")),
			tags:     []string{"satchel", "error", "alert"},
			priority: "high",
			level:    levelError,
		}, true
	case EventTest:
		return message{
			title: "Satchel - Test",
			body:  "Notifications are working.",
			tags:  []string{"satchel", "test"},
			level: levelInfo,
		}, true
	default:
		return message{}, false
	}
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Title", msg.title)
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notification rejected: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
