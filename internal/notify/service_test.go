package notify_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"satchel/internal/config"
	"satchel/internal/notify"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notify.NewService(&cfg)
	if err := svc.Publish(context.Background(), notify.EventError, notify.Payload{"context": "x", "error": "y"}); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		event          notify.Event
		payload        notify.Payload
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name:  "attachment linked",
			event: notify.EventAttachmentLinked,
			payload: notify.Payload{
				"file": "report.pdf",
				"note": "2024-03-05.md",
			},
			expectTitle:   "Satchel - Linked Existing File",
			expectMessage: "report.pdf already exists; linked the existing file in 2024-03-05.md",
			expectTags:    "satchel,attachment,linked",
		},
		{
			name:  "attachment expired",
			event: notify.EventAttachmentExpired,
			payload: notify.Payload{
				"file":   "photo.png",
				"window": "5m0s",
				"path":   "inbox/photo.png",
			},
			expectTitle:   "Satchel - Attachment Left In Place",
			expectMessage: "No note referenced photo.png within 5m0s; it stays at inbox/photo.png",
			expectTags:    "satchel,attachment,expired",
		},
		{
			name:  "batch rejected",
			event: notify.EventBatchRejected,
			payload: notify.Payload{
				"reason": "malware.exe has unsupported type application/octet-stream",
			},
			expectTitle:    "Satchel - Drop Rejected",
			expectMessage:  "Rejected drop: malware.exe has unsupported type application/octet-stream",
			expectTags:     "satchel,rejected",
			expectPriority: "high",
		},
		{
			name:  "error",
			event: notify.EventError,
			payload: notify.Payload{
				"context": "rename",
				"error":   "permission denied",
			},
			expectTitle:    "Satchel - Error",
			expectMessage:  "Error with rename: permission denied",
			expectTags:     "satchel,error,alert",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5

			svc := notify.NewService(&cfg)
			if err := svc.Publish(context.Background(), tc.event, tc.payload); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceHonorsMinLevel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for filtered event: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.MinLevel = "error"

	svc := notify.NewService(&cfg)
	filtered := []notify.Event{
		notify.EventAttachmentStored,
		notify.EventAttachmentLinked,
		notify.EventAttachmentExpired,
		notify.EventNoteCreated,
		notify.EventTest,
	}
	for _, event := range filtered {
		if err := svc.Publish(context.Background(), event, notify.Payload{"value": "ignored"}); err != nil {
			t.Fatalf("expected no error for filtered event %s, got %v", event, err)
		}
	}
}

func TestNtfyServiceIgnoresUnknownEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for unknown event: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	svc := notify.NewService(&cfg)
	if err := svc.Publish(context.Background(), notify.Event("made_up"), nil); err != nil {
		t.Fatalf("unknown events should be dropped silently, got %v", err)
	}
}
