package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mylarsensor/internal/config"
)

const userAgent = "mylarsensor"

// Service defines the notification surface exposed to the daemon.
type Service interface {
	NotifyDaemonStarted(ctx context.Context, sensorCount int) error
	NotifySensorUnavailable(ctx context.Context, sensorName string, cause error) error
	NotifySensorRecovered(ctx context.Context, sensorName string, count int) error
	TestNotification(ctx context.Context) error
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

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyDaemonStarted(ctx context.Context, sensorCount int) error {
	data := payload{
		title:   "Mylar Sensor - Started",
		message: fmt.Sprintf("Polling started with %d sensors", sensorCount),
		tags:    []string{"mylarsensor", "daemon", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySensorUnavailable(ctx context.Context, sensorName string, cause error) error {
	var builder strings.Builder
	builder.WriteString(strings.TrimSpace(sensorName))
	builder.WriteString(" is unavailable")
	if cause != nil {
		builder.WriteString(": ")
		builder.WriteString(strings.TrimSpace(cause.Error()))
	}

	data := payload{
		title:    "Mylar Sensor - Unavailable",
		message:  builder.String(),
		tags:     []string{"mylarsensor", "sensor", "unavailable"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySensorRecovered(ctx context.Context, sensorName string, count int) error {
	data := payload{
		title:   "Mylar Sensor - Recovered",
		message: fmt.Sprintf("%s is available again (%d items)", strings.TrimSpace(sensorName), count),
		tags:    []string{"mylarsensor", "sensor", "recovered"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Mylar Sensor - Test",
		message:  "Notification system test",
		tags:     []string{"mylarsensor", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyDaemonStarted(context.Context, int) error               { return nil }
func (noopService) NotifySensorUnavailable(context.Context, string, error) error { return nil }
func (noopService) NotifySensorRecovered(context.Context, string, int) error     { return nil }
func (noopService) TestNotification(context.Context) error                       { return nil }
