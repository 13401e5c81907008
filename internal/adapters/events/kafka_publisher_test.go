package events

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func TestKafkaPublisherTopicMapping(t *testing.T) {
	t.Parallel()

	p, err := NewKafkaPublisher([]string{"broker:9092"}, map[string]string{
		"learner.snapshot_refreshed": "learner.snapshot_refreshed.v2",
	})
	if err != nil {
		t.Fatalf("new publisher failed: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })

	if got := p.topicFor("learner.snapshot_refreshed"); got != "learner.snapshot_refreshed.v2" {
		t.Errorf("remapped event type: got %q", got)
	}
	if got := p.topicFor("learner.profile_updated"); got != "learner.profile_updated" {
		t.Errorf("unmapped event type must use its own name as topic, got %q", got)
	}
}

func TestKafkaPublisherRequiresBrokers(t *testing.T) {
	t.Parallel()

	if _, err := NewKafkaPublisher(nil, nil); err == nil {
		t.Fatalf("expected error without brokers")
	}
}

func TestLoggingPublisherAcceptsAnyEvent(t *testing.T) {
	t.Parallel()

	p := NewLoggingPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := p.Publish(context.Background(), "learner.snapshot_refreshed", []byte(`{}`), "user-1"); err != nil {
		t.Fatalf("logging publisher must not fail: %v", err)
	}
}
