package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// pollDeadline bounds each read so a Poll call returns quickly when the
// learner mutation topics are quiet and the worker stays responsive to
// shutdown.
const pollDeadline = 250 * time.Millisecond

// KafkaConsumer drains the learner mutation topics through one
// consumer-group reader.
type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewKafkaConsumer(brokers []string, groupID string, topics []string) (*KafkaConsumer, error) {
	if len(brokers) == 0 || groupID == "" || len(topics) == 0 {
		return nil, fmt.Errorf("kafka consumer requires brokers, a group id, and topics")
	}
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        brokers,
			GroupID:        groupID,
			GroupTopics:    topics,
			MinBytes:       1,
			MaxBytes:       10e6,
			MaxWait:        pollDeadline,
			CommitInterval: time.Second,
		}),
	}, nil
}

// Poll reads up to max messages, returning early with whatever arrived once
// a read deadline passes. Invalidation tolerates duplicates, so offsets are
// committed on an interval rather than per message.
func (c *KafkaConsumer) Poll(ctx context.Context, max int) ([]Message, error) {
	if max <= 0 {
		max = 1
	}
	var out []Message
	for len(out) < max {
		readCtx, cancel := context.WithTimeout(ctx, pollDeadline)
		msg, err := c.reader.ReadMessage(readCtx)
		cancel()
		switch {
		case err == nil:
			out = append(out, Message{Topic: msg.Topic, Payload: msg.Value})
		case errors.Is(err, context.DeadlineExceeded):
			return out, nil
		case errors.Is(err, context.Canceled):
			return out, ctx.Err()
		default:
			return out, err
		}
	}
	return out, nil
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
