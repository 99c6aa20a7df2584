// Package kafka publishes audit events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	audit "timecapsule/pkg/platform/audit"

	"github.com/twmb/franz-go/pkg/kgo"
)

// record is the wire shape of an audit event on the topic.
type record struct {
	Category     string  `json:"category"`
	Timestamp    int64   `json:"timestamp"`
	OwnerID      string  `json:"owner_id"`
	ActorID      string  `json:"actor_id,omitempty"`
	Action       string  `json:"action"`
	CapsuleIndex *uint64 `json:"capsule_index,omitempty"`
	Reason       string  `json:"reason,omitempty"`
	RequestID    string  `json:"request_id,omitempty"`
	ClientIP     string  `json:"client_ip,omitempty"`
}

// Producer is the subset of *kgo.Client used by Store.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Store appends audit events to a topic, keyed by owner so that one owner's
// events stay ordered within a partition.
type Store struct {
	producer Producer
	topic    string
}

func New(producer Producer, topic string) *Store {
	return &Store{producer: producer, topic: topic}
}

// NewClient builds a franz-go client for the given seed brokers.
func NewClient(brokers []string, clientID string) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
		kgo.ProducerLinger(5*time.Millisecond),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return client, nil
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(encode(event))
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	rec := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.OwnerID.String()),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "action", Value: []byte(event.Action)},
			{Key: "category", Value: []byte(event.Category)},
		},
	}
	if err := s.producer.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

func encode(event audit.Event) record {
	return record{
		Category:     string(event.Category),
		Timestamp:    event.Timestamp.Unix(),
		OwnerID:      event.OwnerID.String(),
		ActorID:      event.ActorID,
		Action:       event.Action,
		CapsuleIndex: event.CapsuleIndex,
		Reason:       event.Reason,
		RequestID:    event.RequestID,
		ClientIP:     event.ClientIP,
	}
}
