package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type KafkaPublisher struct {
	writer *kafka.Writer
	now    func() time.Time
}

func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
		now: time.Now,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, event Event) error {
	msg, err := newMessage(topic, key, event, p.now())
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write to %s failed: %w", topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func newMessage(topic, key string, event Event, now time.Time) (kafka.Message, error) {
	payload := make(Event, len(event)+2)
	for k, v := range event {
		payload[k] = v
	}
	if _, ok := payload["eventID"]; !ok {
		payload["eventID"] = uuid.NewString()
	}
	payload["occurredAt"] = now.UTC().Format(time.RFC3339Nano)

	data, err := json.Marshal(payload)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	return kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  now,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(fmt.Sprint(event["type"]))},
		},
	}, nil
}
