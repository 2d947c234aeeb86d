package mq

import (
	"context"
	"encoding/json"
	"time"

	kafka "github.com/segmentio/kafka-go"
)

type kafkaQueue struct {
	w *kafka.Writer
}

func NewKafka(brokers []string, topic string) Queue {
	if len(brokers) == 0 {
		return NewNoop()
	}
	if topic == "" {
		topic = "analytics.events"
	}
	// Writers are safe for concurrent use
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireOne,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
	return &kafkaQueue{w: w}
}

func (q *kafkaQueue) PublishEvent(evt TrackedEvent) error {
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return q.w.WriteMessages(ctx, kafka.Message{Key: []byte(evt.SiteID), Value: b})
}

func (q *kafkaQueue) Close() error {
	if q.w == nil {
		return nil
	}
	return q.w.Close()
}
