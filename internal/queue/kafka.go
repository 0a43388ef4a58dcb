package queue

import (
	"context"
	"encoding/json"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	log "github.com/sirupsen/logrus"
)

var _ Events = (*Kafka)(nil)

// Kafka publishes events to a kafka topic, keyed by project slug so one
// project's changes stay ordered.
type Kafka struct {
	producer *kafka.Producer
	topic    string
}

func NewKafka(brokers, topic string) (*Kafka, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
	})
	if err != nil {
		return nil, err
	}

	k := &Kafka{producer: producer, topic: topic}
	go k.deliveryLoop()
	return k, nil
}

func (k *Kafka) deliveryLoop() {
	for e := range k.producer.Events() {
		msg, ok := e.(*kafka.Message)
		if !ok {
			continue
		}
		if msg.TopicPartition.Error != nil {
			log.WithError(msg.TopicPartition.Error).Warn("event delivery failed")
		}
	}
}

func (k *Kafka) Publish(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &k.topic,
			Partition: kafka.PartitionAny,
		},
		Key:   []byte(event.Project),
		Value: payload,
	}, nil)
}

func (k *Kafka) Close() {
	k.producer.Flush(5000)
	k.producer.Close()
}
