// Package kafka builds watermill publishers and subscribers backed by Kafka.
package kafka

import (
	"fmt"

	"github.com/IBM/sarama"
	"github.com/ThreeDotsLabs/watermill"
	kafkaWM "github.com/ThreeDotsLabs/watermill-kafka/v3/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// NewPublisher creates a Kafka-backed message publisher.
func NewPublisher(brokers []string, logger watermill.LoggerAdapter) (message.Publisher, error) {
	cfg := kafkaWM.DefaultSaramaSyncPublisherConfig()

	pub, err := kafkaWM.NewPublisher(kafkaWM.PublisherConfig{
		Brokers:               brokers,
		Marshaler:             kafkaWM.DefaultMarshaler{},
		OverwriteSaramaConfig: cfg,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}
	return pub, nil
}

// NewSubscriber creates a Kafka-backed message subscriber for groupID.
// Consumption starts at the newest offset: the status feed only cares about
// changes from now on, it reconciles history with a full re-fetch.
func NewSubscriber(brokers []string, groupID string, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	cfg := kafkaWM.DefaultSaramaSubscriberConfig()
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest

	sub, err := kafkaWM.NewSubscriber(kafkaWM.SubscriberConfig{
		Brokers:               brokers,
		Unmarshaler:           kafkaWM.DefaultMarshaler{},
		ConsumerGroup:         groupID,
		OverwriteSaramaConfig: cfg,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka subscriber: %w", err)
	}
	return sub, nil
}
