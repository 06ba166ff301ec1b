package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/storefront-api/realtime"
	"github.com/yeremiapane/storefront-api/utils"
)

// KafkaPublisher mengirim OrderEvent ke topic Kafka, key = order id supaya event satu order berurutan
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to start Sarama producer: %w", err)
	}

	utils.InfoLogger.WithField("brokers", brokers).Info("Kafka producer connected")
	return NewKafkaPublisherWithProducer(producer, topic), nil
}

func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishOrderEvent(ctx context.Context, event OrderEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(uint64(event.OrderID), 10)),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", event.Type, p.topic, err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"event":     event.Type,
		"order_id":  event.OrderID,
		"partition": partition,
		"offset":    offset,
	}).Debug("Order event published")
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher dipakai saat KAFKA_BROKERS kosong
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderEvent(context.Context, OrderEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }

// HubPublisher menyiarkan event order ke dashboard admin (websocket) lalu meneruskannya ke publisher berikutnya
type HubPublisher struct {
	hub  *realtime.Hub
	next EventPublisher
}

func NewHubPublisher(hub *realtime.Hub, next EventPublisher) *HubPublisher {
	if next == nil {
		next = NoopPublisher{}
	}
	return &HubPublisher{hub: hub, next: next}
}

func (p *HubPublisher) PublishOrderEvent(ctx context.Context, event OrderEvent) error {
	p.hub.Broadcast(realtime.Message{Event: realtime.EventOrderUpdate, Data: event})
	return p.next.PublishOrderEvent(ctx, event)
}

func (p *HubPublisher) Close() error {
	return p.next.Close()
}
