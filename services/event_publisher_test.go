package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisherSendsOrderEvent(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "order-events" {
			return errors.New("unexpected topic " + msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "42" {
			return errors.New("unexpected key " + string(key))
		}
		value, _ := msg.Value.Encode()
		var event map[string]interface{}
		if err := json.Unmarshal(value, &event); err != nil {
			return err
		}
		if event["type"] != EventOrderCreated || event["orderNumber"] != "ORD20261015001" {
			return errors.New("unexpected payload " + string(value))
		}
		if event["totalAmount"] != 54100.0 {
			return errors.New("total amount must be a JSON number")
		}
		return nil
	})

	publisher := NewKafkaPublisherWithProducer(producer, "order-events")
	err := publisher.PublishOrderEvent(context.Background(), OrderEvent{
		EventID:     "evt-1",
		Type:        EventOrderCreated,
		OrderID:     42,
		OrderNumber: "ORD20261015001",
		Status:      "pending",
		TotalAmount: decimal.NewFromInt(54100),
		Timestamp:   time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, publisher.Close())
}

func TestKafkaPublisherReturnsSendError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := NewKafkaPublisherWithProducer(producer, "order-events")
	err := publisher.PublishOrderEvent(context.Background(), OrderEvent{Type: EventOrderCancelled, OrderID: 7})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, publisher.Close())
}

func TestNoopPublisher(t *testing.T) {
	var p EventPublisher = NoopPublisher{}
	assert.NoError(t, p.PublishOrderEvent(context.Background(), OrderEvent{}))
	assert.NoError(t, p.Close())
}

func TestHubPublisherForwardsToNext(t *testing.T) {
	next := new(mockPublisher)
	next.On("PublishOrderEvent", mock.Anything, eventOfType(EventOrderStatusChanged)).Return(sarama.ErrOutOfBrokers).Once()
	next.On("Close").Return(nil).Once()

	// hub nil tetap aman, event tetap diteruskan
	p := NewHubPublisher(nil, next)
	err := p.PublishOrderEvent(context.Background(), OrderEvent{Type: EventOrderStatusChanged, OrderID: 3})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	assert.NoError(t, p.Close())
	next.AssertExpectations(t)
}
