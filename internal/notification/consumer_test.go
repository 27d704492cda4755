package notification

import (
	"context"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nopSender struct {
	confirmations int
	failures      int
}

func (s *nopSender) SendPaymentConfirmation(_ context.Context, _ string, _ string, _ int64, _ float64) error {
	s.confirmations++
	return nil
}

func (s *nopSender) SendPaymentFailure(_ context.Context, _ string, _ int64) error {
	s.failures++
	return nil
}

func newTestConsumer(sender *nopSender) *Consumer {
	return NewConsumer(NewService(sender, zap.NewNop(), nil), zap.NewNop())
}

func TestProcessMessage_IgnoresUnknownEventType(t *testing.T) {
	sender := &nopSender{}
	c := newTestConsumer(sender)

	err := c.processMessage(context.Background(), &sarama.ConsumerMessage{
		Topic: "payment_events",
		Value: []byte(`{"event":"SomethingElse","event_id":1}`),
	})
	require.NoError(t, err)
	require.Zero(t, sender.confirmations)
	require.Zero(t, sender.failures)
}

func TestProcessMessage_MalformedPayloadIsNotRetried(t *testing.T) {
	c := newTestConsumer(&nopSender{})

	err := c.processMessage(context.Background(), &sarama.ConsumerMessage{
		Topic: "payment_events",
		Value: []byte(`not json`),
	})
	require.NoError(t, err)
}

func TestProcessMessage_CompletedWithoutEmailIsSkipped(t *testing.T) {
	sender := &nopSender{}
	c := newTestConsumer(sender)

	err := c.processMessage(context.Background(), &sarama.ConsumerMessage{
		Topic: "payment_events",
		Value: []byte(`{"event":"PaymentCompleted","event_id":7,"transaction_id":"tx-1","booking_id":3,"amount":1500}`),
	})
	require.NoError(t, err)
	require.Zero(t, sender.confirmations)
}

func TestProcessMessage_CancelledWithoutEmailIsSkipped(t *testing.T) {
	sender := &nopSender{}
	c := newTestConsumer(sender)

	err := c.processMessage(context.Background(), &sarama.ConsumerMessage{
		Topic: "payment_events",
		Value: []byte(`{"event":"PaymentCancelled","event_id":8,"transaction_id":"tx-2","booking_id":3,"amount":1500}`),
	})
	require.NoError(t, err)
	require.Zero(t, sender.failures)
}
