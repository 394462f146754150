package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/balcao-digital-api/internal/application/apptest"
	"github.com/jhoicas/balcao-digital-api/internal/application/ports"
	"github.com/jhoicas/balcao-digital-api/pkg/logger"
)

type ackRecorder struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *ackRecorder) Ack(uint64, bool) error {
	a.acked = true
	return nil
}

func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}

func (a *ackRecorder) Reject(_ uint64, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}

func delivery(t *testing.T, ack amqp.Acknowledger, redelivered bool) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(ports.WhatsAppMessage{OrderID: "o1", Kind: "pickup", Phone: "5511912345678", Text: "ok"})
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, Body: body, Redelivered: redelivered}
}

func TestProcess_Ack(t *testing.T) {
	n := &apptest.Notifier{}
	c := newConsumer(nil, "q", 1, n, logger.Nop())
	ack := &ackRecorder{}

	c.process(context.Background(), delivery(t, ack, false))
	assert.True(t, ack.acked)
	require.Len(t, n.Messages(), 1)
	assert.Equal(t, "o1", n.Messages()[0].OrderID)
}

func TestProcess_FalloReencolaUnaVez(t *testing.T) {
	c := newConsumer(nil, "q", 1, &apptest.Notifier{Err: errors.New("twilio caído")}, logger.Nop())

	first := &ackRecorder{}
	c.process(context.Background(), delivery(t, first, false))
	assert.True(t, first.nacked)
	assert.True(t, first.requeue)

	second := &ackRecorder{}
	c.process(context.Background(), delivery(t, second, true))
	assert.True(t, second.nacked)
	assert.False(t, second.requeue)
}

func TestProcess_JSONInvalidoVaADLQ(t *testing.T) {
	n := &apptest.Notifier{}
	c := newConsumer(nil, "q", 1, n, logger.Nop())
	ack := &ackRecorder{}

	c.process(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("{")})
	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
	assert.Empty(t, n.Messages())
}

func TestDeadLetterQueue(t *testing.T) {
	assert.Equal(t, "order_notifications.dlq", DeadLetterQueue("order_notifications"))
}
