package broker

import (
	"context"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwaitConfirm_DescartaConfirmTardio(t *testing.T) {
	acks := make(chan amqp.Confirmation, 2)

	// el publish 1 venció antes de su confirm; el nack tardío no debe contar para el 2
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, awaitConfirm(ctx, acks, 1), context.Canceled)

	acks <- amqp.Confirmation{DeliveryTag: 1, Ack: false}
	acks <- amqp.Confirmation{DeliveryTag: 2, Ack: true}
	assert.NoError(t, awaitConfirm(context.Background(), acks, 2))
	assert.Empty(t, acks)
}

func TestAwaitConfirm_Nack(t *testing.T) {
	acks := make(chan amqp.Confirmation, 1)
	acks <- amqp.Confirmation{DeliveryTag: 3, Ack: false}
	assert.Error(t, awaitConfirm(context.Background(), acks, 3))
}

func TestAwaitConfirm_CanalCerrado(t *testing.T) {
	acks := make(chan amqp.Confirmation)
	close(acks)
	assert.Error(t, awaitConfirm(context.Background(), acks, 1))
}

func TestAwaitConfirm_Timeout(t *testing.T) {
	acks := make(chan amqp.Confirmation, 1)
	acks <- amqp.Confirmation{DeliveryTag: 1, Ack: true}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, awaitConfirm(ctx, acks, 2), context.DeadlineExceeded)
}
