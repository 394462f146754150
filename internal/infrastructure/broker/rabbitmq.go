// Package broker publica y consume avisos de WhatsApp por RabbitMQ.
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/balcao-digital-api/internal/application/ports"
	"github.com/jhoicas/balcao-digital-api/pkg/logger"
)

var _ ports.Notifier = (*Publisher)(nil)

// Dial abre la conexión AMQP.
func Dial(url string) (*amqp.Connection, error) {
	if url == "" {
		return nil, errors.New("broker: RABBITMQ_URL vacío")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("broker: conectar: %w", err)
	}
	return conn, nil
}

// DeadLetterQueue nombre de la cola de mensajes descartados.
func DeadLetterQueue(queue string) string { return queue + ".dlq" }

// declare crea la cola durable y su DLQ.
func declare(ch *amqp.Channel, queue string) error {
	dlq := DeadLetterQueue(queue)
	if _, err := ch.QueueDeclare(dlq, true, false, false, false, nil); err != nil {
		return fmt.Errorf("broker: declarar %s: %w", dlq, err)
	}
	_, err := ch.QueueDeclare(queue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": dlq,
	})
	if err != nil {
		return fmt.Errorf("broker: declarar %s: %w", queue, err)
	}
	return nil
}

// Publisher encola los avisos; el proceso notifier los entrega.
type Publisher struct {
	ch    *amqp.Channel
	queue string
	acks  <-chan amqp.Confirmation
	mu    sync.Mutex // serializa Publish y protege tag
	tag   uint64     // delivery tag del último publish aceptado por el canal
	log   *logger.Logger
}

// NewPublisher abre un canal con publisher confirms sobre conn.
func NewPublisher(conn *amqp.Connection, queue string, log *logger.Logger) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("broker: canal: %w", err)
	}
	if err := declare(ch, queue); err != nil {
		_ = ch.Close()
		return nil, err
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("broker: confirm: %w", err)
	}
	return &Publisher{
		ch:    ch,
		queue: queue,
		acks:  ch.NotifyPublish(make(chan amqp.Confirmation, 16)),
		log:   log.Component("broker.publisher"),
	}, nil
}

// Notify publica el mensaje como JSON persistente y espera el ack del broker.
func (p *Publisher) Notify(ctx context.Context, msg ports.WhatsAppMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("broker: serializar: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		MessageId:    fmt.Sprintf("%s:%s", msg.OrderID, msg.Kind),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("broker: publicar: %w", err)
	}
	p.tag++
	if err := awaitConfirm(ctx, p.acks, p.tag); err != nil {
		return err
	}
	p.log.Debug().Str("order_id", msg.OrderID).Str("kind", msg.Kind).Msg("aviso encolado")
	return nil
}

// awaitConfirm espera el confirm de tag. Los confirms de tags anteriores llegan tarde de
// publicaciones cuyo ctx venció y se descartan.
func awaitConfirm(ctx context.Context, acks <-chan amqp.Confirmation, tag uint64) error {
	for {
		select {
		case conf, ok := <-acks:
			if !ok {
				return errors.New("broker: canal de confirms cerrado")
			}
			if conf.DeliveryTag < tag {
				continue
			}
			if !conf.Ack {
				return errors.New("broker: NACK del broker")
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close cierra el canal.
func (p *Publisher) Close() error {
	if p.ch == nil || p.ch.IsClosed() {
		return nil
	}
	return p.ch.Close()
}

// Consumer lee la cola y entrega cada aviso al canal final (Twilio).
type Consumer struct {
	ch       *amqp.Channel
	queue    string
	prefetch int
	handler  ports.Notifier
	log      *logger.Logger
	wg       sync.WaitGroup
}

// NewConsumer prepara el consumidor. prefetch limita los avisos en vuelo.
func NewConsumer(conn *amqp.Connection, queue string, prefetch int, handler ports.Notifier, log *logger.Logger) (*Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("broker: canal: %w", err)
	}
	if err := declare(ch, queue); err != nil {
		_ = ch.Close()
		return nil, err
	}
	if prefetch <= 0 {
		prefetch = 4
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("broker: qos: %w", err)
	}
	return newConsumer(ch, queue, prefetch, handler, log), nil
}

func newConsumer(ch *amqp.Channel, queue string, prefetch int, handler ports.Notifier, log *logger.Logger) *Consumer {
	return &Consumer{ch: ch, queue: queue, prefetch: prefetch, handler: handler, log: log.Component("broker.consumer")}
}

// Run consume hasta que ctx se cancele o el canal se cierre. Espera a los avisos en curso.
func (c *Consumer) Run(ctx context.Context) error {
	deliveries, err := c.ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("broker: consumir %s: %w", c.queue, err)
	}
	c.log.Info().Str("queue", c.queue).Int("prefetch", c.prefetch).Msg("consumidor iniciado")
	defer c.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("broker: canal de entregas cerrado")
			}
			c.wg.Add(1)
			go func(d amqp.Delivery) {
				defer c.wg.Done()
				c.process(ctx, d)
			}(d)
		}
	}
}

// process confirma la entrega. JSON inválido va a la DLQ; un fallo del canal final se
// reencola una vez y a la segunda va a la DLQ.
func (c *Consumer) process(ctx context.Context, d amqp.Delivery) {
	var msg ports.WhatsAppMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		c.log.Error().Err(err).Str("message_id", d.MessageId).Msg("aviso ilegible")
		c.settle(d.Nack(false, false))
		return
	}
	if err := c.handler.Notify(ctx, msg); err != nil {
		requeue := !d.Redelivered
		c.log.Warn().Err(err).
			Str("order_id", msg.OrderID).
			Bool("requeue", requeue).
			Msg("fallo al entregar aviso")
		c.settle(d.Nack(false, requeue))
		return
	}
	c.settle(d.Ack(false))
}

func (c *Consumer) settle(err error) {
	if err != nil {
		c.log.Error().Err(err).Msg("no se pudo confirmar la entrega")
	}
}

// Close cierra el canal del consumidor.
func (c *Consumer) Close() error {
	if c.ch == nil || c.ch.IsClosed() {
		return nil
	}
	return c.ch.Close()
}
