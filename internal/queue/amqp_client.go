package queue

import (
	"context"
	"fmt"
	"strings"

	"github.com/streadway/amqp"
)

// AMQPClient sends parse tasks through a RabbitMQ work queue. The queue
// is declared durable on connect so producer and consumer can start in
// any order.
type AMQPClient struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// NewAMQPClient dials the broker and declares the work queue.
func NewAMQPClient(url, queueName string) (*AMQPClient, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("amqp url is required")
	}
	if strings.TrimSpace(queueName) == "" {
		return nil, fmt.Errorf("amqp queue name is required")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("amqp queue declare: %w", err)
	}

	return &AMQPClient{conn: conn, ch: ch, queue: queueName}, nil
}

// Send publishes a message to the work queue.
func (c *AMQPClient) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode amqp message: %w", err)
	}
	err = c.ch.Publish("", c.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

// Consume opens a delivery stream from the work queue with a prefetch
// of one. Deliveries must be acked or nacked by the caller.
func (c *AMQPClient) Consume() (<-chan amqp.Delivery, error) {
	if err := c.ch.Qos(1, 0, false); err != nil {
		return nil, fmt.Errorf("amqp qos: %w", err)
	}
	deliveries, err := c.ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("amqp consume: %w", err)
	}
	return deliveries, nil
}

// Close tears down the channel and connection.
func (c *AMQPClient) Close() error {
	if err := c.ch.Close(); err != nil {
		c.conn.Close()
		return err
	}
	return c.conn.Close()
}

var _ Client = (*AMQPClient)(nil)
