package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex
}

// Config holds RabbitMQ connection details and the queues to declare.
type Config struct {
	URL    string
	Queues []string
}

// NewClient connects to RabbitMQ, opens a channel and declares every
// configured queue as durable.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	for _, name := range cfg.Queues {
		if err := declare(ch, name); err != nil {
			ch.Close()
			conn.Close()
			return nil, err
		}
	}

	log.Printf("RabbitMQ client connected, queues declared: %v", cfg.Queues)

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

func declare(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", name, err)
	}
	return nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish marshals payload to JSON and sends it as a persistent message to
// queue through the default exchange.
func (c *Client) Publish(queue string, payload interface{}) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := Encode(payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		"",    // default exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message to %s: %w", queue, err)
	}
	return nil
}

// Encode is the wire format of every published message.
func Encode(payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	return body, nil
}

// Consume registers handler on queue. Messages are acked when handler
// returns nil and nacked without requeue otherwise, so a poison message
// cannot loop forever.
func (c *Client) Consume(queue string, handler func(body []byte) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	c.mu.Lock()
	if err := declare(c.channel, queue); err != nil {
		c.mu.Unlock()
		return err
	}
	msgs, err := c.channel.Consume(
		queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf(" [*] Waiting for messages on %s", queue)

	go func() {
		for msg := range msgs {
			Dispatch(msg, handler)
		}
	}()
	return nil
}

// Dispatch runs handler for one message and settles it.
func Dispatch(msg amqp.Delivery, handler func(body []byte) error) {
	if err := handler(msg.Body); err != nil {
		log.Printf("Error processing message %d: %v", msg.DeliveryTag, err)
		if nackErr := msg.Nack(false, false); nackErr != nil {
			log.Printf("Error nacking message %d: %v", msg.DeliveryTag, nackErr)
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		log.Printf("Error acking message %d: %v", msg.DeliveryTag, ackErr)
	}
}
