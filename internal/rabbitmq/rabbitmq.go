package rabbitmq

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type MQConn struct {
	conn      *amqp.Connection
	publishCh *amqp.Channel
	consumeCh *amqp.Channel
	mu        sync.Mutex
}

func New(url string) (*MQConn, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	publishCh, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	consumeCh, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	for _, queue := range declaredQueues {
		if _, err := publishCh.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			conn.Close()
			return nil, err
		}
	}

	return &MQConn{
		conn:      conn,
		publishCh: publishCh,
		consumeCh: consumeCh,
	}, nil
}

// Publish sends msg as a persistent JSON message to queue through the
// default exchange.
func (c *MQConn) Publish(ctx context.Context, queue string, msg interface{}) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.publishCh.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

func (c *MQConn) Consume(queue string) (<-chan amqp.Delivery, error) {
	return c.consumeCh.Consume(queue, "", false, false, false, false, nil)
}

func (c *MQConn) Close() error {
	return c.conn.Close()
}
