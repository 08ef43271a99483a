package rabbitmq

import (
	"accounts/internal/core/domain/logging"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const reconnectDelay = 3 * time.Second

// Connection is an amqp.Connection that redials the broker when it is lost.
type Connection struct {
	url    string
	log    logging.Logger
	lock   sync.RWMutex
	conn   *amqp.Connection
	closed int32
}

func Dial(url string, log logging.Logger) (*Connection, error) {
	if log == nil {
		return nil, fmt.Errorf("log argument must not be nil")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	connection := &Connection{url: url, log: log, conn: conn}
	go connection.watch(conn)
	return connection, nil
}

func (c *Connection) watch(conn *amqp.Connection) {
	ctx := context.Background()
	for {
		reason, ok := <-conn.NotifyClose(make(chan *amqp.Error, 1))
		if !ok || c.isClosed() {
			c.log.Info(ctx, "RabbitMQ connection closed.")
			return
		}

		c.log.Warning(ctx, "RabbitMQ connection lost.", logging.Entry("reason", reason.Error()))
		for !c.isClosed() {
			time.Sleep(reconnectDelay)

			next, err := amqp.Dial(c.url)
			if err != nil {
				c.log.Error(ctx, "RabbitMQ reconnect failed.", logging.Entry("err", err))
				continue
			}
			c.lock.Lock()
			c.conn = next
			c.lock.Unlock()
			conn = next
			c.log.Info(ctx, "RabbitMQ reconnect success.")
			break
		}
	}
}

func (c *Connection) isClosed() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

func (c *Connection) current() *amqp.Connection {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.conn
}

func (c *Connection) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return amqp.ErrClosed
	}
	return c.current().Close()
}

// Channel returns a channel that is reopened whenever the broker closes it.
func (c *Connection) Channel() (*Channel, error) {
	ch, err := c.current().Channel()
	if err != nil {
		return nil, err
	}

	channel := &Channel{ch: ch, log: c.log}
	go channel.watch(c, ch)
	return channel, nil
}

type Channel struct {
	lock   sync.RWMutex
	ch     *amqp.Channel
	closed int32
	log    logging.Logger
}

func (ch *Channel) watch(c *Connection, current *amqp.Channel) {
	ctx := context.Background()
	for {
		reason, ok := <-current.NotifyClose(make(chan *amqp.Error, 1))
		if ch.IsClosed() || c.isClosed() {
			return
		}
		if ok {
			ch.log.Warning(ctx, "RabbitMQ channel closed.", logging.Entry("reason", reason.Error()))
		}

		for !ch.IsClosed() && !c.isClosed() {
			time.Sleep(reconnectDelay)

			next, err := c.current().Channel()
			if err != nil {
				ch.log.Error(ctx, "Channel recreate failed.", logging.Entry("err", err))
				continue
			}
			ch.lock.Lock()
			ch.ch = next
			ch.lock.Unlock()
			current = next
			ch.log.Info(ctx, "Channel recreate success.")
			break
		}
	}
}

func (ch *Channel) current() *amqp.Channel {
	ch.lock.RLock()
	defer ch.lock.RUnlock()
	return ch.ch
}

// IsClosed reports whether Close has been called.
func (ch *Channel) IsClosed() bool {
	return atomic.LoadInt32(&ch.closed) == 1
}

func (ch *Channel) Close() error {
	if !atomic.CompareAndSwapInt32(&ch.closed, 0, 1) {
		return amqp.ErrClosed
	}
	return ch.current().Close()
}

// DeclareQueue declares a durable queue bound to the default exchange.
func (ch *Channel) DeclareQueue(name string) error {
	_, err := ch.current().QueueDeclare(name, true, false, false, false, nil)
	return err
}

func (ch *Channel) PublishWithContext(
	ctx context.Context,
	exchange, key string,
	mandatory, immediate bool,
	msg amqp.Publishing,
) error {
	return ch.current().PublishWithContext(ctx, exchange, key, mandatory, immediate, msg)
}
