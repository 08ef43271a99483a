package passwordresetsms

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/rabbitmq/schema"
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type publisher interface {
	PublishWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp091.Publishing,
	) error
}

// RabbitMQ hands password reset tokens to the SMS worker through a queue.
type RabbitMQ struct {
	log     logging.Logger
	channel publisher
	queue   string
	now     func() time.Time
}

func NewRabbitMQ(log logging.Logger, channel publisher, queue string, now func() time.Time) *RabbitMQ {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if queue == "" {
		panic("queue must not be empty")
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &RabbitMQ{log: log, channel: channel, queue: queue, now: now}
}

func (s *RabbitMQ) SendPasswordResetToken(ctx context.Context, u user.User, reset user.PasswordReset) error {
	if u.Phone == "" {
		return errors.New("user phone is not defined")
	}

	msg := schema.PasswordResetSMS{
		Phone:     string(u.Phone),
		Name:      u.Name,
		Token:     string(reset.Token),
		ExpiresAt: reset.ExpiresAt.UTC(),
	}
	body, err := msg.Marshal()
	if err != nil {
		return err
	}

	err = s.channel.PublishWithContext(ctx, "", s.queue, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Expiration:   s.expiration(reset),
		Body:         body,
	})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("queue", s.queue))
		return err
	}
	s.log.Info(
		ctx,
		"AMQP message has been successfully published.",
		logging.Entry("queue", s.queue),
		logging.Entry("userId", u.ID),
	)
	return nil
}

// expiration is the per-message TTL in milliseconds; the broker drops the
// message once the token it carries has expired.
func (s *RabbitMQ) expiration(reset user.PasswordReset) string {
	ttl := reset.ExpiresAt.Sub(s.now()).Milliseconds()
	if ttl < 1 {
		ttl = 1
	}
	return strconv.FormatInt(ttl, 10)
}
