package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/staffing-office/shift-board/backend/internal/config"
	"github.com/staffing-office/shift-board/backend/internal/domain"
)

// Channel 是 *amqp.Channel 中发布消息所需的部分
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher 把排班变更转换成邮件消息放入队列，由 mail 服务发送给办公室
type Publisher struct {
	cfg     *config.Config
	channel Channel
}

func NewPublisher(cfg *config.Config, ch Channel) *Publisher {
	return &Publisher{
		cfg:     cfg,
		channel: ch,
	}
}

func (p *Publisher) StatusChanged(data domain.StatusChangeMailData) error {
	return p.publish(domain.MailTypeStatusChange, data)
}

func (p *Publisher) LocationChanged(data domain.LocationChangeMailData) error {
	return p.publish(domain.MailTypeLocationChange, data)
}

func (p *Publisher) RateChanged(data domain.RateChangeMailData) error {
	return p.publish(domain.MailTypeRateChange, data)
}

func (p *Publisher) publish(mailType string, data any) error {
	mail := domain.MailMessage{
		ID:   uuid.NewString(),
		Type: mailType,
		To:   p.cfg.Email.NotifyTo,
		Data: data,
	}

	body, err := json.Marshal(mail)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(p.cfg.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return p.channel.PublishWithContext(
		ctx,
		"",
		p.cfg.RabbitMQ.Queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    mail.ID,
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
