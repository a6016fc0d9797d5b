package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/staffing-office/shift-board/backend/internal/config"
	"github.com/staffing-office/shift-board/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	key string
	msg amqp.Publishing
}

type fakeChannel struct {
	published []published
	err       error
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _ string, key string, _ bool, _ bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.published = append(c.published, published{key: key, msg: msg})
	return nil
}

func newTestPublisher() (*Publisher, *fakeChannel) {
	cfg := &config.Config{}
	cfg.Email.NotifyTo = "office@example.com"
	cfg.RabbitMQ.Queue = "shift_change_queue"
	cfg.RabbitMQ.PublishTimeout = 5

	ch := &fakeChannel{}
	return NewPublisher(cfg, ch), ch
}

func TestPublisher_StatusChanged(t *testing.T) {
	p, ch := newTestPublisher()

	err := p.StatusChanged(domain.StatusChangeMailData{
		StaffName: "山田",
		Date:      "2025-01-10",
		Status:    domain.StatusAvailable,
		Actor:     "alice",
	})
	require.NoError(t, err)
	require.Len(t, ch.published, 1)

	got := ch.published[0]
	assert.Equal(t, "shift_change_queue", got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)

	var mail struct {
		ID   string                      `json:"id"`
		Type string                      `json:"type"`
		To   string                      `json:"to"`
		Data domain.StatusChangeMailData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(got.msg.Body, &mail))

	_, err = uuid.Parse(mail.ID)
	assert.NoError(t, err)
	assert.Equal(t, got.msg.MessageId, mail.ID)
	assert.Equal(t, domain.MailTypeStatusChange, mail.Type)
	assert.Equal(t, "office@example.com", mail.To)
	assert.Equal(t, "山田", mail.Data.StaffName)
	assert.Equal(t, domain.StatusAvailable, mail.Data.Status)
}

func TestPublisher_UniqueIDs(t *testing.T) {
	p, ch := newTestPublisher()

	require.NoError(t, p.LocationChanged(domain.LocationChangeMailData{StaffName: "山田", Location: "Venue X"}))
	require.NoError(t, p.RateChanged(domain.RateChangeMailData{StaffName: "山田", Rate: "30000"}))
	require.Len(t, ch.published, 2)

	assert.NotEqual(t, ch.published[0].msg.MessageId, ch.published[1].msg.MessageId)
}

func TestPublisher_ChannelError(t *testing.T) {
	p, ch := newTestPublisher()
	ch.err = errors.New("channel closed")

	err := p.RateChanged(domain.RateChangeMailData{})
	assert.EqualError(t, err, "channel closed")
}
