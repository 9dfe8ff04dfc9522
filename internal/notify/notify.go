package notify

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/messaging"

	"github.com/spring-sisters/spring-backend/internal/logger"
)

// ErrInvalidToken means the device token is gone and should be dropped.
var ErrInvalidToken = errors.New("push token no longer valid")

// Push is one notification for one device.
type Push struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

type Sender interface {
	Send(ctx context.Context, p Push) error
}

// Messenger is the part of *messaging.Client the FCM sender uses.
type Messenger interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMSender delivers pushes through Firebase Cloud Messaging.
type FCMSender struct {
	client Messenger
}

func NewFCMSender(client Messenger) *FCMSender {
	return &FCMSender{client: client}
}

func (s *FCMSender) Send(ctx context.Context, p Push) error {
	if p.Token == "" {
		return ErrInvalidToken
	}
	id, err := s.client.Send(ctx, &messaging.Message{
		Token:        p.Token,
		Notification: &messaging.Notification{Title: p.Title, Body: p.Body},
		Data:         p.Data,
	})
	if err != nil {
		if messaging.IsUnregistered(err) || messaging.IsInvalidArgument(err) {
			return fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		return fmt.Errorf("fcm send: %w", err)
	}
	logger.NewLogger(ctx).LogInfof("push_send", "delivered message_id=%s", id)
	return nil
}

// LogSender only logs. Used when Firebase is not configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, p Push) error {
	logger.NewLogger(ctx).LogInfof("push_send", "push (not delivered) title=%q body=%q", p.Title, p.Body)
	return nil
}
