package notify

import (
	"context"
	"fmt"

	"github.com/yungbote/reviewloop-backend/internal/platform/logger"
	"github.com/yungbote/reviewloop-backend/internal/platform/sendgrid"
)

type Sender interface {
	Send(ctx context.Context, n Notification) error
}

type EmailSender struct {
	client sendgrid.Client
	log    *logger.Logger
}

func NewEmailSender(client sendgrid.Client, log *logger.Logger) *EmailSender {
	return &EmailSender{client: client, log: log.With("service", "EmailSender")}
}

func (s *EmailSender) Send(ctx context.Context, n Notification) error {
	if n.To == "" {
		return fmt.Errorf("notification %s has no recipient", n.ID)
	}
	res, err := s.client.Send(ctx, sendgrid.SendEmailRequest{
		To:         []sendgrid.EmailAddress{{Email: n.To}},
		Subject:    n.Subject,
		Text:       n.Text,
		Categories: []string{string(n.Kind)},
		CustomArgs: map[string]string{
			"notification_id": n.ID.String(),
			"practice_id":     n.PracticeID.String(),
		},
	})
	if err != nil {
		return err
	}
	s.log.Debug("Notification email accepted", "kind", n.Kind, "message_id", res.MessageID)
	return nil
}

// LogSender stands in for email delivery when no provider is configured.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log.With("service", "LogSender")}
}

func (s *LogSender) Send(_ context.Context, n Notification) error {
	s.log.Info("Notification (no email provider configured)",
		"kind", n.Kind,
		"practice_id", n.PracticeID,
		"subject", n.Subject,
	)
	return nil
}
