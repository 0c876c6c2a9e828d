package mailer

import (
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var ErrIncompleteConfig = errors.New("SMTP configuration is incomplete")

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	SenderEmail string
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends seller notifications over SMTP.
type Mailer struct {
	dialer dialer
	from   string
	log    *logger.Logger
}

func New(cfg SMTPConfig, log *logger.Logger) (*Mailer, error) {
	if cfg.Host == "" || cfg.Port <= 0 || cfg.SenderEmail == "" {
		return nil, ErrIncompleteConfig
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.SenderEmail,
		log:    log.Named("Mailer"),
	}, nil
}

func (m *Mailer) SendListingModeratedEmail(to, name, title string, status domain.ListingStatus) error {
	msg, err := buildModerationMessage(m.from, to, name, title, status)
	if err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Error("Failed to send moderation email",
			zap.String("to", to),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return fmt.Errorf("send moderation email: %w", err)
	}
	m.log.Info("Moderation email sent", zap.String("to", to), zap.String("status", string(status)))
	return nil
}

func buildModerationMessage(from, to, name, title string, status domain.ListingStatus) (*gomail.Message, error) {
	if to == "" {
		return nil, fmt.Errorf("%w: recipient is required", domain.ErrInvalidInput)
	}
	if name == "" {
		name = "there"
	}

	var subject, body string
	switch status {
	case domain.StatusApproved:
		subject = "Your listing has been approved"
		body = fmt.Sprintf("Hello %s,\n\nYour listing %q has been approved.\nIt is now visible to buyers.\n", name, title)
	case domain.StatusRejected:
		subject = "Your listing has been rejected"
		body = fmt.Sprintf("Hello %s,\n\nYour listing %q was rejected.\nIt did not pass moderation and will not be published.\n", name, title)
	default:
		return nil, fmt.Errorf("%w: no notification for status %q", domain.ErrInvalidInput, status)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg, nil
}
