package notifier

import (
	"context"

	"github.com/sampark/sampark/internal/config"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

type SendGridNotifier struct {
	client   *sendgrid.Client
	fromName string
	fromAddr string
	enabled  bool
	logger   *logrus.Logger
}

func NewSendGridNotifier(cfg *config.EmailConfig, logger *logrus.Logger) *SendGridNotifier {
	n := &SendGridNotifier{
		fromName: cfg.FromName,
		fromAddr: cfg.FromEmail,
		enabled:  cfg.Enabled,
		logger:   logger,
	}

	if cfg.SendGridAPIKey == "" {
		logger.Warn("Email credentials not configured, email delivery disabled")
		return n
	}

	n.client = sendgrid.NewSendClient(cfg.SendGridAPIKey)
	logger.Info("Email service initialized")
	return n
}

func (n *SendGridNotifier) Send(ctx context.Context, recipient, subject, body string) bool {
	if !n.enabled {
		n.logger.WithField("recipient", recipient).Debug("Email disabled in config, skipping delivery")
		return false
	}

	if n.client == nil {
		n.logger.WithField("recipient", recipient).Warn("Email service not initialized, skipping delivery")
		return false
	}

	from := mail.NewEmail(n.fromName, n.fromAddr)
	to := mail.NewEmail("", recipient)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	resp, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		n.logger.WithError(err).WithField("recipient", recipient).Error("Failed to send email")
		return false
	}

	if resp.StatusCode >= 400 {
		n.logger.WithFields(logrus.Fields{
			"recipient": recipient,
			"status":    resp.StatusCode,
		}).Error("Email delivery rejected")
		return false
	}

	n.logger.WithField("recipient", recipient).Info("Email sent")
	return true
}
