package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// EmailNotifier implements Notifier over SMTP using go-mail.
type EmailNotifier struct {
	client *mail.Client
	from   string
	to     []string
}

// NewEmailNotifier creates an EmailNotifier. Port 465 uses implicit TLS,
// anything else negotiates STARTTLS.
func NewEmailNotifier(host string, port int, username, password, from string, to []string) (*EmailNotifier, error) {
	if host == "" {
		return nil, fmt.Errorf("email notifier: host is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email notifier: from address is required")
	}
	if len(to) == 0 {
		return nil, fmt.Errorf("email notifier: at least one recipient is required")
	}

	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(username),
		mail.WithPassword(password),
	}
	if port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}

	return &EmailNotifier{client: client, from: from, to: to}, nil
}

// SendAlert delivers one alert as a plain-text email.
func (n *EmailNotifier) SendAlert(ctx context.Context, alert *AlertPayload) error {
	msg, err := n.buildMessage(alert)
	if err != nil {
		return err
	}

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending alert email: %w", err)
	}
	return nil
}

func (n *EmailNotifier) buildMessage(alert *AlertPayload) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return nil, fmt.Errorf("setting from address: %w", err)
	}
	if err := msg.To(n.to...); err != nil {
		return nil, fmt.Errorf("setting recipients: %w", err)
	}

	msg.Subject(alert.Subject)
	msg.SetBodyString(mail.TypeTextPlain, alert.Body)

	return msg, nil
}
