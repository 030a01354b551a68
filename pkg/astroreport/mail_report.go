package astroreport

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

var ErrMailNotConfigured = errors.New("mail delivery is not configured")

// =========== MAIL MODELS ========
type MailConfig struct {
	Host     string `env:"MAIL_HOST," yaml:"host"`
	Port     int    `env:"MAIL_PORT,587" yaml:"port"`
	Username string `env:"MAIL_USERNAME," yaml:"username"`
	Password string `env:"MAIL_PASSWORD," yaml:"password"`
	From     string `env:"MAIL_FROM," yaml:"from"`
	To       string `env:"MAIL_TO," yaml:"to"` // comma separated
	Subject  string `env:"MAIL_SUBJECT,tank bounding rectangle" yaml:"subject"`
}

func (c MailConfig) Enabled() bool {
	return c.Host != ""
}

func (c MailConfig) recipients() []string {
	var out []string
	for _, addr := range strings.Split(c.To, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// Mailer sends rendered reports over SMTP.
type Mailer struct {
	cfg  MailConfig
	dial func() (gomail.SendCloser, error)
}

func NewMailer(cfg MailConfig) *Mailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &Mailer{cfg: cfg, dial: d.Dial}
}

// NewMailerWithDialer is NewMailer with a custom connection factory.
func NewMailerWithDialer(cfg MailConfig, dial func() (gomail.SendCloser, error)) *Mailer {
	return &Mailer{cfg: cfg, dial: dial}
}

// Message builds the mail carrying body as plain text.
func (m *Mailer) Message(body string) (*gomail.Message, error) {
	to := m.cfg.recipients()
	if m.cfg.From == "" || len(to) == 0 {
		return nil, fmt.Errorf("mail: sender and at least one recipient are required: %w", ErrMailNotConfigured)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", m.cfg.Subject)
	msg.SetBody("text/plain", body)
	return msg, nil
}

// Send delivers body to the configured recipients.
func (m *Mailer) Send(ctx context.Context, body string) error {
	if !m.cfg.Enabled() {
		return ErrMailNotConfigured
	}

	msg, err := m.Message(body)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	sc, err := m.dial()
	if err != nil {
		return fmt.Errorf("mail: dial %s:%d: %w", m.cfg.Host, m.cfg.Port, err)
	}
	defer sc.Close()

	if err := gomail.Send(sc, msg); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}

	log.Info().
		Str("host", m.cfg.Host).
		Strs("to", m.cfg.recipients()).
		Msg("Report mailed")
	return nil
}
