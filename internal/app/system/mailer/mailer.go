package mailer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Email is one outgoing message. HTMLBody may be empty.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers an Email. Handlers depend on this so tests can capture
// messages instead of sending them.
type Sender interface {
	Send(e Email) error
}

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
}

// ErrNoRecipient is returned when Email.To is empty.
var ErrNoRecipient = errors.New("mailer: no recipient")

// Mailer sends mail through an SMTP relay. With no host configured it logs
// the message instead of sending it, which keeps local development usable.
type Mailer struct {
	cfg     Config
	log     *zap.Logger
	deliver func(*gomail.Msg) error
	now     func() time.Time
}

// New creates a Mailer. Port defaults to 587.
func New(cfg Config, logger *zap.Logger) *Mailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	m := &Mailer{cfg: cfg, log: logger, now: time.Now}
	m.deliver = m.dialAndSend
	return m
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool { return m.cfg.Host != "" }

// Send delivers e.
func (m *Mailer) Send(e Email) error {
	if strings.TrimSpace(e.To) == "" {
		return ErrNoRecipient
	}
	if !m.Enabled() {
		m.log.Warn("SMTP not configured; email not sent",
			zap.String("to", e.To),
			zap.String("subject", e.Subject),
			zap.String("body", e.TextBody))
		return nil
	}

	msg, err := m.message(e)
	if err != nil {
		return err
	}
	if err := m.deliver(msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", e.To, err)
	}
	m.log.Info("email sent", zap.String("to", e.To), zap.String("subject", e.Subject))
	return nil
}

// message builds e as a quoted-printable message, multipart/alternative
// when an HTML body is present.
func (m *Mailer) message(e Email) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.From); err != nil {
		return nil, fmt.Errorf("bad sender %q: %w", m.cfg.From, err)
	}
	if err := msg.To(e.To); err != nil {
		return nil, fmt.Errorf("bad recipient %q: %w", e.To, err)
	}
	msg.Subject(e.Subject)
	msg.SetDateWithValue(m.now())
	msg.SetGenHeader(gomail.HeaderMessageID, fmt.Sprintf("<%s@%s>", uuid.NewString(), domainOf(m.cfg.From)))
	msg.SetBodyString(gomail.TypeTextPlain, e.TextBody)
	if e.HTMLBody != "" {
		msg.AddAlternativeString(gomail.TypeTextHTML, e.HTMLBody)
	}
	return msg, nil
}

// client opens STARTTLS when the relay offers it and authenticates with
// PLAIN when a user is configured.
func (m *Mailer) client() (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(m.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
	}
	if m.cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.User),
			gomail.WithPassword(m.cfg.Pass),
		)
	}
	return gomail.NewClient(m.cfg.Host, opts...)
}

func (m *Mailer) dialAndSend(msg *gomail.Msg) error {
	c, err := m.client()
	if err != nil {
		return err
	}
	return c.DialAndSend(msg)
}

func domainOf(addr string) string {
	if i := strings.LastIndex(addr, "@"); i >= 0 && i < len(addr)-1 {
		return addr[i+1:]
	}
	return "localhost"
}
