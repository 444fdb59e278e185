package mail

import (
	"context"
	"crypto/tls"
	"errors"

	"gopkg.in/gomail.v2"
)

// ErrHostPortRequired is returned by NewGomail when Host or Port is missing.
var ErrHostPortRequired = errors.New("mail: smtp host and port are required")

// GomailConfig configures the SMTP dialer.
type GomailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// SSL forces implicit TLS (port 465 style). Otherwise STARTTLS is used
	// when the server offers it.
	SSL bool
	// InsecureSkipVerify is for local relays like MailHog only.
	InsecureSkipVerify bool
}

// Gomail sends messages through an SMTP relay with gopkg.in/gomail.v2.
type Gomail struct {
	dialer      *gomail.Dialer
	defaultFrom string
}

func NewGomail(cfg GomailConfig) (*Gomail, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrHostPortRequired
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.SSL
	if cfg.InsecureSkipVerify {
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for local relays
	}

	return &Gomail{dialer: d, defaultFrom: cfg.From}, nil
}

// Send builds a MIME message (text with optional HTML alternative) and
// delivers it in a single dial.
func (g *Gomail) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if msg.recipients() == 0 {
		return ErrNoRecipients
	}

	from := msg.From
	if from == "" {
		from = g.defaultFrom
	}
	if from == "" {
		return ErrNoSender
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	if len(msg.To) > 0 {
		m.SetHeader("To", msg.To...)
	}
	if len(msg.Cc) > 0 {
		m.SetHeader("Cc", msg.Cc...)
	}
	if len(msg.Bcc) > 0 {
		m.SetHeader("Bcc", msg.Bcc...)
	}
	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.TextBody != "" && msg.HTMLBody != "":
		m.SetBody("text/plain", msg.TextBody)
		m.AddAlternative("text/html", msg.HTMLBody)
	case msg.HTMLBody != "":
		m.SetBody("text/html", msg.HTMLBody)
	default:
		m.SetBody("text/plain", msg.TextBody)
	}

	return g.dialer.DialAndSend(m)
}

func (g *Gomail) Close() error {
	return nil
}
