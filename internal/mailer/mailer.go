package mailer

import (
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/berryray-tech/Berry-Ray-main/internal/dto"
	"github.com/berryray-tech/Berry-Ray-main/internal/model"
	"github.com/berryray-tech/Berry-Ray-main/internal/rabbit"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Mailer struct {
	cfg  Config
	send sendFunc
	log  *zerolog.Logger
}

func New(cfg Config, log *zerolog.Logger) *Mailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &Mailer{cfg: cfg, send: smtp.SendMail, log: log}
}

// Enabled is false when no SMTP host is configured; sends are then skipped.
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != ""
}

func (m *Mailer) SendRegistrationEmail(n dto.RegistrationNotice) error {
	subject, body, ok := compose(n)
	if !ok {
		return fmt.Errorf("no e-mail template for event %q status %q", n.Event, n.Status)
	}
	if !m.Enabled() {
		m.log.Debug().Str("email", n.Email).Str("subject", subject).Msg("mailer disabled, e-mail not sent")
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		m.cfg.From, n.Email, subject, body,
	)

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := m.send(addr, auth, m.cfg.From, []string{n.Email}, []byte(msg)); err != nil {
		m.log.Warn().Err(err).Str("email", n.Email).Msg("failed to send e-mail")
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info().Str("email", n.Email).Str("status", n.Status).Msg("e-mail sent")
	return nil
}

func compose(n dto.RegistrationNotice) (subject, body string, ok bool) {
	switch {
	case n.Event == rabbit.RoutingRegistrationCreated:
		subject = "We received your registration"
		body = fmt.Sprintf("Hello %s,\n\nThank you for registering for %s (%s, %s).\n"+
			"We have received your proof of payment and will review it shortly.\n\nBerry Ray",
			n.FullName, n.ServiceTitle, n.PackageName, formatPrice(n.PackagePrice))
	case n.Event == rabbit.RoutingStatusChanged && n.Status == model.StatusApproved:
		subject = "Your registration is confirmed"
		body = fmt.Sprintf("Hello %s,\n\nYour payment for %s (%s) has been confirmed. Welcome aboard!\n\nBerry Ray",
			n.FullName, n.ServiceTitle, n.PackageName)
	case n.Event == rabbit.RoutingStatusChanged && n.Status == model.StatusRejected:
		subject = "We could not confirm your payment"
		body = fmt.Sprintf("Hello %s,\n\nWe could not confirm the payment for %s (%s).\n"+
			"Please reply to this e-mail or contact us so we can sort it out.\n\nBerry Ray",
			n.FullName, n.ServiceTitle, n.PackageName)
	default:
		return "", "", false
	}
	return subject, body, true
}

func formatPrice(v float64) string {
	return "₦" + strconv.FormatFloat(v, 'f', -1, 64)
}
