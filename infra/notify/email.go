// Package notify delivers the weekly summary to subscribers, by SMTP
// email and optionally by publishing to an MQTT topic.
package notify

import (
	"crypto/tls"
	"fmt"
	"io"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"

	"github.com/knhuang/robotaxi-safety-tracker/infra/logger"
)

// SMTPConfig holds the mail server connection parameters. Credentials
// normally arrive via SMTP_USER/SMTP_PASS environment overrides, never
// from the config file checked into the repo.
type SMTPConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	FromName string `json:"from_name"`
}

// Message is one email with plain-text and HTML alternatives.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// EmailSender sends messages over SMTP with implicit TLS, the scheme
// port 465 providers use.
type EmailSender struct {
	cfg  SMTPConfig
	log  logger.Logger
	dial func(addr string, tc *tls.Config) (smtpClient, error)
}

// smtpClient abstracts *smtp.Client so tests can swap the dialer.
type smtpClient interface {
	Auth(a smtp.Auth) error
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
}

func tlsDial(addr string, tc *tls.Config) (smtpClient, error) {
	conn, err := tls.Dial("tcp", addr, tc)
	if err != nil {
		return nil, err
	}
	host, _, _ := strings.Cut(addr, ":")
	cli, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return cli, nil
}

// NewEmailSender builds a sender. Validation happens at send time so a
// dry run works without credentials.
func NewEmailSender(cfg SMTPConfig, log logger.Logger) *EmailSender {
	return &EmailSender{cfg: cfg, log: log, dial: tlsDial}
}

// Send delivers msg to every recipient individually, continuing past
// failures. It reports the sent and failed counts and the first error.
func (s *EmailSender) Send(msg Message, recipients []string) (sent, failed int, firstErr error) {
	for _, to := range recipients {
		if err := s.sendOne(msg, to); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			s.log.Errorf("send to %s: %v", to, err)
			continue
		}
		sent++
		s.log.Infof("sent to %s", to)
	}
	return sent, failed, firstErr
}

func (s *EmailSender) sendOne(msg Message, to string) error {
	if s.cfg.User == "" || s.cfg.Password == "" {
		return fmt.Errorf("smtp user and password must be set")
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	cli, err := s.dial(addr, &tls.Config{ServerName: s.cfg.Host})
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	defer func() { _ = cli.Quit() }()

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	if err := cli.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := cli.Mail(s.cfg.User); err != nil {
		return err
	}
	if err := cli.Rcpt(to); err != nil {
		return err
	}
	w, err := cli.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(BuildMIME(msg, s.cfg, to)); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// BuildMIME renders the RFC 2045 multipart/alternative body, text part
// first so capable clients prefer the HTML part.
func BuildMIME(msg Message, cfg SMTPConfig, to string) []byte {
	var b strings.Builder
	var body strings.Builder
	mw := multipart.NewWriter(&body)

	from := cfg.User
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.User)
	}
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "List-Unsubscribe: <mailto:%s?subject=Unsubscribe>\r\n", cfg.User)
	fmt.Fprintf(&b, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mw.Boundary())

	textPart, _ := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	fmt.Fprint(textPart, msg.Text)
	htmlPart, _ := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=utf-8"},
	})
	fmt.Fprint(htmlPart, msg.HTML)
	_ = mw.Close()

	b.WriteString(body.String())
	return []byte(b.String())
}
