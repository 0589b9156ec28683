package notify

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net/smtp"
	"strings"
	"testing"

	"github.com/knhuang/robotaxi-safety-tracker/infra/logger"
)

type fakeSMTP struct {
	authed bool
	from   string
	rcpts  []string
	data   bytes.Buffer
	quit   bool
	fail   string
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func (f *fakeSMTP) Auth(smtp.Auth) error { f.authed = true; return nil }
func (f *fakeSMTP) Mail(from string) error {
	f.from = from
	return nil
}
func (f *fakeSMTP) Rcpt(to string) error {
	if f.fail == to {
		return fmt.Errorf("mailbox unavailable")
	}
	f.rcpts = append(f.rcpts, to)
	return nil
}
func (f *fakeSMTP) Data() (io.WriteCloser, error) { return nopCloser{&f.data}, nil }
func (f *fakeSMTP) Quit() error                   { f.quit = true; return nil }

func testSender(cli *fakeSMTP) *EmailSender {
	s := NewEmailSender(SMTPConfig{
		Host: "smtp.example.org", Port: 465,
		User: "tracker@example.org", Password: "secret",
		FromName: "Robotaxi Safety Tracker",
	}, logger.NopLogger{})
	s.dial = func(addr string, tc *tls.Config) (smtpClient, error) {
		if addr != "smtp.example.org:465" {
			return nil, fmt.Errorf("unexpected addr %s", addr)
		}
		return cli, nil
	}
	return s
}

func TestSendPerRecipient(t *testing.T) {
	cli := &fakeSMTP{}
	s := testSender(cli)
	msg := Message{Subject: "Weekly Update", Text: "plain", HTML: "<b>rich</b>"}

	sent, failed, err := s.Send(msg, []string{"a@example.org", "b@example.org"})
	if err != nil || sent != 2 || failed != 0 {
		t.Fatalf("sent=%d failed=%d err=%v", sent, failed, err)
	}
	if !cli.authed || !cli.quit {
		t.Fatal("auth/quit not performed")
	}
	if len(cli.rcpts) != 2 || cli.rcpts[1] != "b@example.org" {
		t.Fatalf("rcpts = %v", cli.rcpts)
	}
	if cli.from != "tracker@example.org" {
		t.Fatalf("envelope from = %s", cli.from)
	}
}

func TestSendContinuesPastFailures(t *testing.T) {
	cli := &fakeSMTP{fail: "bad@example.org"}
	s := testSender(cli)

	sent, failed, err := s.Send(Message{Subject: "s"}, []string{"bad@example.org", "ok@example.org"})
	if sent != 1 || failed != 1 {
		t.Fatalf("sent=%d failed=%d", sent, failed)
	}
	if err == nil || !strings.Contains(err.Error(), "mailbox unavailable") {
		t.Fatalf("first error = %v", err)
	}
}

func TestSendRequiresCredentials(t *testing.T) {
	s := NewEmailSender(SMTPConfig{Host: "smtp.example.org", Port: 465}, logger.NopLogger{})
	sent, failed, err := s.Send(Message{}, []string{"a@example.org"})
	if sent != 0 || failed != 1 || err == nil {
		t.Fatalf("sent=%d failed=%d err=%v", sent, failed, err)
	}
}

func TestBuildMIME(t *testing.T) {
	cfg := SMTPConfig{User: "tracker@example.org", FromName: "Robotaxi Safety Tracker"}
	msg := Message{Subject: "Weekly Update", Text: "plain body", HTML: "<p>html body</p>"}
	raw := string(BuildMIME(msg, cfg, "a@example.org"))

	for _, want := range []string{
		"From: Robotaxi Safety Tracker <tracker@example.org>\r\n",
		"To: a@example.org\r\n",
		"Subject: Weekly Update\r\n",
		"List-Unsubscribe: <mailto:tracker@example.org?subject=Unsubscribe>\r\n",
		"Content-Type: multipart/alternative;",
		"text/plain; charset=utf-8",
		"text/html; charset=utf-8",
		"plain body",
		"<p>html body</p>",
	} {
		if !strings.Contains(raw, want) {
			t.Fatalf("mime missing %q:\n%s", want, raw)
		}
	}
	// Text part must precede the HTML part so clients prefer HTML.
	if strings.Index(raw, "plain body") > strings.Index(raw, "<p>html body</p>") {
		t.Fatal("text part must come before the html part")
	}
}
