package email

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type capturedMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func capture(out *[]capturedMail, fail error) Sender {
	return func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		*out = append(*out, capturedMail{addr: addr, from: from, to: to, msg: string(msg)})
		return fail
	}
}

func testConfig() SMTPConfig {
	return SMTPConfig{
		Host:     "smtp.example.edu",
		Port:     587,
		Username: "helper",
		Password: "secret",
		From:     "helper@example.edu",
	}
}

func TestSendTAActivation(t *testing.T) {
	var sent []capturedMail
	svc := NewServiceWithSender(testConfig(), capture(&sent, nil), zerolog.Nop())

	if err := svc.SendTAActivation("ta@example.edu", "Jane D", []int{15, 40}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(sent) != 1 {
		t.Fatalf("Expected 1 mail, got %d", len(sent))
	}

	mail := sent[0]
	if mail.addr != "smtp.example.edu:587" {
		t.Errorf("Expected smtp.example.edu:587, got %s", mail.addr)
	}
	if len(mail.to) != 1 || mail.to[0] != "ta@example.edu" {
		t.Errorf("Expected recipient ta@example.edu, got %v", mail.to)
	}
	if !strings.Contains(mail.msg, "Subject: TA Activation\r\n") {
		t.Errorf("Expected TA Activation subject, got %q", mail.msg)
	}
	for _, want := range []string{"Jane D", "COMP 15", "COMP 40"} {
		if !strings.Contains(mail.msg, want) {
			t.Errorf("Expected body to contain %q", want)
		}
	}
}

func TestSendTADeactivationEscapesName(t *testing.T) {
	var sent []capturedMail
	svc := NewServiceWithSender(testConfig(), capture(&sent, nil), zerolog.Nop())

	if err := svc.SendTADeactivation("ta@example.edu", "<b>Eve</b>"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if strings.Contains(sent[0].msg, "<b>Eve</b>") {
		t.Errorf("Expected name to be escaped, got %q", sent[0].msg)
	}
	if !strings.Contains(sent[0].msg, "no longer listed as a TA") {
		t.Errorf("Expected removal body, got %q", sent[0].msg)
	}
}

func TestSendWithoutCredentialsIsSkipped(t *testing.T) {
	var sent []capturedMail
	cfg := testConfig()
	cfg.Password = ""
	svc := NewServiceWithSender(cfg, capture(&sent, nil), zerolog.Nop())

	if err := svc.SendTAActivation("ta@example.edu", "Jane D", []int{15}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(sent) != 0 {
		t.Errorf("Expected no mail without credentials, got %d", len(sent))
	}
}

func TestSendFailureIsReturned(t *testing.T) {
	var sent []capturedMail
	boom := errors.New("connection refused")
	svc := NewServiceWithSender(testConfig(), capture(&sent, boom), zerolog.Nop())

	err := svc.SendTADeactivation("ta@example.edu", "Jane D")
	if !errors.Is(err, boom) {
		t.Errorf("Expected wrapped send error, got %v", err)
	}
}
