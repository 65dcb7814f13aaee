package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// ActivationSubject is the subject used for both TA activation and removal mail
const ActivationSubject = "TA Activation"

// Service sends the TA roster notifications
type Service interface {
	SendTAActivation(toEmail, toName string, courses []int) error
	SendTADeactivation(toEmail, toName string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Sender delivers a fully rendered message; smtp.SendMail satisfies it
type Sender func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type serviceImpl struct {
	config SMTPConfig
	send   Sender
	logger zerolog.Logger
}

// NewService creates a new email Service backed by net/smtp
func NewService(config SMTPConfig, logger zerolog.Logger) Service {
	return NewServiceWithSender(config, smtp.SendMail, logger)
}

// NewServiceWithSender creates a Service that hands rendered mail to send
func NewServiceWithSender(config SMTPConfig, send Sender, logger zerolog.Logger) Service {
	return &serviceImpl{
		config: config,
		send:   send,
		logger: logger,
	}
}

var activationTemplate = template.Must(template.New("activation").Parse(`<html>
<body>
	<p>Hello {{.Name}},</p>
	<p>You have been activated as a TA for the following courses:</p>
	<ul>{{range .Courses}}
		<li>COMP {{.}}</li>{{end}}
	</ul>
	<p>You can now go on duty from the help queue.</p>
</body>
</html>
`))

var removalTemplate = template.Must(template.New("removal").Parse(`<html>
<body>
	<p>Hello {{.Name}},</p>
	<p>You are no longer listed as a TA. Your TA access to the help queue has been removed.</p>
</body>
</html>
`))

type mailData struct {
	Name    string
	Courses []int
}

// SendTAActivation tells a user which courses they now assist
func (s *serviceImpl) SendTAActivation(toEmail, toName string, courses []int) error {
	return s.render(toEmail, activationTemplate, mailData{Name: toName, Courses: courses})
}

// SendTADeactivation tells a user their TA status was revoked
func (s *serviceImpl) SendTADeactivation(toEmail, toName string) error {
	return s.render(toEmail, removalTemplate, mailData{Name: toName})
}

func (s *serviceImpl) render(toEmail string, tmpl *template.Template, data mailData) error {
	// If username or password is empty, log the email (for development only)
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("template", tmpl.Name()).
			Msg("SMTP credentials not configured - email not sent.")
		return nil
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}
	return s.sendHTMLEmail(toEmail, ActivationSubject, body.String())
}

// sendHTMLEmail sends an HTML email
func (s *serviceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	var message strings.Builder
	fmt.Fprintf(&message, "From: %s\r\n", s.config.From)
	fmt.Fprintf(&message, "To: %s\r\n", toEmail)
	fmt.Fprintf(&message, "Subject: %s\r\n", subject)
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	message.WriteString("\r\n")
	message.WriteString(htmlBody)

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)
	if err := s.send(serverAddress, auth, s.config.From, []string{toEmail}, []byte(message.String())); err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
