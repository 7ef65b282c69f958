package email

import (
	"bytes"
	"citygate/internal/config"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"net/url"
	"sync"
)

// Sender delivers the account emails. Callers treat delivery as best effort.
type Sender interface {
	SendVerificationEmail(to, name, code string) error
	SendPasswordResetEmail(to, name, code string) error
}

// NewSender returns an SMTP sender when SMTP is configured and a NoopSender
// otherwise.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.Enabled() {
		log.Printf("SMTP not configured, account emails will only be logged")
		return NoopSender{}
	}
	return NewService(cfg)
}

// NoopSender logs instead of sending
type NoopSender struct{}

func (NoopSender) SendVerificationEmail(to, name, code string) error {
	log.Printf("Skipping verification email to %s", to)
	return nil
}

func (NoopSender) SendPasswordResetEmail(to, name, code string) error {
	log.Printf("Skipping password reset email to %s", to)
	return nil
}

var (
	verificationTemplate = template.Must(template.New("verification").Parse(`
		<h2>Hello {{.Name}},</h2>
		<p>Please verify your email address by clicking the link below:</p>
		<p><a href="{{.URL}}">Verify Email Address</a></p>
		<p>If you did not create an account, no further action is required.</p>
	`))

	resetTemplate = template.Must(template.New("reset").Parse(`
		<h2>Hello {{.Name}},</h2>
		<p>You have requested to reset your password. Use the code below to choose a new one:</p>
		<p><code>{{.Code}}</code></p>
		<p>The code can be used once. If you did not request a password reset, please ignore this email.</p>
	`))
)

// Service sends mail through an SMTP server, reusing one connection
type Service struct {
	config config.EmailConfig
	client *smtp.Client
	mu     sync.Mutex
}

func NewService(cfg config.EmailConfig) *Service {
	return &Service{config: cfg}
}

// dialSMTP establishes an SMTP connection
func (s *Service) dialSMTP() (*smtp.Client, error) {
	// Reuse existing connection if it's still alive
	if s.client != nil {
		if err := s.client.Noop(); err == nil {
			return s.client, nil
		}
		s.client.Close()
		s.client = nil
	}

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	client, err := smtp.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial SMTP server: %w", err)
	}

	if s.config.SMTPUsername != "" {
		if err := client.Auth(smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to authenticate with SMTP server: %w", err)
		}
	}

	s.client = client
	return client, nil
}

// sendMail writes one message over the shared connection
func (s *Service) sendMail(to string, msg []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := s.dialSMTP()
	if err != nil {
		return err
	}

	if err := client.Mail(s.config.FromAddress); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to add recipient %s: %w", to, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to create message writer: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close message writer: %w", err)
	}
	return nil
}

// Close closes the SMTP connection
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		err := s.client.Quit()
		s.client = nil
		return err
	}
	return nil
}

func (s *Service) SendVerificationEmail(to, name, code string) error {
	verifyURL := fmt.Sprintf("%s/api/v1/auth/verify?id=%s", s.config.AppURL, url.QueryEscape(code))

	msg, err := s.compose(to, "Verify Your Email Address", verificationTemplate, map[string]string{
		"Name": name,
		"URL":  verifyURL,
	})
	if err != nil {
		return err
	}

	log.Printf("Sending verification email to %s via SMTP server %s:%d", to, s.config.SMTPHost, s.config.SMTPPort)
	if err := s.sendMail(to, msg); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (s *Service) SendPasswordResetEmail(to, name, code string) error {
	msg, err := s.compose(to, "Reset Your Password", resetTemplate, map[string]string{
		"Name": name,
		"Code": code,
	})
	if err != nil {
		return err
	}

	log.Printf("Sending password reset email to %s via SMTP server %s:%d", to, s.config.SMTPHost, s.config.SMTPPort)
	if err := s.sendMail(to, msg); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

// compose renders tmpl into an HTML message with headers
func (s *Service) compose(to, subject string, tmpl *template.Template, data map[string]string) ([]byte, error) {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to execute email template: %w", err)
	}

	msg := fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s", to, s.config.FromAddress, subject, body.String())
	return []byte(msg), nil
}
