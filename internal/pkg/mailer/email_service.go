package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendCriticalAlert(toEmail, examTitle, description string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
	}
}

// SendCriticalAlert mails the owning exam's instructor when a critical
// severity alert fires. Best effort; the alert pipeline never waits on SMTP.
func (s *emailService) SendCriticalAlert(toEmail, examTitle, description string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Critical alert - %s", examTitle))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Critical security alert</h2>
			<p>Exam: <strong>%s</strong></p>
			<p>%s</p>
			<p>Open the surveillance dashboard to review the session.</p>
		</div>
	`, examTitle, description)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send critical alert to %s: %v\n", toEmail, err)
		return err
	}
	return nil
}
