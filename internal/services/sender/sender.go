// Package services содержит логику отправки почтовых напоминаний о платежах.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/sub-manager/internal/lib/sl"
	"github.com/magabrotheeeer/sub-manager/internal/lib/smtp"
	"github.com/magabrotheeeer/sub-manager/internal/models"
)

// SenderService потребляет сообщения очереди напоминаний и отправляет письма.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendPaymentReminder отправляет одно письмо со всеми завтрашними
// платежами получателя.
func (s *SenderService) SendPaymentReminder(body []byte) error {
	var reminder models.PaymentReminder
	if err := json.Unmarshal(body, &reminder); err != nil {
		s.log.Error("failed to unmarshal reminder", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if reminder.Email == "" || len(reminder.Items) == 0 {
		s.log.Warn("skipping empty reminder")
		return nil
	}

	to := []string{reminder.Email}
	subject := "Payment Notification"
	bodyHTML := buildReminderBody(reminder.Items)

	return s.sendEmail(to, subject, bodyHTML)
}

// buildReminderBody собирает HTML-тело письма: по строке на каждый платёж.
func buildReminderBody(items []models.ReminderItem) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	b.WriteString("<p>Hello!</p>")
	b.WriteString("<p>You have upcoming subscription payments tomorrow:</p>")
	b.WriteString("<ul>")
	for _, item := range items {
		fmt.Fprintf(&b, "<li><b>%s</b>: %.2f due on %s</li>",
			item.SubscriptionTitle, item.SubscriptionPrice,
			item.PaymentDate.Format("2006-01-02"))
	}
	b.WriteString("</ul>")
	b.WriteString("<p>Sub-manager</p>")
	b.WriteString("</body></html>")
	return b.String()
}

func (s *SenderService) sendEmail(to []string, subject, bodyHTML string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		bodyHTML,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("reminder email sent", "to", to)
	return nil
}
