package mail

import (
	"context"
	"fmt"
	"net/smtp"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer отправляет письма. Движок задач о почте не знает,
// письма уходят только через outbox-воркеры.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer шлет plain-text письма через SMTP-релей без аутентификации
type SMTPMailer struct {
	addr string
	from string
}

func NewSMTPMailer(addr, from string) *SMTPMailer {
	return &SMTPMailer{
		addr: addr,
		from: from,
	}
}

func (m *SMTPMailer) Send(_ context.Context, msg Message) error {
	data := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.from, msg.To, msg.Subject, msg.Body)
	return smtp.SendMail(m.addr, nil, m.from, []string{msg.To}, []byte(data))
}
