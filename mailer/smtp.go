package mailer

import (
	"log"

	"gopkg.in/gomail.v2"
)

type SMTPMailer struct {
	server   string
	port     int
	email    string
	password string
}

func New(server string, port int, email, password string) *SMTPMailer {
	return &SMTPMailer{
		server:   server,
		port:     port,
		email:    email,
		password: password,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", m.email)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text", body)

	client := gomail.NewDialer(m.server, m.port, m.email, m.password)

	if err := client.DialAndSend(message); err != nil {
		log.Printf("failed to send mail because of: %s", err)
		return err
	}

	return nil
}
