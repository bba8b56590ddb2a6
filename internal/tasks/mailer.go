package tasks

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

// sendMail delivers over SMTP when configured, otherwise logs the mail
// so local development works without a mail server.
func sendMail(to, subject, body string) error {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	username := os.Getenv("SMTP_USERNAME")
	password := os.Getenv("SMTP_PASSWORD")
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = username
	}

	if host == "" || port == "" {
		log.Printf("mail (smtp unconfigured) to=%s subject=%q", to, subject)
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", from, to, subject, body)

	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return smtp.SendMail(host+":"+port, auth, from, []string{to}, []byte(msg))
}
