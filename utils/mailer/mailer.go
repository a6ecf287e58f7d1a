package mailer

import (
	"fmt"
	"html"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

type Mailer interface {
	SendReminder(to string, reminder Reminder) error
}

// Reminder is the content of a note reminder email.
type Reminder struct {
	Username   string
	NoteTitle  string
	NoteBody   string
	ReminderAt time.Time
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *SMTPMailer) SendReminder(to string, reminder Reminder) error {
	if err := m.dialer.DialAndSend(m.reminderMessage(to, reminder)); err != nil {
		return fmt.Errorf("failed to send reminder to %s: %w", to, err)
	}
	return nil
}

func (m *SMTPMailer) reminderMessage(to string, reminder Reminder) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Reminder: "+reminder.NoteTitle)
	msg.SetBody("text/html", reminderBody(reminder))
	return msg
}

func reminderBody(reminder Reminder) string {
	preview := reminder.NoteBody
	if len([]rune(preview)) > 280 {
		preview = string([]rune(preview)[:280]) + "..."
	}

	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
	<p>Hi %s,</p>
	<p>You asked to be reminded about <strong>%s</strong> at %s.</p>
	<blockquote>%s</blockquote>
</div>`,
		html.EscapeString(reminder.Username),
		html.EscapeString(reminder.NoteTitle),
		reminder.ReminderAt.UTC().Format("2006-01-02 15:04 MST"),
		strings.ReplaceAll(html.EscapeString(preview), "\n", "<br>"),
	)
}
