// Package mailer delivers booking emails over plain SMTP.
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"
	"github.com/schedly/schedly-backend/internal/booking"
	"github.com/schedly/schedly-backend/internal/calendar"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // RFC 5322 address, e.g. `"Schedly" <noreply@schedly.app>`
}

// Mailer implements booking.Notifier. Every admitted booking produces two
// messages: a notification to the calendar owner and a confirmation to the
// booker.
type Mailer struct {
	addr string
	auth smtp.Auth
	from string
	log  *logrus.Logger
}

func New(cfg Config, log *logrus.Logger) *Mailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &Mailer{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth: auth,
		from: cfg.From,
		log:  log,
	}
}

func (m *Mailer) BookingCreated(n booking.Notification) error {
	data := newEmailData(n)

	if err := m.send(n.OwnerEmail, fmt.Sprintf("New Booking: %s", n.CalendarName), ownerTmpl, data); err != nil {
		return fmt.Errorf("owner notification: %w", err)
	}
	if err := m.send(n.Booking.Email, fmt.Sprintf("Booking Confirmation: %s", n.CalendarName), bookerTmpl, data); err != nil {
		return fmt.Errorf("booker confirmation: %w", err)
	}
	return nil
}

func (m *Mailer) send(to, subject string, tmpl *template.Template, data emailData) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return err
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		m.from, to, subject, body.String()))

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	m.log.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("email sent")
	return nil
}

type emailData struct {
	OwnerName    string
	BookerName   string
	BookerEmail  string
	CalendarName string
	Date         string
	Time         string
	Notes        string
}

func newEmailData(n booking.Notification) emailData {
	b := n.Booking

	return emailData{
		OwnerName:    n.OwnerName,
		BookerName:   b.Name,
		BookerEmail:  b.Email,
		CalendarName: n.CalendarName,
		Date:         b.Date.Format("Monday, January 2, 2006"),
		Time:         fmt.Sprintf("%s - %s", calendar.FormatHour(b.StartHour), calendar.FormatHour(b.EndHour)),
		Notes:        b.Notes,
	}
}

var ownerTmpl = template.Must(template.New("owner").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #4f46e5;">New Booking Notification</h2>
  <p>Hello {{.OwnerName}},</p>
  <p>You have a new booking for your calendar "{{.CalendarName}}":</p>
  <div style="background-color: #f3f4f6; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <p><strong>Date:</strong> {{.Date}}</p>
    <p><strong>Time:</strong> {{.Time}}</p>
    <p><strong>Booked by:</strong> {{.BookerName}}</p>
    <p><strong>Email:</strong> {{.BookerEmail}}</p>
    {{if .Notes}}<p><strong>Notes:</strong> {{.Notes}}</p>{{end}}
  </div>
  <p>You can manage this booking from your dashboard.</p>
  <p>Thank you for using Schedly!</p>
</div>`))

var bookerTmpl = template.Must(template.New("booker").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #4f46e5;">Booking Confirmation</h2>
  <p>Hello {{.BookerName}},</p>
  <p>Your booking has been confirmed:</p>
  <div style="background-color: #f3f4f6; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <p><strong>Calendar:</strong> {{.CalendarName}}</p>
    <p><strong>Date:</strong> {{.Date}}</p>
    <p><strong>Time:</strong> {{.Time}}</p>
    {{if .Notes}}<p><strong>Your Notes:</strong> {{.Notes}}</p>{{end}}
  </div>
  <p>If you need to cancel or reschedule, please contact the calendar owner.</p>
  <p>Thank you for using Schedly!</p>
</div>`))
