package email

import (
	"fmt"

	"github.com/suryastays/hotelbooking/config"
	"github.com/suryastays/hotelbooking/internal/kafka"
	"gopkg.in/gomail.v2"
)

type Sender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSender(cfg config.SMTPConfig) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send delivers the notification matching a booking event.
func (s *Sender) Send(event kafka.BookingEvent) error {
	subject, body := compose(event)
	if subject == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", event.UserEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

func compose(event kafka.BookingEvent) (subject, body string) {
	switch event.Type {
	case "booking_confirmed":
		subject = fmt.Sprintf("Booking confirmed: %s", event.BookingID)
		body = fmt.Sprintf("Your stay at %s (%s, room %s) from %s to %s is confirmed.\nTotal paid: %d.\nBooking ID: %s",
			event.HotelName, event.RoomType, event.RoomNumber,
			event.CheckIn.Format("02 Jan 2006"), event.CheckOut.Format("02 Jan 2006"),
			event.TotalAmount, event.BookingID)
	case "booking_cancelled":
		subject = fmt.Sprintf("Booking cancelled: %s", event.BookingID)
		body = fmt.Sprintf("Your booking %s at %s has been cancelled.\nYou will receive a %d%% refund (%d) within 5-7 business days.",
			event.BookingID, event.HotelName, event.RefundPercentage, event.RefundAmount)
	}
	return subject, body
}
