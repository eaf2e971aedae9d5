package email

import (
	"fmt"
)

// BookingEmailData contains the data needed for booking email templates.
type BookingEmailData struct {
	PatientName string
	Email       string
	BookingID   string
	Date        string
	Time        string
	AppName     string
	BaseURL     string
}

func (d BookingEmailData) appName() string {
	if d.AppName == "" {
		return "AgendaQ"
	}
	return d.AppName
}

func (d BookingEmailData) patientName() string {
	if d.PatientName == "" {
		return "there"
	}
	return d.PatientName
}

// BuildBookingConfirmedEmail creates the confirmation message sent after a
// booking commit succeeds.
func BuildBookingConfirmedEmail(data BookingEmailData) Message {
	appName := data.appName()

	subject := fmt.Sprintf("Your appointment is confirmed - %s", appName)

	textBody := fmt.Sprintf(`Hi %s,

Your appointment has been confirmed:

Date: %s
Time: %s
Booking code: %s

You can review your appointment at %s/my-appointments

Thanks,
The %s Team`,
		data.patientName(), data.Date, data.Time, data.BookingID, data.BaseURL, appName)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #0ea5e9;">Appointment confirmed</h2>
    <p>Hi %s,</p>
    <p>Your appointment has been confirmed:</p>
    <ul>
        <li>Date: %s</li>
        <li>Time: %s</li>
        <li>Booking code: %s</li>
    </ul>
    <p style="text-align: center; margin: 30px 0;">
        <a href="%s/my-appointments" style="background-color: #0ea5e9; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">View my appointment</a>
    </p>
    <p style="color: #64748b; font-size: 14px;">The %s Team</p>
</body>
</html>`,
		data.patientName(), data.Date, data.Time, data.BookingID, data.BaseURL, appName)

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// BuildBookingCancelledEmail creates the cancellation notice.
func BuildBookingCancelledEmail(data BookingEmailData) Message {
	appName := data.appName()

	subject := fmt.Sprintf("Your appointment was cancelled - %s", appName)

	textBody := fmt.Sprintf(`Hi %s,

Your appointment has been cancelled:

Date: %s
Time: %s
Booking code: %s

You can book a new appointment at %s/booking

Thanks,
The %s Team`,
		data.patientName(), data.Date, data.Time, data.BookingID, data.BaseURL, appName)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #ef4444;">Appointment cancelled</h2>
    <p>Hi %s,</p>
    <p>Your appointment has been cancelled:</p>
    <ul>
        <li>Date: %s</li>
        <li>Time: %s</li>
        <li>Booking code: %s</li>
    </ul>
    <p style="text-align: center; margin: 30px 0;">
        <a href="%s/booking" style="background-color: #0ea5e9; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Book a new appointment</a>
    </p>
    <p style="color: #64748b; font-size: 14px;">The %s Team</p>
</body>
</html>`,
		data.patientName(), data.Date, data.Time, data.BookingID, data.BaseURL, appName)

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// BuildBookingRescheduledEmail creates the reschedule notice with the new
// appointment timing.
func BuildBookingRescheduledEmail(data BookingEmailData) Message {
	appName := data.appName()

	subject := fmt.Sprintf("Your appointment was rescheduled - %s", appName)

	textBody := fmt.Sprintf(`Hi %s,

Your appointment has been moved to a new time:

Date: %s
Time: %s
Booking code: %s

You can review your appointment at %s/my-appointments

Thanks,
The %s Team`,
		data.patientName(), data.Date, data.Time, data.BookingID, data.BaseURL, appName)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #f59e0b;">Appointment rescheduled</h2>
    <p>Hi %s,</p>
    <p>Your appointment has been moved to a new time:</p>
    <ul>
        <li>Date: %s</li>
        <li>Time: %s</li>
        <li>Booking code: %s</li>
    </ul>
    <p style="text-align: center; margin: 30px 0;">
        <a href="%s/my-appointments" style="background-color: #0ea5e9; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">View my appointment</a>
    </p>
    <p style="color: #64748b; font-size: 14px;">The %s Team</p>
</body>
</html>`,
		data.patientName(), data.Date, data.Time, data.BookingID, data.BaseURL, appName)

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}
