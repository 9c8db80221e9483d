package service

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"

	"eldercare/internal/entities"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type SenderService struct {
}

func NewSenderService() *SenderService {
	return &SenderService{}
}

// SendBookingEmail notifies the family user of a booking's status by
// email. Delivery runs in the background; failures are logged only.
func (s *SenderService) SendBookingEmail(toEmail string, data entities.BookingEmailData) {
	if toEmail == "" {
		return
	}

	subject := fmt.Sprintf("Your care booking #%d is %s", data.BookingID, data.Status)
	plainTextBody := fmt.Sprintf(
		"Hello %s,\n\nYour booking is %s.\n\n"+
			"Booking Details:\n"+
			"Booking ID: %d\n"+
			"Service: %s\n"+
			"Provider: %s\n"+
			"Care Recipient: %s\n"+
			"Scheduled: %s\n"+
			"Duration: %d minutes\n\n"+
			"Thank you for choosing ElderCare.",
		data.UserName, data.Status, data.BookingID, data.ServiceName,
		data.ProviderName, data.ElderName, data.ScheduledFormatted, data.DurationMinutes,
	)

	var htmlBody string
	tmplPath := filepath.Join("internal", "templates", "booking_email.html")
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		log.Printf("ALERT: could not parse booking email template (%s): %v", tmplPath, err)
	} else {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			log.Printf("ALERT: could not render booking email for booking %d: %v", data.BookingID, err)
		}
		htmlBody = buf.String()
	}

	go func(toEmail, userName, subject, plainBody, htmlBodyContent string) {
		if err := SendEmailWithSendGrid(toEmail, userName, subject, plainBody, htmlBodyContent); err != nil {
			log.Printf("ALERT (async): email delivery failed for booking %d: %v", data.BookingID, err)
		}
	}(toEmail, data.UserName, subject, plainTextBody, htmlBody)
}

// SendBookingSMS notifies the family user of a booking's status by
// SMS. Failures are logged only.
func (s *SenderService) SendBookingSMS(toPhone string, data entities.BookingEmailData) {
	if toPhone == "" {
		return
	}

	message := fmt.Sprintf("ElderCare: Booking #%d with %s is %s.\nScheduled: %s.\nMore details in your email.",
		data.BookingID, data.ProviderName, data.Status, data.ScheduledFormatted)

	if err := SendSMS(toPhone, message); err != nil {
		log.Printf("ALERT: booking %d updated, but the SMS to %s failed: %v", data.BookingID, toPhone, err)
	}
}

func SendEmailWithSendGrid(toEmailAddress, toName, subject, plainTextContent, htmlContent string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY not set")
	}

	from := mail.NewEmail(os.Getenv("EMAIL_FROM_NAME"), os.Getenv("EMAIL_FROM_ADDRESS"))
	to := mail.NewEmail(toName, toEmailAddress)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

func SendSMS(toPhoneNumber, body string) error {
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")
	if fromNumber == "" {
		return fmt.Errorf("TWILIO_FROM_NUMBER not set")
	}

	client := twilio.NewRestClient()
	params := &openapi.CreateMessageParams{}
	params.SetTo(toPhoneNumber)
	params.SetFrom(fromNumber)
	params.SetBody(body)

	_, err := client.Api.CreateMessage(params)
	return err
}
