package utils

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"os"

	"github.com/Kariqs/neon-store-api/models"
)

type EmailData struct {
	Name            string
	Message         string
	DisplayOrderID  string
	TotalAmount     int64
	PaymentMethod   string
	ShippingAddress string
	OrderURL        string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends order emails over SMTP using the FROM_EMAIL* and SMTP_ADDRESS
// environment variables.
type Mailer struct {
	TemplatePath string
	FrontendURL  string
	send         sendFunc
}

func NewMailer(templatePath, frontendURL string) *Mailer {
	return &Mailer{TemplatePath: templatePath, FrontendURL: frontendURL, send: smtp.SendMail}
}

// Enabled reports whether SMTP is configured at all.
func (m *Mailer) Enabled() bool {
	return os.Getenv("SMTP_ADDRESS") != "" && os.Getenv("FROM_EMAIL") != ""
}

func (m *Mailer) OrderPlaced(_ context.Context, email string, summary models.LastOrderSummary) error {
	data := EmailData{
		Name:            summary.CustomerName,
		Message:         "Thank you for your order! We have started crafting your neon.",
		DisplayOrderID:  summary.DisplayOrderID,
		TotalAmount:     summary.TotalAmount,
		PaymentMethod:   paymentLabel(summary.PaymentMethod),
		ShippingAddress: summary.ShippingAddress,
		OrderURL:        m.FrontendURL + "/order-confirmation/" + summary.DisplayOrderID,
	}
	return m.SendEmail(email, "Order "+summary.DisplayOrderID+" confirmed", data)
}

func (m *Mailer) SendEmail(emailTo string, emailSubject string, data EmailData) error {
	tmpl, err := template.ParseFiles(m.TemplatePath)
	if err != nil {
		return fmt.Errorf("template parse error: %w", err)
	}

	var body bytes.Buffer
	err = tmpl.Execute(&body, data)
	if err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		os.Getenv("FROM_EMAIL"),
		emailTo,
		emailSubject,
		body.String(),
	)

	auth := smtp.PlainAuth(
		"",
		os.Getenv("FROM_EMAIL"),
		os.Getenv("FROM_EMAIL_PASSWORD"),
		os.Getenv("FROM_EMAIL_SMTP"),
	)

	err = m.send(os.Getenv("SMTP_ADDRESS"), auth, os.Getenv("FROM_EMAIL"), []string{emailTo}, []byte(message))
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func paymentLabel(method models.PaymentMethod) string {
	if method == models.PaymentOnline {
		return "Paid online"
	}
	return "Cash on delivery"
}
