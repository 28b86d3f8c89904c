// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/your-org/fashion-storefront/internal/config"
)

// EmailService handles all email operations
type EmailService struct {
	config    *config.Config
	logger    logrus.FieldLogger
	templates map[EmailType]*template.Template
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config, logger logrus.FieldLogger) *EmailService {
	s := &EmailService{
		config:    cfg,
		logger:    logger,
		templates: make(map[EmailType]*template.Template, len(builtinTemplates)),
	}
	for name, body := range builtinTemplates {
		s.templates[name] = template.Must(template.New(string(name)).Parse(layoutHead + body + layoutFoot))
	}
	return s
}

// SendEmail sends an email using the configured provider
func (s *EmailService) SendEmail(ctx context.Context, email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	switch s.config.Email.Provider {
	case "smtp":
		return s.sendSMTPEmail(email)
	case "log", "":
		s.logger.WithFields(logrus.Fields{
			"to":      email.To,
			"subject": email.Subject,
			"type":    email.Type,
			"data":    email.Data,
		}).Info("Email delivered to log")
		return nil
	default:
		return fmt.Errorf("unsupported email provider: %s", s.config.Email.Provider)
	}
}

// SendWelcomeEmail greets a newly registered user
func (s *EmailService) SendWelcomeEmail(ctx context.Context, userEmail, userName string) error {
	data := s.baseData(userName, userEmail)

	html, err := s.renderTemplate(EmailTypeWelcome, data)
	if err != nil {
		return err
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{userEmail},
		Subject:     fmt.Sprintf("Welcome to %s!", data.SiteName),
		HTMLContent: html,
		Type:        EmailTypeWelcome,
	})
}

// SendEmailVerificationEmail sends the link that confirms a user's address
func (s *EmailService) SendEmailVerificationEmail(ctx context.Context, userEmail, userName, token string) error {
	data := EmailVerificationData{
		EmailTemplateData: s.baseData(userName, userEmail),
		VerificationURL:   s.VerificationURL(token),
		ExpiryTime:        s.config.Storefront.VerificationTokenTTL.String(),
	}

	html, err := s.renderTemplate(EmailTypeEmailVerification, data)
	if err != nil {
		return err
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{userEmail},
		Subject:     "Verify your email address",
		HTMLContent: html,
		Type:        EmailTypeEmailVerification,
		Data:        map[string]interface{}{"verification_url": data.VerificationURL},
	})
}

// SendOrderConfirmationEmail sends order confirmation email
func (s *EmailService) SendOrderConfirmationEmail(ctx context.Context, data OrderConfirmationData) error {
	data.EmailTemplateData = s.baseData(data.UserName, data.UserEmail)
	if data.OrderURL == "" {
		data.OrderURL = fmt.Sprintf("%s/orders/%s", s.config.App.BaseURL, url.PathEscape(data.OrderNumber))
	}

	html, err := s.renderTemplate(EmailTypeOrderConfirmation, data)
	if err != nil {
		return err
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{data.UserEmail},
		Subject:     fmt.Sprintf("Order Confirmation - %s", data.OrderNumber),
		HTMLContent: html,
		Type:        EmailTypeOrderConfirmation,
		Data: map[string]interface{}{
			"order_number": data.OrderNumber,
			"total":        data.Total,
		},
	})
}

// VerificationURL is the storefront link carrying a verification token
func (s *EmailService) VerificationURL(token string) string {
	return fmt.Sprintf("%s/verify-email?token=%s", s.config.App.BaseURL, url.QueryEscape(token))
}

func (s *EmailService) baseData(userName, userEmail string) EmailTemplateData {
	return GetBaseTemplateData(s.config.App.Name, s.config.App.BaseURL, userName, userEmail)
}

// renderTemplate renders an email template with data
func (s *EmailService) renderTemplate(name EmailType, data interface{}) (string, error) {
	tmpl, exists := s.templates[name]
	if !exists {
		return "", fmt.Errorf("template %s not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

const layoutHead = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.SiteName}}</title>
</head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
        <h1 style="color: #333;">{{.SiteName}}</h1>
        <p>Hello {{.UserName}},</p>
`

const layoutFoot = `
        <p>Best regards,<br>{{.SiteName}} Team</p>
        <hr>
        <p style="font-size: 12px; color: #666;">
            &copy; {{.Year}} {{.SiteName}}. Need help? <a href="{{.SupportURL}}">Contact support</a>.
        </p>
    </div>
</body>
</html>`

var builtinTemplates = map[EmailType]string{
	EmailTypeWelcome: `
        <p>Thanks for creating an account at {{.SiteName}}. Browse the latest arrivals at
        <a href="{{.SiteURL}}">{{.SiteURL}}</a>.</p>`,

	EmailTypeEmailVerification: `
        <p>Please confirm your email address to start checking out.</p>
        <p><a href="{{.VerificationURL}}" style="background:#111827;color:#fff;padding:10px 18px;text-decoration:none;border-radius:4px;">Verify email</a></p>
        <p style="font-size: 12px; color: #666;">This link expires in {{.ExpiryTime}}.</p>`,

	EmailTypeOrderConfirmation: `
        <p>Thank you for your order <strong>{{.OrderNumber}}</strong> placed on {{.OrderDate}}.</p>
        <table style="width: 100%; border-collapse: collapse;">
            {{range .Items}}
            <tr>
                <td style="padding: 6px 0;">{{.Name}} <span style="color:#666;">({{.Variant}})</span> &times; {{.Quantity}}</td>
                <td style="padding: 6px 0; text-align: right;">${{.Total}}</td>
            </tr>
            {{end}}
        </table>
        <p>Subtotal: ${{.Subtotal}}<br>
           Shipping: {{if eq .Shipping "0.00"}}Free{{else}}${{.Shipping}}{{end}}<br>
           Tax: ${{.Tax}}<br>
           <strong>Total: ${{.Total}}</strong></p>
        <p>Shipping to {{.ShippingAddress.FullName}}, {{.ShippingAddress.Street}}, {{.ShippingAddress.City}} {{.ShippingAddress.ZipCode}}, {{.ShippingAddress.Country}}.</p>
        <p><a href="{{.OrderURL}}">View your order</a></p>`,
}
