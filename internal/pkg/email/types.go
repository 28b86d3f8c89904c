// internal/pkg/email/types.go
package email

import (
	"time"
)

// EmailType represents the type of email being sent
type EmailType string

const (
	EmailTypeWelcome           EmailType = "welcome"
	EmailTypeEmailVerification EmailType = "email_verification"
	EmailTypeOrderConfirmation EmailType = "order_confirmation"
)

// Email represents an email message
type Email struct {
	To          []string               `json:"to"`
	Subject     string                 `json:"subject"`
	HTMLContent string                 `json:"html_content"`
	Type        EmailType              `json:"type"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// EmailTemplateData contains common data for all email templates
type EmailTemplateData struct {
	SiteName   string `json:"site_name"`
	SiteURL    string `json:"site_url"`
	SupportURL string `json:"support_url"`
	UserName   string `json:"user_name"`
	UserEmail  string `json:"user_email"`
	Year       int    `json:"year"`
}

// EmailVerificationData contains data for email verification
type EmailVerificationData struct {
	EmailTemplateData
	VerificationURL string `json:"verification_url"`
	ExpiryTime      string `json:"expiry_time"`
}

// OrderConfirmationData contains data for order confirmation email
type OrderConfirmationData struct {
	EmailTemplateData
	OrderNumber     string      `json:"order_number"`
	OrderDate       string      `json:"order_date"`
	OrderURL        string      `json:"order_url"`
	Items           []OrderItem `json:"items"`
	Subtotal        string      `json:"subtotal"`
	Tax             string      `json:"tax"`
	Shipping        string      `json:"shipping"`
	Total           string      `json:"total"`
	ShippingAddress Address     `json:"shipping_address"`
}

// OrderItem represents an item in the order. Amounts are preformatted.
type OrderItem struct {
	Name     string `json:"name"`
	Variant  string `json:"variant"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Total    string `json:"total"`
	ImageURL string `json:"image_url"`
}

// Address represents the shipping address
type Address struct {
	FullName string `json:"full_name"`
	Street   string `json:"address"`
	City     string `json:"city"`
	ZipCode  string `json:"zip_code"`
	Country  string `json:"country"`
}

// GetBaseTemplateData returns common template data
func GetBaseTemplateData(siteName, siteURL, userName, userEmail string) EmailTemplateData {
	return EmailTemplateData{
		SiteName:   siteName,
		SiteURL:    siteURL,
		SupportURL: siteURL + "/support",
		UserName:   userName,
		UserEmail:  userEmail,
		Year:       time.Now().Year(),
	}
}
