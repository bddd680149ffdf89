package notifications

import (
	"github.com/treconstruction/changeorderino-api/domain"
)

// Attachment is a file carried with an email, such as the RFCO document
type Attachment struct {
	Name        string
	ContentType string
	Content     []byte
}

type Message struct {
	Template    string
	Data        map[string]interface{}
	FromName    string
	FromEmail   string
	ToName      string
	ToEmail     string
	Subject     string
	Body        string
	Attachments []Attachment
}

// NewEmailMessage returns a message with the FromEmail, the Data.appName, Data.uiURL and
// Data.supportEmail already set
func NewEmailMessage() Message {
	msg := Message{
		FromEmail: domain.EmailFromAddress(nil),
		Data: map[string]interface{}{
			"appName":      domain.Env.AppName,
			"uiURL":        domain.Env.UIURL,
			"supportEmail": domain.Env.SupportEmail,
		},
	}
	return msg
}
