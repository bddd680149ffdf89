package notifications

import (
	"github.com/treconstruction/changeorderino-api/domain"
)

const (
	EmailServiceSES   = "ses"
	EmailServiceDummy = "dummy"
)

// Notifier is an abstraction layer for multiple types of notifications. Email
// is the only one in use.
type Notifier interface {
	Send(msg Message) error
}

// EmailNotifier is an email notifier that conforms to the Notifier interface.
type EmailNotifier struct{}

// Send a notification using an email notifier.
func (e *EmailNotifier) Send(msg Message) error {
	var emailService EmailService

	switch domain.Env.EmailService {
	case EmailServiceSES:
		emailService = &SES{}
	case EmailServiceDummy:
		emailService = &TestEmailService
	default:
		emailService = &TestEmailService
	}

	return emailService.Send(msg)
}
