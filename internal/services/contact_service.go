package services

import (
	"context"
	"log"
	"strings"
	"time"

	"storefront/internal/domain"
)

type ContactService struct {
	emitter *Emitter
}

func NewContactService(emitter *Emitter) *ContactService {
	return &ContactService{emitter: emitter}
}

// Submit hands a contact-form message to whoever consumes contact.submitted.
func (s *ContactService) Submit(ctx context.Context, msg domain.ContactMessage) error {
	if strings.TrimSpace(msg.Name) == "" || strings.TrimSpace(msg.Email) == "" ||
		strings.TrimSpace(msg.Subject) == "" || strings.TrimSpace(msg.Message) == "" {
		return invalid("All fields are required")
	}
	log.Printf("contact form from %s <%s>: %s", msg.Name, msg.Email, msg.Subject)
	s.emitter.Emit(domain.EventContactSubmitted, domain.ContactSubmittedEvent{
		ContactMessage: msg,
		ReceivedAt:     time.Now().UTC(),
	})
	return nil
}
