package services

import (
	"context"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestContactService_Submit(t *testing.T) {
	valid := domain.ContactMessage{Name: "Gus", Email: "gus@example.com", Subject: "Returns", Message: "How do I return?"}

	tests := []struct {
		name          string
		msg           func(domain.ContactMessage) domain.ContactMessage
		expectedError error
	}{
		{name: "valid"},
		{name: "missing subject", msg: func(m domain.ContactMessage) domain.ContactMessage { m.Subject = ""; return m },
			expectedError: domain.ErrInvalidInput},
		{name: "blank message", msg: func(m domain.ContactMessage) domain.ContactMessage { m.Message = "\n"; return m },
			expectedError: domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := new(mocks.MockPublisher)
			pub.On("Publish", mock.Anything, domain.EventContactSubmitted, mock.Anything).Return(nil).Maybe()
			emitter := NewEmitter(pub)
			s := NewContactService(emitter)
			msg := valid
			if tt.msg != nil {
				msg = tt.msg(msg)
			}

			err := s.Submit(context.Background(), msg)
			emitter.Wait()

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			assert.NoError(t, err)
			pub.AssertCalled(t, "Publish", mock.Anything, domain.EventContactSubmitted, mock.MatchedBy(func(e domain.ContactSubmittedEvent) bool {
				return e.Subject == "Returns" && !e.ReceivedAt.IsZero()
			}))
		})
	}
}
