package mapping

import (
	"github.com/SscSPs/activity_settlement_app/internal/core/domain"
	"github.com/SscSPs/activity_settlement_app/internal/models"
)

// ToDomainParticipant converts a model Participant to a domain Participant
func ToDomainParticipant(m models.Participant) domain.Participant {
	return domain.Participant{
		ParticipantID: m.ParticipantID,
		ActivityID:    m.ActivityID,
		UserID:        m.UserID,
		DisplayName:   m.DisplayName,
		Status:        domain.ParticipantStatus(m.Status),
		JoinedAt:      m.JoinedAt,
	}
}

// ToDomainParticipants converts a slice of model participants to domain participants
func ToDomainParticipants(ms []models.Participant) []domain.Participant {
	out := make([]domain.Participant, len(ms))
	for i, m := range ms {
		out[i] = ToDomainParticipant(m)
	}
	return out
}
