package dto

import (
	"time"

	"github.com/SscSPs/activity_settlement_app/internal/core/domain"
)

// AddParticipantRequest defines the data needed to register a participant.
type AddParticipantRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
}

// ParticipantResponse defines the data returned for a participant.
type ParticipantResponse struct {
	ParticipantID string    `json:"participant_id"`
	ActivityID    string    `json:"activity_id"`
	UserID        string    `json:"user_id"`
	DisplayName   string    `json:"display_name"`
	Status        string    `json:"status"`
	JoinedAt      time.Time `json:"joined_at"`
}

// ToParticipantResponse converts a domain.Participant to ParticipantResponse DTO
func ToParticipantResponse(p *domain.Participant) ParticipantResponse {
	return ParticipantResponse{
		ParticipantID: p.ParticipantID,
		ActivityID:    p.ActivityID,
		UserID:        p.UserID,
		DisplayName:   p.DisplayName,
		Status:        string(p.Status),
		JoinedAt:      p.JoinedAt,
	}
}

// ToParticipantResponses converts a slice of domain.Participant to []ParticipantResponse.
func ToParticipantResponses(participants []domain.Participant) []ParticipantResponse {
	responses := make([]ParticipantResponse, len(participants))
	for i, p := range participants {
		responses[i] = ToParticipantResponse(&p)
	}
	return responses
}
