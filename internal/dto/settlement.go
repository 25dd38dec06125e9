package dto

import (
	"time"

	"github.com/SscSPs/activity_settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ParticipantSettingInput overrides one participant's part in an allocation
// run. Weight is a pointer to distinguish an omitted weight (defaults to 1)
// from an explicit zero.
type ParticipantSettingInput struct {
	ParticipantID string           `json:"participant_id" binding:"required"`
	Weight        *decimal.Decimal `json:"weight"`
	IsExempt      bool             `json:"is_exempt"`
}

// SimulateSettlementRequest defines the options for a cost allocation preview.
type SimulateSettlementRequest struct {
	IncludeTeamFund           bool                      `json:"include_team_fund"`
	IncludeUnconfirmedRecords bool                      `json:"include_unconfirmed_records"`
	ParticipantSettings       []ParticipantSettingInput `json:"participant_settings"`
}

// AllocationLineResponse is one participant's computed share.
type AllocationLineResponse struct {
	ParticipantID   string          `json:"participant_id"`
	ParticipantName string          `json:"participant_name"`
	Weight          decimal.Decimal `json:"weight"`
	ShareAmount     decimal.Decimal `json:"share_amount"`
	IsExempt        bool            `json:"is_exempt"`
}

// AllocationResponse is the outcome of a cost allocation run. Warning is set
// when the run produced a degenerate but still reportable result, such as no
// participant being eligible to carry a share.
type AllocationResponse struct {
	TotalExpense     decimal.Decimal          `json:"total_expense"`
	TotalReserve     decimal.Decimal          `json:"total_reserve"`
	NetExpense       decimal.Decimal          `json:"net_expense"`
	PerPersonCost    decimal.Decimal          `json:"per_person_cost"`
	ParticipantCount int                      `json:"participant_count"`
	Breakdown        []AllocationLineResponse `json:"breakdown"`
	Warning          string                   `json:"warning,omitempty"`
}

// CreateSettlementRequest defines the data needed to create a draft
// settlement. SimulationResult is optional; when omitted the allocation is
// recomputed server-side with default options.
type CreateSettlementRequest struct {
	SimulationResult *AllocationResponse `json:"simulation_result"`
	Notes            string              `json:"notes"`
}

// SettlementResponse defines the data returned for a settlement.
type SettlementResponse struct {
	SettlementID     string                   `json:"settlement_id"`
	ActivityID       string                   `json:"activity_id"`
	SettlementNumber string                   `json:"settlement_number"`
	Status           string                   `json:"status"`
	TotalExpense     decimal.Decimal          `json:"total_expense"`
	TotalReserve     decimal.Decimal          `json:"total_reserve"`
	NetExpense       decimal.Decimal          `json:"net_expense"`
	PerPersonCost    decimal.Decimal          `json:"per_person_cost"`
	ParticipantCount int                      `json:"participant_count"`
	Notes            string                   `json:"notes"`
	Breakdown        []AllocationLineResponse `json:"breakdown,omitempty"`
	FinalizedAt      *time.Time               `json:"finalized_at,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	CreatedBy        string                   `json:"created_by"`
}

// ListSettlementsParams defines query parameters for listing settlements.
type ListSettlementsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"next_token"`
}

// ListSettlementsResponse wraps a page of settlements with the token for the
// next page.
type ListSettlementsResponse struct {
	Settlements []SettlementResponse `json:"settlements"`
	NextToken   *string              `json:"next_token,omitempty"`
}

// ToAllocationLineResponses converts domain allocation lines to DTOs.
func ToAllocationLineResponses(lines []domain.AllocationLine) []AllocationLineResponse {
	responses := make([]AllocationLineResponse, len(lines))
	for i, line := range lines {
		responses[i] = AllocationLineResponse{
			ParticipantID:   line.ParticipantID,
			ParticipantName: line.ParticipantName,
			Weight:          line.Weight,
			ShareAmount:     line.ShareAmount,
			IsExempt:        line.IsExempt,
		}
	}
	return responses
}

// ToAllocationResponse converts a domain.Allocation to AllocationResponse DTO.
func ToAllocationResponse(alloc *domain.Allocation, warning string) AllocationResponse {
	return AllocationResponse{
		TotalExpense:     alloc.TotalExpense,
		TotalReserve:     alloc.TotalReserve,
		NetExpense:       alloc.NetExpense,
		PerPersonCost:    alloc.PerPersonCost,
		ParticipantCount: alloc.ParticipantCount,
		Breakdown:        ToAllocationLineResponses(alloc.Breakdown),
		Warning:          warning,
	}
}

// ToDomainAllocation converts an AllocationResponse back into a domain
// allocation, used when a client submits a previously returned simulation
// result for persistence.
func ToDomainAllocation(resp *AllocationResponse) domain.Allocation {
	lines := make([]domain.AllocationLine, len(resp.Breakdown))
	for i, line := range resp.Breakdown {
		lines[i] = domain.AllocationLine{
			ParticipantID:   line.ParticipantID,
			ParticipantName: line.ParticipantName,
			Weight:          line.Weight,
			ShareAmount:     line.ShareAmount,
			IsExempt:        line.IsExempt,
		}
	}
	return domain.Allocation{
		TotalExpense:     resp.TotalExpense,
		TotalReserve:     resp.TotalReserve,
		NetExpense:       resp.NetExpense,
		PerPersonCost:    resp.PerPersonCost,
		ParticipantCount: resp.ParticipantCount,
		Breakdown:        lines,
	}
}

// ToSettlementResponse converts a domain.Settlement to SettlementResponse DTO.
func ToSettlementResponse(s *domain.Settlement) SettlementResponse {
	return SettlementResponse{
		SettlementID:     s.SettlementID,
		ActivityID:       s.ActivityID,
		SettlementNumber: s.SettlementNumber,
		Status:           string(s.Status),
		TotalExpense:     s.TotalExpense,
		TotalReserve:     s.TotalReserve,
		NetExpense:       s.NetExpense,
		PerPersonCost:    s.PerPersonCost,
		ParticipantCount: s.ParticipantCount,
		Notes:            s.Notes,
		Breakdown:        ToAllocationLineResponses(s.Breakdown),
		FinalizedAt:      s.FinalizedAt,
		CreatedAt:        s.CreatedAt,
		CreatedBy:        s.CreatedBy,
	}
}

// ToSettlementResponses converts a slice of domain.Settlement to []SettlementResponse.
func ToSettlementResponses(settlements []domain.Settlement) []SettlementResponse {
	responses := make([]SettlementResponse, len(settlements))
	for i, s := range settlements {
		responses[i] = ToSettlementResponse(&s)
	}
	return responses
}
