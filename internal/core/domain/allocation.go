package domain

import "github.com/shopspring/decimal"

// AllocationLine is one participant's computed share of the net expense.
// Exempt and zero-weight participants appear with a zero share for
// transparency.
type AllocationLine struct {
	ParticipantID   string          `json:"participantID"`
	ParticipantName string          `json:"participantName"`
	Weight          decimal.Decimal `json:"weight"`
	ShareAmount     decimal.Decimal `json:"shareAmount"`
	IsExempt        bool            `json:"isExempt"`
}

// Allocation is the transient result of one cost-sharing calculation.
// The sum of non-exempt share amounts equals NetExpense exactly;
// PerPersonCost is an unweighted reference value for display only.
type Allocation struct {
	TotalExpense     decimal.Decimal  `json:"totalExpense"`
	TotalReserve     decimal.Decimal  `json:"totalReserve"`
	NetExpense       decimal.Decimal  `json:"netExpense"`
	PerPersonCost    decimal.Decimal  `json:"perPersonCost"`
	ParticipantCount int              `json:"participantCount"` // non-exempt participants with weight > 0
	Breakdown        []AllocationLine `json:"breakdown"`        // ordered by ascending participant ID
}
