package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementStatus is the lifecycle state of a settlement.
type SettlementStatus string

const (
	// SettlementStatusDraft settlements may still be finalized or discarded.
	SettlementStatusDraft SettlementStatus = "draft"
	// SettlementStatusFinalized settlements are the authoritative allocation
	// for their activity; the breakdown snapshot is immutable.
	SettlementStatusFinalized SettlementStatus = "finalized"
	// SettlementStatusSuperseded settlements were finalized once and later
	// replaced by a newer finalized settlement. Terminal.
	SettlementStatusSuperseded SettlementStatus = "superseded"
)

// Settlement is a persisted allocation snapshot for an activity. An activity
// accumulates settlements over time, but at most one is finalized at any
// moment; finalizing a new one supersedes the previous finalized one.
type Settlement struct {
	SettlementID     string           `json:"settlementID"` // Primary Key (UUID)
	ActivityID       string           `json:"activityID"`
	SettlementNumber string           `json:"settlementNumber"` // unique per activity, never reused
	SequenceNo       int64            `json:"sequenceNo"`       // monotonic per activity
	Status           SettlementStatus `json:"status"`
	TotalExpense     decimal.Decimal  `json:"totalExpense"`
	TotalReserve     decimal.Decimal  `json:"totalReserve"`
	NetExpense       decimal.Decimal  `json:"netExpense"`
	PerPersonCost    decimal.Decimal  `json:"perPersonCost"`
	ParticipantCount int              `json:"participantCount"`
	Notes            string           `json:"notes"`
	Breakdown        []AllocationLine `json:"breakdown,omitempty"` // snapshot, loaded on demand
	FinalizedAt      *time.Time       `json:"finalizedAt,omitempty"`
	AuditFields
}
