package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementStatus is the lifecycle state column of a settlement row.
type SettlementStatus string

const (
	SettlementStatusDraft      SettlementStatus = "draft"
	SettlementStatusFinalized  SettlementStatus = "finalized"
	SettlementStatusSuperseded SettlementStatus = "superseded"
)

// Settlement maps the settlements table.
type Settlement struct {
	SettlementID     string           `db:"settlement_id"`
	ActivityID       string           `db:"activity_id"`
	SettlementNumber string           `db:"settlement_number"`
	SequenceNo       int64            `db:"sequence_no"`
	Status           SettlementStatus `db:"status"`
	TotalExpense     decimal.Decimal  `db:"total_expense"`
	TotalReserve     decimal.Decimal  `db:"total_reserve"`
	NetExpense       decimal.Decimal  `db:"net_expense"`
	PerPersonCost    decimal.Decimal  `db:"per_person_cost"`
	ParticipantCount int              `db:"participant_count"`
	Notes            string           `db:"notes"`
	FinalizedAt      *time.Time       `db:"finalized_at"`
	AuditFields
}

// SettlementItem maps the settlement_items table, one row per breakdown line.
// Rows snapshot the allocation at creation time and never change afterwards.
type SettlementItem struct {
	ItemID          string          `db:"item_id"`
	SettlementID    string          `db:"settlement_id"`
	ParticipantID   string          `db:"participant_id"`
	ParticipantName string          `db:"participant_name"`
	Weight          decimal.Decimal `db:"weight"`
	ShareAmount     decimal.Decimal `db:"share_amount"`
	IsExempt        bool            `db:"is_exempt"`
	SortOrder       int             `db:"sort_order"`
}
