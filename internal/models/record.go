package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordType classifies an accounting record row.
type RecordType string

const (
	RecordTypeExpense    RecordType = "expense"
	RecordTypeReserve    RecordType = "reserve"
	RecordTypeAdjustment RecordType = "adjustment"
)

// RecordStatus is the lifecycle state column of an accounting record.
type RecordStatus string

const (
	RecordStatusDraft     RecordStatus = "draft"
	RecordStatusConfirmed RecordStatus = "confirmed"
	RecordStatusCancelled RecordStatus = "cancelled"
)

// AccountingRecord maps the accounting_records table.
type AccountingRecord struct {
	RecordID    string          `db:"record_id"`
	ActivityID  string          `db:"activity_id"`
	RecordType  RecordType      `db:"record_type"`
	Amount      decimal.Decimal `db:"amount"`
	Status      RecordStatus    `db:"status"`
	CategoryID  *string         `db:"category_id"`
	Description string          `db:"description"`
	RecordDate  time.Time       `db:"record_date"`
	AuditFields
}

// ExpenseCategory maps the expense_categories table.
type ExpenseCategory struct {
	CategoryID string `db:"category_id"`
	Name       string `db:"name"`
	SortOrder  int    `db:"sort_order"`
}
