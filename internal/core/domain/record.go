package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordType classifies an accounting record.
type RecordType string

const (
	// RecordTypeExpense is money spent on the activity.
	RecordTypeExpense RecordType = "expense"
	// RecordTypeReserve is pre-collected money earmarked for the activity,
	// deducted from gross expense before allocation when enabled.
	RecordTypeReserve RecordType = "reserve"
	// RecordTypeAdjustment is a signed correction applied to total expense.
	RecordTypeAdjustment RecordType = "adjustment"
)

// RecordStatus is the lifecycle state of an accounting record.
type RecordStatus string

const (
	RecordStatusDraft     RecordStatus = "draft"
	RecordStatusConfirmed RecordStatus = "confirmed"
	RecordStatusCancelled RecordStatus = "cancelled"
)

// AccountingRecord is a single bookkeeping entry for an activity.
// Amount is non-negative for expense and reserve records; adjustment records
// carry a signed amount. Only draft records may be edited or deleted, and a
// cancelled record never contributes to allocation math.
type AccountingRecord struct {
	RecordID    string          `json:"recordID"` // Primary Key (UUID)
	ActivityID  string          `json:"activityID"`
	RecordType  RecordType      `json:"recordType"`
	Amount      decimal.Decimal `json:"amount"`
	Status      RecordStatus    `json:"status"`
	CategoryID  *string         `json:"categoryID,omitempty"`
	Description string          `json:"description"`
	RecordDate  time.Time       `json:"recordDate"`
	AuditFields
}

// ExpenseCategory is a display grouping for accounting records.
type ExpenseCategory struct {
	CategoryID string `json:"categoryID"`
	Name       string `json:"name"`
	SortOrder  int    `json:"sortOrder"`
}
