package dto

import (
	"time"

	"github.com/SscSPs/activity_settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRecordRequest defines the data needed to create a new accounting record.
type CreateRecordRequest struct {
	RecordType  domain.RecordType `json:"record_type" binding:"required,oneof=expense reserve adjustment"`
	Amount      decimal.Decimal   `json:"amount" binding:"required"`
	CategoryID  *string           `json:"category_id"` // Optional, use pointer for nullability
	Description string            `json:"description" binding:"required"`
	RecordDate  time.Time         `json:"record_date" binding:"required"`
}

// UpdateRecordRequest defines the data allowed for updating a draft record.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateRecordRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	CategoryID  *string          `json:"category_id"`
	Description *string          `json:"description"`
	RecordDate  *time.Time       `json:"record_date"`
}

// RecordResponse defines the data returned for an accounting record.
type RecordResponse struct {
	RecordID    string          `json:"record_id"`
	ActivityID  string          `json:"activity_id"`
	RecordType  string          `json:"record_type"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	CategoryID  *string         `json:"category_id,omitempty"`
	Description string          `json:"description"`
	RecordDate  time.Time       `json:"record_date"`
	CreatedAt   time.Time       `json:"created_at"`
	CreatedBy   string          `json:"created_by"`
}

// ListRecordsParams defines query parameters for listing records.
type ListRecordsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"next_token"`
}

// ListRecordsResponse wraps a page of records with the token for the next page.
type ListRecordsResponse struct {
	Records   []RecordResponse `json:"records"`
	NextToken *string          `json:"next_token,omitempty"`
}

// CategoryResponse defines the data returned for an expense category.
type CategoryResponse struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	SortOrder  int    `json:"sort_order"`
}

// ToRecordResponse converts a domain.AccountingRecord to RecordResponse DTO
func ToRecordResponse(r *domain.AccountingRecord) RecordResponse {
	return RecordResponse{
		RecordID:    r.RecordID,
		ActivityID:  r.ActivityID,
		RecordType:  string(r.RecordType),
		Amount:      r.Amount,
		Status:      string(r.Status),
		CategoryID:  r.CategoryID,
		Description: r.Description,
		RecordDate:  r.RecordDate,
		CreatedAt:   r.CreatedAt,
		CreatedBy:   r.CreatedBy,
	}
}

// ToRecordResponses converts a slice of domain.AccountingRecord to []RecordResponse.
func ToRecordResponses(records []domain.AccountingRecord) []RecordResponse {
	responses := make([]RecordResponse, len(records))
	for i, r := range records {
		responses[i] = ToRecordResponse(&r)
	}
	return responses
}

// ToCategoryResponses converts a slice of domain.ExpenseCategory to []CategoryResponse.
func ToCategoryResponses(categories []domain.ExpenseCategory) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		responses[i] = CategoryResponse{
			CategoryID: c.CategoryID,
			Name:       c.Name,
			SortOrder:  c.SortOrder,
		}
	}
	return responses
}
