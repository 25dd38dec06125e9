package mapping

import (
	"github.com/SscSPs/activity_settlement_app/internal/core/domain"
	"github.com/SscSPs/activity_settlement_app/internal/models"
)

// ToModelRecord converts a domain AccountingRecord to a model AccountingRecord
func ToModelRecord(d domain.AccountingRecord) models.AccountingRecord {
	return models.AccountingRecord{
		RecordID:    d.RecordID,
		ActivityID:  d.ActivityID,
		RecordType:  models.RecordType(d.RecordType),
		Amount:      d.Amount,
		Status:      models.RecordStatus(d.Status),
		CategoryID:  d.CategoryID,
		Description: d.Description,
		RecordDate:  d.RecordDate,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRecord converts a model AccountingRecord to a domain AccountingRecord
func ToDomainRecord(m models.AccountingRecord) domain.AccountingRecord {
	return domain.AccountingRecord{
		RecordID:    m.RecordID,
		ActivityID:  m.ActivityID,
		RecordType:  domain.RecordType(m.RecordType),
		Amount:      m.Amount,
		Status:      domain.RecordStatus(m.Status),
		CategoryID:  m.CategoryID,
		Description: m.Description,
		RecordDate:  m.RecordDate,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainRecords converts a slice of model records to domain records
func ToDomainRecords(ms []models.AccountingRecord) []domain.AccountingRecord {
	out := make([]domain.AccountingRecord, len(ms))
	for i, m := range ms {
		out[i] = ToDomainRecord(m)
	}
	return out
}

// ToDomainCategory converts a model ExpenseCategory to a domain ExpenseCategory
func ToDomainCategory(m models.ExpenseCategory) domain.ExpenseCategory {
	return domain.ExpenseCategory{
		CategoryID: m.CategoryID,
		Name:       m.Name,
		SortOrder:  m.SortOrder,
	}
}
