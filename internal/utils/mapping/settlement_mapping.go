package mapping

import (
	"github.com/SscSPs/activity_settlement_app/internal/core/domain"
	"github.com/SscSPs/activity_settlement_app/internal/models"
)

// ToModelSettlement converts a domain Settlement to a model Settlement
func ToModelSettlement(d domain.Settlement) models.Settlement {
	return models.Settlement{
		SettlementID:     d.SettlementID,
		ActivityID:       d.ActivityID,
		SettlementNumber: d.SettlementNumber,
		SequenceNo:       d.SequenceNo,
		Status:           models.SettlementStatus(d.Status),
		TotalExpense:     d.TotalExpense,
		TotalReserve:     d.TotalReserve,
		NetExpense:       d.NetExpense,
		PerPersonCost:    d.PerPersonCost,
		ParticipantCount: d.ParticipantCount,
		Notes:            d.Notes,
		FinalizedAt:      d.FinalizedAt,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSettlement converts a model Settlement to a domain Settlement.
// The breakdown snapshot is attached separately by the repository.
func ToDomainSettlement(m models.Settlement) domain.Settlement {
	return domain.Settlement{
		SettlementID:     m.SettlementID,
		ActivityID:       m.ActivityID,
		SettlementNumber: m.SettlementNumber,
		SequenceNo:       m.SequenceNo,
		Status:           domain.SettlementStatus(m.Status),
		TotalExpense:     m.TotalExpense,
		TotalReserve:     m.TotalReserve,
		NetExpense:       m.NetExpense,
		PerPersonCost:    m.PerPersonCost,
		ParticipantCount: m.ParticipantCount,
		Notes:            m.Notes,
		FinalizedAt:      m.FinalizedAt,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainSettlements converts a slice of model settlements to domain settlements
func ToDomainSettlements(ms []models.Settlement) []domain.Settlement {
	out := make([]domain.Settlement, len(ms))
	for i, m := range ms {
		out[i] = ToDomainSettlement(m)
	}
	return out
}

// ToModelSettlementItems converts a breakdown to settlement item rows
func ToModelSettlementItems(settlementID string, lines []domain.AllocationLine) []models.SettlementItem {
	out := make([]models.SettlementItem, len(lines))
	for i, line := range lines {
		out[i] = models.SettlementItem{
			SettlementID:    settlementID,
			ParticipantID:   line.ParticipantID,
			ParticipantName: line.ParticipantName,
			Weight:          line.Weight,
			ShareAmount:     line.ShareAmount,
			IsExempt:        line.IsExempt,
			SortOrder:       i,
		}
	}
	return out
}

// ToDomainAllocationLines converts settlement item rows back to a breakdown
func ToDomainAllocationLines(items []models.SettlementItem) []domain.AllocationLine {
	out := make([]domain.AllocationLine, len(items))
	for i, item := range items {
		out[i] = domain.AllocationLine{
			ParticipantID:   item.ParticipantID,
			ParticipantName: item.ParticipantName,
			Weight:          item.Weight,
			ShareAmount:     item.ShareAmount,
			IsExempt:        item.IsExempt,
		}
	}
	return out
}
