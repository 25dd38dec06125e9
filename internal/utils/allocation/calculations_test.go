package allocation_test

import (
	"testing"
	"time"

	"github.com/SscSPs/activity_settlement_app/internal/apperrors"
	"github.com/SscSPs/activity_settlement_app/internal/core/domain"
	"github.com/SscSPs/activity_settlement_app/internal/utils/allocation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testActivityID = "a0000000-0000-0000-0000-000000000001"

func expenseRecord(amount string, status domain.RecordStatus) domain.AccountingRecord {
	return record(domain.RecordTypeExpense, amount, status)
}

func record(rt domain.RecordType, amount string, status domain.RecordStatus) domain.AccountingRecord {
	return domain.AccountingRecord{
		RecordID:   "r-" + amount + "-" + string(rt) + "-" + string(status),
		ActivityID: testActivityID,
		RecordType: rt,
		Amount:     decimal.RequireFromString(amount),
		Status:     status,
		RecordDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func participants(n int) []domain.Participant {
	out := make([]domain.Participant, n)
	names := []string{"Alice", "Bob", "Carol", "Dave", "Erin"}
	for i := range out {
		out[i] = domain.Participant{
			ParticipantID: "p-0" + string(rune('1'+i)),
			ActivityID:    testActivityID,
			DisplayName:   names[i%len(names)],
			Status:        domain.ParticipantStatusApproved,
		}
	}
	return out
}

func setting(id, weight string, exempt bool) domain.ParticipantSetting {
	return domain.ParticipantSetting{
		ParticipantID: id,
		Weight:        decimal.RequireFromString(weight),
		IsExempt:      exempt,
	}
}

func shareOf(t *testing.T, alloc domain.Allocation, participantID string) decimal.Decimal {
	t.Helper()
	for _, line := range alloc.Breakdown {
		if line.ParticipantID == participantID {
			return line.ShareAmount
		}
	}
	t.Fatalf("participant %s not in breakdown", participantID)
	return decimal.Zero
}

func assertConservation(t *testing.T, alloc domain.Allocation) {
	t.Helper()
	sum := decimal.Zero
	for _, line := range alloc.Breakdown {
		if !line.IsExempt {
			sum = sum.Add(line.ShareAmount)
		}
	}
	assert.True(t, sum.Equal(alloc.NetExpense),
		"sum of non-exempt shares %s != net expense %s", sum, alloc.NetExpense)
}

func TestCalculate_EqualWeights(t *testing.T) {
	recs := []domain.AccountingRecord{expenseRecord("300", domain.RecordStatusConfirmed)}

	alloc, err := allocation.Calculate(recs, participants(3), nil, allocation.Options{})
	require.NoError(t, err)

	assert.Equal(t, 3, alloc.ParticipantCount)
	assert.True(t, alloc.NetExpense.Equal(decimal.RequireFromString("300")))
	for _, line := range alloc.Breakdown {
		assert.True(t, line.ShareAmount.Equal(decimal.RequireFromString("100.00")),
			"share for %s was %s", line.ParticipantID, line.ShareAmount)
	}
	assertConservation(t, alloc)
}

func TestCalculate_WeightedShares(t *testing.T) {
	recs := []domain.AccountingRecord{expenseRecord("100", domain.RecordStatusConfirmed)}
	settings := []domain.ParticipantSetting{
		setting("p-01", "1", false),
		setting("p-02", "1", false),
		setting("p-03", "2", false),
	}

	alloc, err := allocation.Calculate(recs, participants(3), settings, allocation.Options{})
	require.NoError(t, err)

	assert.True(t, shareOf(t, alloc, "p-01").Equal(decimal.RequireFromString("25.00")))
	assert.True(t, shareOf(t, alloc, "p-02").Equal(decimal.RequireFromString("25.00")))
	assert.True(t, shareOf(t, alloc, "p-03").Equal(decimal.RequireFromString("50.00")))
	assertConservation(t, alloc)
}

func TestCalculate_ExemptParticipant(t *testing.T) {
	recs := []domain.AccountingRecord{expenseRecord("100", domain.RecordStatusConfirmed)}
	settings := []domain.ParticipantSetting{setting("p-02", "5", true)}

	alloc, err := allocation.Calculate(recs, participants(3), settings, allocation.Options{})
	require.NoError(t, err)

	// Exempt participants owe nothing regardless of weight, but stay listed.
	assert.True(t, shareOf(t, alloc, "p-02").IsZero())
	assert.True(t, shareOf(t, alloc, "p-01").Equal(decimal.RequireFromString("50.00")))
	assert.True(t, shareOf(t, alloc, "p-03").Equal(decimal.RequireFromString("50.00")))
	assert.Equal(t, 2, alloc.ParticipantCount)
	assert.Len(t, alloc.Breakdown, 3)
	assertConservation(t, alloc)
}

func TestCalculate_RoundingRemainderOvershoot(t *testing.T) {
	recs := []domain.AccountingRecord{expenseRecord("100.01", domain.RecordStatusConfirmed)}

	alloc, err := allocation.Calculate(recs, participants(3), nil, allocation.Options{})
	require.NoError(t, err)

	// 100.01 / 3 rounds to 33.34 each, overshooting by 0.01; the overshoot is
	// taken back from the last participant in ID order.
	assert.True(t, shareOf(t, alloc, "p-01").Equal(decimal.RequireFromString("33.34")))
	assert.True(t, shareOf(t, alloc, "p-02").Equal(decimal.RequireFromString("33.34")))
	assert.True(t, shareOf(t, alloc, "p-03").Equal(decimal.RequireFromString("33.33")))
	assertConservation(t, alloc)
}

func TestCalculate_RemainderDistribution_Undershoot(t *testing.T) {
	recs := []domain.AccountingRecord{expenseRecord("100", domain.RecordStatusConfirmed)}

	alloc, err := allocation.Calculate(recs, participants(3), nil, allocation.Options{})
	require.NoError(t, err)

	// 100 / 3 rounds to 33.33 each, leaving 0.01 for the first participant.
	assert.True(t, shareOf(t, alloc, "p-01").Equal(decimal.RequireFromString("33.34")))
	assert.True(t, shareOf(t, alloc, "p-02").Equal(decimal.RequireFromString("33.33")))
	assert.True(t, shareOf(t, alloc, "p-03").Equal(decimal.RequireFromString("33.33")))
	assertConservation(t, alloc)
}

func TestCalculate_ReserveDeduction(t *testing.T) {
	recs := []domain.AccountingRecord{
		expenseRecord("500", domain.RecordStatusConfirmed),
		record(domain.RecordTypeReserve, "200", domain.RecordStatusConfirmed),
	}

	alloc, err := allocation.Calculate(recs, participants(2), nil, allocation.Options{IncludeReserve: true})
	require.NoError(t, err)

	assert.True(t, alloc.TotalExpense.Equal(decimal.RequireFromString("500")))
	assert.True(t, alloc.TotalReserve.Equal(decimal.RequireFromString("200")))
	assert.True(t, alloc.NetExpense.Equal(decimal.RequireFromString("300")))
	assert.True(t, shareOf(t, alloc, "p-01").Equal(decimal.RequireFromString("150.00")))
	assertConservation(t, alloc)
}

func TestCalculate_ReserveIgnoredWhenDisabled(t *testing.T) {
	recs := []domain.AccountingRecord{
		expenseRecord("500", domain.RecordStatusConfirmed),
		record(domain.RecordTypeReserve, "200", domain.RecordStatusConfirmed),
	}

	alloc, err := allocation.Calculate(recs, participants(2), nil, allocation.Options{IncludeReserve: false})
	require.NoError(t, err)

	assert.True(t, alloc.NetExpense.Equal(decimal.RequireFromString("500")))
	assert.True(t, alloc.TotalReserve.Equal(decimal.RequireFromString("200")))
}

func TestCalculate_ReserveClampedAtZero(t *testing.T) {
	recs := []domain.AccountingRecord{
		expenseRecord("100", domain.RecordStatusConfirmed),
		record(domain.RecordTypeReserve, "250", domain.RecordStatusConfirmed),
	}

	alloc, err := allocation.Calculate(recs, participants(3), nil, allocation.Options{IncludeReserve: true})
	require.NoError(t, err)

	assert.True(t, alloc.NetExpense.IsZero(), "net expense must clamp to zero, got %s", alloc.NetExpense)
	for _, line := range alloc.Breakdown {
		assert.True(t, line.ShareAmount.IsZero())
	}
}

func TestCalculate_AdjustmentsFoldIntoExpense(t *testing.T) {
	recs := []domain.AccountingRecord{
		expenseRecord("100", domain.RecordStatusConfirmed),
		record(domain.RecordTypeAdjustment, "-40", domain.RecordStatusConfirmed),
		record(domain.RecordTypeAdjustment, "10", domain.RecordStatusConfirmed),
	}

	alloc, err := allocation.Calculate(recs, participants(2), nil, allocation.Options{})
	require.NoError(t, err)

	assert.True(t, alloc.TotalExpense.Equal(decimal.RequireFromString("70")))
	assert.True(t, shareOf(t, alloc, "p-01").Equal(decimal.RequireFromString("35.00")))
	assertConservation(t, alloc)
}

func TestCalculate_StatusFiltering(t *testing.T) {
	recs := []domain.AccountingRecord{
		expenseRecord("100", domain.RecordStatusConfirmed),
		expenseRecord("40", domain.RecordStatusDraft),
		expenseRecord("999", domain.RecordStatusCancelled),
	}

	confirmedOnly, err := allocation.Calculate(recs, participants(2), nil, allocation.Options{})
	require.NoError(t, err)
	assert.True(t, confirmedOnly.TotalExpense.Equal(decimal.RequireFromString("100")))

	withDrafts, err := allocation.Calculate(recs, participants(2), nil, allocation.Options{IncludeUnconfirmed: true})
	require.NoError(t, err)
	assert.True(t, withDrafts.TotalExpense.Equal(decimal.RequireFromString("140")),
		"cancelled records must stay excluded even with unconfirmed included")
}

func TestCalculate_NoEligiblePayers(t *testing.T) {
	recs := []domain.AccountingRecord{expenseRecord("100", domain.RecordStatusConfirmed)}
	settings := []domain.ParticipantSetting{
		setting("p-01", "1", true),
		setting("p-02", "0", false),
	}

	alloc, err := allocation.Calculate(recs, participants(2), settings, allocation.Options{})
	require.ErrorIs(t, err, apperrors.ErrNoEligiblePayers)

	// The allocation still comes back so the organizer can adjust settings.
	assert.Equal(t, 0, alloc.ParticipantCount)
	assert.Len(t, alloc.Breakdown, 2)
	for _, line := range alloc.Breakdown {
		assert.True(t, line.ShareAmount.IsZero())
	}
	assert.True(t, alloc.NetExpense.Equal(decimal.RequireFromString("100")))
}

func TestCalculate_NoPayersNoExpenseIsFine(t *testing.T) {
	settings := []domain.ParticipantSetting{setting("p-01", "0", false)}

	alloc, err := allocation.Calculate(nil, participants(1), settings, allocation.Options{})
	require.NoError(t, err)
	assert.True(t, alloc.NetExpense.IsZero())
}

func TestCalculate_NegativeWeightRejected(t *testing.T) {
	settings := []domain.ParticipantSetting{setting("p-01", "-1", false)}

	_, err := allocation.Calculate(nil, participants(1), settings, allocation.Options{})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCalculate_UnknownParticipantRejected(t *testing.T) {
	settings := []domain.ParticipantSetting{setting("p-99", "1", false)}

	_, err := allocation.Calculate(nil, participants(2), settings, allocation.Options{})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCalculate_PerPersonCostUnweighted(t *testing.T) {
	recs := []domain.AccountingRecord{expenseRecord("90", domain.RecordStatusConfirmed)}
	settings := []domain.ParticipantSetting{setting("p-03", "2", false)}

	alloc, err := allocation.Calculate(recs, participants(3), settings, allocation.Options{})
	require.NoError(t, err)

	// Reference value ignores weights: 90 / 3 eligible.
	assert.True(t, alloc.PerPersonCost.Equal(decimal.RequireFromString("30.00")))
}

func TestCalculate_Deterministic(t *testing.T) {
	recs := []domain.AccountingRecord{
		expenseRecord("123.45", domain.RecordStatusConfirmed),
		record(domain.RecordTypeReserve, "23.45", domain.RecordStatusConfirmed),
	}
	settings := []domain.ParticipantSetting{
		setting("p-01", "1.5", false),
		setting("p-02", "2.5", false),
		setting("p-04", "1", true),
	}
	opts := allocation.Options{IncludeReserve: true}

	first, err := allocation.Calculate(recs, participants(4), settings, opts)
	require.NoError(t, err)
	second, err := allocation.Calculate(recs, participants(4), settings, opts)
	require.NoError(t, err)

	require.Len(t, second.Breakdown, len(first.Breakdown))
	for i := range first.Breakdown {
		assert.Equal(t, first.Breakdown[i].ParticipantID, second.Breakdown[i].ParticipantID)
		assert.True(t, first.Breakdown[i].ShareAmount.Equal(second.Breakdown[i].ShareAmount))
	}
	assertConservation(t, first)
}

func TestCalculate_ConservationOverManyWeightCombos(t *testing.T) {
	recs := []domain.AccountingRecord{expenseRecord("777.77", domain.RecordStatusConfirmed)}
	parts := participants(5)

	weights := []string{"0.5", "1", "1.25", "2", "3.3"}
	for i, w := range weights {
		settings := []domain.ParticipantSetting{
			setting("p-01", w, false),
			setting("p-02", weights[(i+1)%len(weights)], false),
			setting("p-03", weights[(i+2)%len(weights)], i%2 == 0),
			setting("p-04", "0", false),
		}
		alloc, err := allocation.Calculate(recs, parts, settings, allocation.Options{})
		require.NoError(t, err, "weights case %d", i)
		assertConservation(t, alloc)
	}
}
