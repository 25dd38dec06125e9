package allocation

import (
	"fmt"
	"sort"

	"github.com/SscSPs/activity_settlement_app/internal/apperrors"
	"github.com/SscSPs/activity_settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// minorUnit is the smallest currency step shares are rounded to.
var minorUnit = decimal.New(1, -2) // 0.01

// Options toggles which records feed an allocation run.
type Options struct {
	// IncludeReserve deducts confirmed reserve contributions from the gross
	// expense before splitting.
	IncludeReserve bool
	// IncludeUnconfirmed lets draft records contribute alongside confirmed
	// ones. Cancelled records are excluded regardless.
	IncludeUnconfirmed bool
}

// Calculate splits the net expense of an activity across its approved
// participants according to their weights and exemptions. It is pure and
// deterministic: identical inputs produce identical output.
//
// Settings are matched to participants by ID; participants without a setting
// default to weight 1, not exempt. A negative weight or a setting referencing
// an unknown participant fails with apperrors.ErrValidation.
//
// When there is a net expense but no participant can carry a share (all
// exempt or zero weight), the allocation is still returned, alongside
// apperrors.ErrNoEligiblePayers so the caller can warn instead of block.
func Calculate(records []domain.AccountingRecord, participants []domain.Participant, settings []domain.ParticipantSetting, opts Options) (domain.Allocation, error) {
	settingByID, err := resolveSettings(participants, settings)
	if err != nil {
		return domain.Allocation{}, err
	}

	totalExpense, totalReserve := sumRecords(records, opts.IncludeUnconfirmed)

	netExpense := totalExpense
	if opts.IncludeReserve {
		netExpense = netExpense.Sub(totalReserve)
	}
	// Reserve exceeding expense (or adjustments driving the total negative)
	// never produces a negative liability.
	if netExpense.IsNegative() {
		netExpense = decimal.Zero
	}
	// Shares are expressed in minor units, so the amount being conserved must
	// be too. Record amounts are validated to two decimals at ingestion; this
	// keeps the remainder loop terminating even for imported data that isn't.
	netExpense = netExpense.Round(2)

	// Deterministic breakdown order: ascending participant ID. This is also
	// the order rounding remainders are distributed in.
	ordered := make([]domain.Participant, len(participants))
	copy(ordered, participants)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].ParticipantID < ordered[j].ParticipantID
	})

	weightSum := decimal.Zero
	eligibleCount := 0
	for _, p := range ordered {
		s := settingByID[p.ParticipantID]
		if !s.IsExempt && s.Weight.IsPositive() {
			weightSum = weightSum.Add(s.Weight)
			eligibleCount++
		}
	}

	alloc := domain.Allocation{
		TotalExpense:     totalExpense,
		TotalReserve:     totalReserve,
		NetExpense:       netExpense,
		ParticipantCount: eligibleCount,
		Breakdown:        make([]domain.AllocationLine, 0, len(ordered)),
	}

	divisor := int64(eligibleCount)
	if divisor == 0 {
		divisor = 1
	}
	alloc.PerPersonCost = netExpense.DivRound(decimal.NewFromInt(divisor), 2)

	roundedSum := decimal.Zero
	for _, p := range ordered {
		s := settingByID[p.ParticipantID]
		line := domain.AllocationLine{
			ParticipantID:   p.ParticipantID,
			ParticipantName: p.DisplayName,
			Weight:          s.Weight,
			ShareAmount:     decimal.Zero,
			IsExempt:        s.IsExempt,
		}
		if !s.IsExempt && s.Weight.IsPositive() && weightSum.IsPositive() {
			// Round half-up to the minor unit; the drift against the exact
			// quotient is settled by the remainder pass below.
			line.ShareAmount = netExpense.Mul(s.Weight).DivRound(weightSum, 2)
			roundedSum = roundedSum.Add(line.ShareAmount)
		}
		alloc.Breakdown = append(alloc.Breakdown, line)
	}

	if eligibleCount == 0 {
		if netExpense.IsPositive() {
			return alloc, apperrors.ErrNoEligiblePayers
		}
		return alloc, nil
	}

	distributeRemainder(alloc.Breakdown, netExpense.Sub(roundedSum))
	return alloc, nil
}

// sumRecords totals expense (with signed adjustments folded in) and reserve
// amounts over the records admitted by the status filter.
func sumRecords(records []domain.AccountingRecord, includeUnconfirmed bool) (totalExpense, totalReserve decimal.Decimal) {
	totalExpense = decimal.Zero
	totalReserve = decimal.Zero
	for _, r := range records {
		switch r.Status {
		case domain.RecordStatusConfirmed:
		case domain.RecordStatusDraft:
			if !includeUnconfirmed {
				continue
			}
		default: // cancelled (and anything unrecognized) never counts
			continue
		}

		switch r.RecordType {
		case domain.RecordTypeExpense, domain.RecordTypeAdjustment:
			totalExpense = totalExpense.Add(r.Amount)
		case domain.RecordTypeReserve:
			totalReserve = totalReserve.Add(r.Amount)
		}
	}
	return totalExpense, totalReserve
}

// resolveSettings validates the supplied settings and returns one effective
// setting per participant, applying the weight-1, non-exempt default.
func resolveSettings(participants []domain.Participant, settings []domain.ParticipantSetting) (map[string]domain.ParticipantSetting, error) {
	known := make(map[string]bool, len(participants))
	for _, p := range participants {
		known[p.ParticipantID] = true
	}

	resolved := make(map[string]domain.ParticipantSetting, len(participants))
	for _, s := range settings {
		if !known[s.ParticipantID] {
			return nil, fmt.Errorf("%w: participant_settings references unknown participant %s", apperrors.ErrValidation, s.ParticipantID)
		}
		if s.Weight.IsNegative() {
			return nil, fmt.Errorf("%w: weight must not be negative for participant %s", apperrors.ErrValidation, s.ParticipantID)
		}
		resolved[s.ParticipantID] = s
	}
	for _, p := range participants {
		if _, ok := resolved[p.ParticipantID]; !ok {
			resolved[p.ParticipantID] = domain.ParticipantSetting{
				ParticipantID: p.ParticipantID,
				Weight:        decimal.NewFromInt(1),
			}
		}
	}
	return resolved, nil
}

// distributeRemainder settles the gap between the net expense and the sum of
// rounded shares, one minor unit at a time over the eligible lines. Breakdown
// is already sorted by participant ID: shortfall cents are handed out from the
// first eligible participant onward, overshoot cents are taken back from the
// last one backward, so the distribution is stable across runs.
func distributeRemainder(breakdown []domain.AllocationLine, remainder decimal.Decimal) {
	if remainder.IsZero() {
		return
	}
	eligible := make([]*domain.AllocationLine, 0, len(breakdown))
	for i := range breakdown {
		if line := &breakdown[i]; !line.IsExempt && line.Weight.IsPositive() {
			eligible = append(eligible, line)
		}
	}

	step := minorUnit
	next := func(i int) int { return (i + 1) % len(eligible) }
	i := 0
	if remainder.IsNegative() {
		step = minorUnit.Neg()
		next = func(i int) int { return ((i - 1) + len(eligible)) % len(eligible) }
		i = len(eligible) - 1
	}
	for ; !remainder.IsZero(); i = next(i) {
		eligible[i].ShareAmount = eligible[i].ShareAmount.Add(step)
		remainder = remainder.Sub(step)
	}
}
