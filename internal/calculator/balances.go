package calculator

import (
	"fmt"

	"github.com/outly-app/outly-go/internal/models"
)

// MemberBalance represents the locally recomputed balance for one outing
// participant.
type MemberBalance struct {
	UserID     string
	NetBalance float64 // Positive = owed money, Negative = owes money
	TotalPaid  float64 // Total amount paid across all activities
	TotalOwed  float64 // Total of this person's equal shares
}

// FallbackShare recomputes userID's total share of an outing from its
// activities: the sum of equal per-head shares of every activity the user
// participates in.
//
// This duplicates what the outing's server-computed Debt rows represent.
// Callers wanting the authoritative value should read Outing.DebtsOwedBy;
// this path exists for outings whose debt data has not arrived yet.
func FallbackShare(outing models.Outing, userID string) float64 {
	var share float64
	for _, activity := range outing.Activities {
		for _, p := range activity.Participants {
			if p == userID {
				share += activity.Share()
				break
			}
		}
	}
	return share
}

// OutingBalances recomputes net balances for every participant from the
// outing's activities, credited by debts already marked paid.
//
// Like FallbackShare, this is the locally recomputed ledger path, kept
// distinct from the cached server debts.
func OutingBalances(outing models.Outing) ([]MemberBalance, error) {
	balances := make(map[string]*MemberBalance)

	ensure := func(userID string) *MemberBalance {
		if b, ok := balances[userID]; ok {
			return b
		}
		b := &MemberBalance{UserID: userID}
		balances[userID] = b
		return b
	}

	for _, activity := range outing.Activities {
		shares, err := EqualShares(activity.Amount, activity.Participants)
		if err != nil {
			return nil, fmt.Errorf("failed to split activity %s: %w", activity.ID, err)
		}

		ensure(activity.PayerID).TotalPaid += activity.Amount
		for userID, share := range shares {
			ensure(userID).TotalOwed += share
		}
	}

	// A paid debt moves money from debtor to creditor.
	for _, debt := range outing.Debts {
		if debt.Status != models.DebtStatusPaid {
			continue
		}
		ensure(debt.FromUserID).TotalPaid += debt.Amount
		ensure(debt.ToUserID).TotalOwed += debt.Amount
	}

	result := make([]MemberBalance, 0, len(balances))
	for _, userID := range outing.Participants {
		b, ok := balances[userID]
		if !ok {
			b = &MemberBalance{UserID: userID}
		}
		b.NetBalance = b.TotalPaid - b.TotalOwed
		result = append(result, *b)
	}
	return result, nil
}
