// Package calculator implements the expense arithmetic for outings.
//
// Two share-computation paths coexist on purpose. EqualShares is the
// arithmetic behind an activity's per-head share. FallbackShare recomputes
// "your share" from an outing's totals, duplicating what the server-computed
// Debt rows already represent. Whether the fallback is an intentional
// fallback for missing debt data or a leftover duplicate path is pending
// product clarification; until then both stay, clearly named, and are never
// merged. See DESIGN.md.
package calculator

import "fmt"

// EqualShares splits amount equally across participants.
// Each participant's share is amount / len(participants); the shares sum to
// amount. Weighted splits do not exist in this core.
func EqualShares(amount float64, participants []string) (map[string]float64, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}
	if amount < 0 {
		return nil, fmt.Errorf("amount cannot be negative")
	}

	perPerson := amount / float64(len(participants))
	shares := make(map[string]float64, len(participants))
	for _, p := range participants {
		shares[p] = perPerson
	}
	return shares, nil
}
