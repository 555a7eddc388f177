package models

import "time"

// OutingStatus tracks an outing through its settlement lifecycle.
type OutingStatus string

const (
	OutingStatusDraft      OutingStatus = "draft"
	OutingStatusInProgress OutingStatus = "in_progress"
	OutingStatusUnsettled  OutingStatus = "unsettled"
	OutingStatusSettled    OutingStatus = "settled"
)

// Valid reports whether s is one of the known outing statuses.
func (s OutingStatus) Valid() bool {
	switch s {
	case OutingStatusDraft, OutingStatusInProgress, OutingStatusUnsettled, OutingStatusSettled:
		return true
	}
	return false
}

// DebtStatus is the settlement state of a single debt.
type DebtStatus string

const (
	DebtStatusPending DebtStatus = "pending"
	DebtStatusPaid    DebtStatus = "paid"
)

// Outing represents a group outing: a set of participants, the expense
// activities they logged, the events they linked, and the debts the server
// computed from those activities.
type Outing struct {
	// ID is the unique identifier for the outing (UUID format).
	ID string

	// Title is the display name (e.g., "Ski weekend").
	Title string

	// Description is an optional longer description.
	Description string

	// OwnerID is the user who created the outing.
	OwnerID string

	// Participants are the user IDs taking part.
	Participants []string

	// Activities are the expense entries logged against this outing.
	Activities []Activity

	// EventIDs are events linked to this outing.
	EventIDs []string

	// Debts are the server-computed obligations between participants.
	// They are cached authoritative state, not locally recomputed.
	Debts []Debt

	// Status is the settlement lifecycle state.
	Status OutingStatus

	// CreatedAt and UpdatedAt are remote-side timestamps.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalSpent sums the amounts of all activities on the outing.
func (o Outing) TotalSpent() float64 {
	var total float64
	for _, a := range o.Activities {
		total += a.Amount
	}
	return total
}

// DebtsOwedBy returns the cached server debts where userID is the debtor.
// This is the authoritative path for "what do I owe"; see
// calculator.FallbackShare for the locally recomputed alternative.
func (o Outing) DebtsOwedBy(userID string) []Debt {
	var owed []Debt
	for _, d := range o.Debts {
		if d.FromUserID == userID {
			owed = append(owed, d)
		}
	}
	return owed
}

// Activity represents a single expense paid by one participant and split
// equally among its participant set.
type Activity struct {
	// ID is the unique identifier for the activity (UUID format).
	ID string

	// Title is the short label (e.g., "Dinner").
	Title string

	// Description is an optional longer description.
	Description string

	// Amount is the full amount paid, split equally among Participants.
	Amount float64

	// PayerID is the user who paid.
	PayerID string

	// Participants are the user IDs sharing the cost. Never empty.
	Participants []string

	// References are opaque links (receipt images, linked event IDs).
	References []string

	// CreatedAt and UpdatedAt are remote-side timestamps.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Share returns the equal per-participant share of the activity amount.
// An empty participant set yields 0; the remote service rejects such
// activities at creation time.
func (a Activity) Share() float64 {
	if len(a.Participants) == 0 {
		return 0
	}
	return a.Amount / float64(len(a.Participants))
}

// Debt represents a server-computed obligation between two outing participants.
type Debt struct {
	// ID is the unique identifier for the debt (UUID format).
	ID string

	// FromUserID is the debtor.
	FromUserID string

	// ToUserID is the creditor.
	ToUserID string

	// Amount is the amount owed.
	Amount float64

	// Status is pending until marked paid.
	Status DebtStatus
}
