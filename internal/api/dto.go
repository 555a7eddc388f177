package api

import "time"

// Wire DTOs, decoded exactly as the remote service sends them. Conversion to
// cache entities (including defaulting of absent optional fields) happens in
// the sync package, once per fetch cycle.

// IdentityDTO is the account record returned by login, signup, and /me.
type IdentityDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// SessionDTO is the login/signup response: the account plus its token.
type SessionDTO struct {
	Token string      `json:"token"`
	User  IdentityDTO `json:"user"`
}

// LocationDTO is an event venue on the wire. Coordinates is a "lat,lng"
// string and may be empty or malformed.
type LocationDTO struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Coordinates string `json:"coordinates"`
}

// OrganizerDTO is the event contact on the wire.
type OrganizerDTO struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// TicketTypeDTO is one ticket tier on the wire.
type TicketTypeDTO struct {
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	TotalQuantity int     `json:"total_quantity"`
	SoldQuantity  int     `json:"sold_quantity"`
}

// EventDTO is a discoverable event on the wire. Capacity is optional;
// a missing value defaults to 0 during conversion.
type EventDTO struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Type         string          `json:"type"`
	Location     LocationDTO     `json:"location"`
	Date         time.Time       `json:"date"`
	Organizer    OrganizerDTO    `json:"organizer"`
	Capacity     *int            `json:"capacity"`
	Sold         int             `json:"sold"`
	Amenities    []string        `json:"amenities"`
	Requirements []string        `json:"requirements"`
	TicketTypes  []TicketTypeDTO `json:"ticket_types"`
	Weather      string          `json:"weather"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ActivityDTO is an expense entry on the wire.
type ActivityDTO struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Amount       float64   `json:"amount"`
	PayerID      string    `json:"payer_id"`
	Participants []string  `json:"participants"`
	References   []string  `json:"references"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DebtDTO is a server-computed debt on the wire.
type DebtDTO struct {
	ID         string  `json:"id"`
	FromUserID string  `json:"from_user_id"`
	ToUserID   string  `json:"to_user_id"`
	Amount     float64 `json:"amount"`
	Status     string  `json:"status"`
}

// OutingDTO is a group outing on the wire.
type OutingDTO struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	OwnerID      string        `json:"owner_id"`
	Participants []string      `json:"participants"`
	Activities   []ActivityDTO `json:"activities"`
	EventIDs     []string      `json:"event_ids"`
	Debts        []DebtDTO     `json:"debts"`
	Status       string        `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NotificationDTO is an in-app notification on the wire.
type NotificationDTO struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	ReferenceID string     `json:"reference_id"`
	SentAt      time.Time  `json:"sent_at"`
	ReadAt      *time.Time `json:"read_at"`
}
