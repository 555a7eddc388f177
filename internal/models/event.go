package models

import (
	"strconv"
	"strings"
	"time"
)

// EventType classifies an event for discovery filtering.
type EventType string

const (
	EventTypeConcert    EventType = "concert"
	EventTypeSports     EventType = "sports"
	EventTypeFestival   EventType = "festival"
	EventTypeConference EventType = "conference"
	EventTypeWorkshop   EventType = "workshop"
	EventTypeOther      EventType = "other"
)

// Location is where an event takes place.
//
// Coordinates is kept as the raw "lat,lng" string received from the remote
// service. Some events carry malformed or empty coordinates; parsing is
// deferred to LatLng so the distance filter can fail closed on bad data
// instead of the cache rejecting the row.
type Location struct {
	Name        string
	Address     string
	Coordinates string
}

// LatLng parses Coordinates as "lat,lng" decimal degrees.
// ok is false when the string is empty, malformed, or out of range.
func (l Location) LatLng() (lat, lng float64, ok bool) {
	parts := strings.Split(l.Coordinates, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, false
	}
	return lat, lng, true
}

// Organizer is the event's contact person.
type Organizer struct {
	Name  string
	Phone string
	Email string
}

// TicketType is one priced tier of an event's tickets.
type TicketType struct {
	Name          string
	Price         float64
	TotalQuantity int
	SoldQuantity  int
}

// Available returns the remaining quantity for this tier.
// It is derived, never stored: total minus sold.
func (t TicketType) Available() int {
	return t.TotalQuantity - t.SoldQuantity
}

// Event represents a discoverable event cached from the remote service.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	// Title is the human-readable name of the event.
	Title string

	// Description is the long-form description.
	Description string

	// Type classifies the event for the type filter.
	Type EventType

	// Location is the venue, including the raw coordinate string.
	Location Location

	// Date is when the event takes place.
	Date time.Time

	// Organizer is the contact person for the event.
	Organizer Organizer

	// Capacity is the maximum attendance. Missing on the wire defaults to 0.
	Capacity int

	// Sold is the total tickets sold across all tiers.
	Sold int

	// Amenities lists what the venue provides (e.g., "parking").
	Amenities []string

	// Requirements lists what attendees must bring or satisfy.
	Requirements []string

	// TicketTypes are the priced tiers available for purchase.
	TicketTypes []TicketType

	// Weather is the forecast summary supplied by the remote service.
	Weather string

	// CreatedAt and UpdatedAt are remote-side timestamps.
	CreatedAt time.Time
	UpdatedAt time.Time
}
