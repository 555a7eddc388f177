// Package filter evaluates discovery filters over the already-fetched event
// collection. Filters are pure predicates composed with logical AND; they are
// order-independent and are never translated into remote query parameters.
package filter

import (
	"time"

	"github.com/outly-app/outly-go/internal/models"
)

// Predicate keeps or drops a single cached event.
type Predicate func(models.Event) bool

// Point is a device location fix in decimal degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Apply returns the events passing every predicate, preserving order.
func Apply(events []models.Event, predicates ...Predicate) []models.Event {
	var filtered []models.Event
	for _, event := range events {
		keep := true
		for _, p := range predicates {
			if !p(event) {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// ByType matches the event type exactly. An empty type passes everything.
func ByType(eventType models.EventType) Predicate {
	return func(e models.Event) bool {
		if eventType == "" {
			return true
		}
		return e.Type == eventType
	}
}

// ByDate keeps events with date >= start when only start is set, and within
// the inclusive range [start, end] when both are set. Nil bounds pass
// everything.
func ByDate(start, end *time.Time) Predicate {
	return func(e models.Event) bool {
		if start != nil && e.Date.Before(*start) {
			return false
		}
		if end != nil && e.Date.After(*end) {
			return false
		}
		return true
	}
}

// ByDistance keeps events within radiusKM kilometers of the device location.
// Fail closed: a nil device fix excludes everything, and an event whose
// coordinates do not parse is excluded regardless of radius.
func ByDistance(device *Point, radiusKM float64) Predicate {
	return func(e models.Event) bool {
		if device == nil {
			return false
		}
		lat, lng, ok := e.Location.LatLng()
		if !ok {
			return false
		}
		return Distance(device.Latitude, device.Longitude, lat, lng) <= radiusKM
	}
}
