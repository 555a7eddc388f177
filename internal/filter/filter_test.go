package filter

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/outly-app/outly-go/internal/models"
)

// coordAtKM returns a "lat,lng" string exactly km kilometers due north of
// the origin.
func coordAtKM(km float64) string {
	lat := km / 6371 * 180 / math.Pi
	return fmt.Sprintf("%.12f,0.000000", lat)
}

func mkEvent(id string, eventType models.EventType, date time.Time, coords string) models.Event {
	return models.Event{
		ID:       id,
		Title:    id,
		Type:     eventType,
		Date:     date,
		Location: models.Location{Name: id, Coordinates: coords},
	}
}

func ids(events []models.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func TestByTypePassThroughWhenUnset(t *testing.T) {
	events := []models.Event{
		mkEvent("a", models.EventTypeConcert, time.Now(), ""),
		mkEvent("b", models.EventTypeSports, time.Now(), ""),
	}

	if got := Apply(events, ByType("")); len(got) != 2 {
		t.Errorf("unset type filter kept %d events, want 2", len(got))
	}
	if got := Apply(events, ByType(models.EventTypeSports)); len(got) != 1 || got[0].ID != "b" {
		t.Errorf("type filter kept %v, want [b]", ids(got))
	}
}

func TestByDateBounds(t *testing.T) {
	jan := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)
	mar := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	events := []models.Event{
		mkEvent("jan", models.EventTypeOther, jan, ""),
		mkEvent("feb", models.EventTypeOther, feb, ""),
		mkEvent("mar", models.EventTypeOther, mar, ""),
	}

	tests := []struct {
		name  string
		start *time.Time
		end   *time.Time
		want  []string
	}{
		{"unset passes everything", nil, nil, []string{"jan", "feb", "mar"}},
		{"start only is inclusive lower bound", &feb, nil, []string{"feb", "mar"}},
		{"start and end are inclusive", &jan, &feb, []string{"jan", "feb"}},
		{"exact bound is kept", &feb, &feb, []string{"feb"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(events, ByDate(tt.start, tt.end)))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestByDistanceFailClosed(t *testing.T) {
	device := &Point{Latitude: 0, Longitude: 0}
	events := []models.Event{
		mkEvent("near", models.EventTypeOther, time.Now(), coordAtKM(19.999)),
		mkEvent("far", models.EventTypeOther, time.Now(), coordAtKM(20.001)),
		mkEvent("garbage", models.EventTypeOther, time.Now(), "not-a-coordinate"),
		mkEvent("missing", models.EventTypeOther, time.Now(), ""),
	}

	got := ids(Apply(events, ByDistance(device, 20)))
	if len(got) != 1 || got[0] != "near" {
		t.Errorf("20km filter kept %v, want [near]", got)
	}

	// No device fix excludes everything, radius notwithstanding.
	if got := Apply(events, ByDistance(nil, 20000)); len(got) != 0 {
		t.Errorf("nil device fix kept %d events, want 0", len(got))
	}
}

func TestFilterCompositionOrderIndependent(t *testing.T) {
	device := &Point{Latitude: 0, Longitude: 0}
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	inRange := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	outRange := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)

	events := []models.Event{
		mkEvent("keep", models.EventTypeConcert, inRange, coordAtKM(5)),
		mkEvent("wrong-type", models.EventTypeSports, inRange, coordAtKM(5)),
		mkEvent("wrong-date", models.EventTypeConcert, outRange, coordAtKM(5)),
		mkEvent("too-far", models.EventTypeConcert, inRange, coordAtKM(50)),
		mkEvent("bad-coords", models.EventTypeConcert, inRange, "x"),
	}

	byType := ByType(models.EventTypeConcert)
	byDate := ByDate(&start, &end)
	byDist := ByDistance(device, 20)

	orders := [][]Predicate{
		{byType, byDate, byDist},
		{byDate, byDist, byType},
		{byDist, byType, byDate},
		{byDist, byDate, byType},
	}

	for i, order := range orders {
		got := ids(Apply(events, order...))
		if len(got) != 1 || got[0] != "keep" {
			t.Errorf("order %d kept %v, want [keep]", i, got)
		}
	}
}

func TestDistanceKnownValue(t *testing.T) {
	// Paris to London is roughly 344 km.
	d := Distance(48.8566, 2.3522, 51.5074, -0.1278)
	if math.Abs(d-344) > 5 {
		t.Errorf("Paris-London distance = %v km, want ~344", d)
	}

	if d := Distance(10, 20, 10, 20); d != 0 {
		t.Errorf("zero displacement distance = %v, want 0", d)
	}
}
