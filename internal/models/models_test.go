package models

import (
	"math"
	"testing"
)

func TestLocationLatLng(t *testing.T) {
	tests := []struct {
		name        string
		coordinates string
		wantLat     float64
		wantLng     float64
		wantOK      bool
	}{
		{
			name:        "valid pair",
			coordinates: "47.4979,19.0402",
			wantLat:     47.4979,
			wantLng:     19.0402,
			wantOK:      true,
		},
		{
			name:        "whitespace tolerated",
			coordinates: " 47.4979 , 19.0402 ",
			wantLat:     47.4979,
			wantLng:     19.0402,
			wantOK:      true,
		},
		{
			name:        "negative hemisphere",
			coordinates: "-33.8688,151.2093",
			wantLat:     -33.8688,
			wantLng:     151.2093,
			wantOK:      true,
		},
		{
			name:        "empty",
			coordinates: "",
			wantOK:      false,
		},
		{
			name:        "garbage",
			coordinates: "somewhere nice",
			wantOK:      false,
		},
		{
			name:        "missing longitude",
			coordinates: "47.4979",
			wantOK:      false,
		},
		{
			name:        "too many parts",
			coordinates: "47.4979,19.0402,100",
			wantOK:      false,
		},
		{
			name:        "latitude out of range",
			coordinates: "91.0,19.0402",
			wantOK:      false,
		},
		{
			name:        "longitude out of range",
			coordinates: "47.4979,181.0",
			wantOK:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lng, ok := Location{Coordinates: tt.coordinates}.LatLng()
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if math.Abs(lat-tt.wantLat) > 1e-9 || math.Abs(lng-tt.wantLng) > 1e-9 {
				t.Errorf("got %v,%v, want %v,%v", lat, lng, tt.wantLat, tt.wantLng)
			}
		})
	}
}

func TestTicketTypeAvailable(t *testing.T) {
	tier := TicketType{Name: "general", TotalQuantity: 400, SoldQuantity: 100}
	if got := tier.Available(); got != 300 {
		t.Errorf("Available() = %d, want 300", got)
	}
	soldOut := TicketType{Name: "vip", TotalQuantity: 100, SoldQuantity: 100}
	if got := soldOut.Available(); got != 0 {
		t.Errorf("Available() = %d, want 0", got)
	}
}

func TestOutingTotalSpent(t *testing.T) {
	outing := Outing{
		Activities: []Activity{
			{Amount: 90.0},
			{Amount: 30.5},
		},
	}
	if got := outing.TotalSpent(); math.Abs(got-120.5) > 0.01 {
		t.Errorf("TotalSpent() = %v, want 120.5", got)
	}
	if got := (Outing{}).TotalSpent(); got != 0 {
		t.Errorf("empty outing TotalSpent() = %v, want 0", got)
	}
}

func TestOutingDebtsOwedBy(t *testing.T) {
	outing := Outing{
		Debts: []Debt{
			{ID: "d1", FromUserID: "bob", ToUserID: "alice", Amount: 45},
			{ID: "d2", FromUserID: "carol", ToUserID: "alice", Amount: 30},
			{ID: "d3", FromUserID: "alice", ToUserID: "bob", Amount: 10},
		},
	}

	owed := outing.DebtsOwedBy("bob")
	if len(owed) != 1 || owed[0].ID != "d1" {
		t.Errorf("DebtsOwedBy(bob) = %+v, want [d1]", owed)
	}
	if got := outing.DebtsOwedBy("dave"); len(got) != 0 {
		t.Errorf("DebtsOwedBy(dave) = %+v, want none", got)
	}
}

func TestActivityShare(t *testing.T) {
	activity := Activity{Amount: 90, Participants: []string{"alice", "bob", "carol"}}
	if got := activity.Share(); math.Abs(got-30) > 0.01 {
		t.Errorf("Share() = %v, want 30", got)
	}
	if got := (Activity{Amount: 90}).Share(); got != 0 {
		t.Errorf("Share() with no participants = %v, want 0", got)
	}
}

func TestOutingStatusValid(t *testing.T) {
	for _, status := range []OutingStatus{OutingStatusDraft, OutingStatusInProgress, OutingStatusUnsettled, OutingStatusSettled} {
		if !status.Valid() {
			t.Errorf("%q should be valid", status)
		}
	}
	if OutingStatus("archived").Valid() {
		t.Error("unknown status should be invalid")
	}
}
