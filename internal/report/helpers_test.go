package report

import (
	"testing"
	"time"

	"github.com/angelmondragon/routes-report/pkg/claims"
)

const testZone = "America/Mexico_City"

func strPtr(s string) *string {
	return &s
}

func kmPtr(v float64) *float64 {
	return &v
}

func mustLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(testZone)
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

// newClaim returns a claim with a pickup and a drop-off whose delivery
// interval starts at the given RFC3339 instant.
func newClaim(id, status, orderID, intervalFrom string) claims.Claim {
	claim := claims.Claim{
		ID:        id,
		Status:    status,
		UpdatedTS: "2024-03-07T18:00:00+00:00",
		RoutePoints: []claims.RoutePoint{
			{
				ID:      claims.FlexString("p-" + id),
				Type:    "source",
				Address: claims.Address{Fullname: "Warehouse 1", Coordinates: []float64{-99.1332, 19.4326}},
				Contact: claims.Contact{Name: "Main Store", Phone: "+520000000000"},
			},
			{
				ID:              claims.FlexString("d-" + id),
				Type:            "destination",
				ExternalOrderID: claims.FlexString(orderID),
				Address:         claims.Address{Fullname: "Customer street 5", Coordinates: []float64{-99.1632, 19.4126}},
				Contact:         claims.Contact{Name: "Jane Doe", Phone: "+521111111111"},
			},
		},
		Items: []claims.Item{{Title: "box", CostValue: "250.00"}},
	}
	if intervalFrom != "" {
		claim.SameDayData = &claims.SameDayData{
			DeliveryInterval: &claims.DeliveryInterval{From: strPtr(intervalFrom)},
		}
	}
	return claim
}
