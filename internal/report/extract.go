package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/routes-report/pkg/claims"
	"github.com/angelmondragon/routes-report/pkg/enums"
)

const (
	dayLayout    = "2006-01-02"
	cutoffLayout = "2006-01-02 15:04"

	pickupPoint  = 0
	dropoffPoint = 1
)

// SkipReason explains why a claim produced no row. The empty value means kept.
type SkipReason string

const (
	SkipNone            SkipReason = ""
	SkipNoInterval      SkipReason = "no_delivery_interval"
	SkipOtherDay        SkipReason = "other_day"
	SkipMissingPoints   SkipReason = "missing_route_points"
	SkipInvalidInterval SkipReason = "invalid_delivery_interval"
)

// Extract projects a claim onto a report row. Claims without a same-day
// delivery interval are skipped; when targetDay is set, so are claims whose
// interval starts on another day in the client's zone.
func Extract(claim claims.Claim, loc *time.Location, targetDay string) (Row, SkipReason) {
	rawFrom, ok := intervalStart(claim)
	if !ok {
		return Row{}, SkipNoInterval
	}
	start, err := time.Parse(time.RFC3339, rawFrom)
	if err != nil {
		return Row{}, SkipInvalidInterval
	}
	if loc != nil {
		start = start.In(loc)
	}
	day := start.Format(dayLayout)
	if targetDay != "" && day != targetDay {
		return Row{}, SkipOtherDay
	}
	if len(claim.RoutePoints) <= dropoffPoint {
		return Row{}, SkipMissingPoints
	}

	pickup := claim.RoutePoints[pickupPoint]
	dropoff := claim.RoutePoints[dropoffPoint]

	courierName, courierPark, hasCourier := courier(claim)
	returnReason, hasReason := returnReasons(dropoff)
	returnComment, hasComment := returnComment(dropoff)
	cancelReason, hasCancel := optionalString(claim.AutocancelReason)
	route, hasRoute := optionalString(claim.RouteID)

	lat, lon, located := dropoff.Address.LatLon()
	storeLat, storeLon, storeLocated := pickup.Address.LatLon()

	return Row{
		Date:            day,
		Cutoff:          start.Format(cutoffLayout),
		ClientID:        dropoff.ExternalOrderID.String(),
		ClaimID:         claim.ID,
		PointID:         dropoff.ID.String(),
		PickupAddress:   pickup.Address.Fullname,
		ReceiverAddress: dropoff.Address.Fullname,
		ReceiverPhone:   dropoff.Contact.Phone,
		ReceiverName:    dropoff.Contact.Name,
		Status:          enums.ClaimStatus(claim.Status),
		StatusTime:      claim.UpdatedTS,
		StoreName:       pickup.Contact.Name,
		CourierName:     orDefault(courierName, hasCourier, NoCourier),
		CourierPark:     orDefault(courierPark, hasCourier, NoCourier),
		ReturnReason:    orDefault(returnReason, hasReason, NoReturnReason),
		ReturnComment:   orDefault(returnComment, hasComment, NoReturnComment),
		CancelReason:    orDefault(cancelReason, hasCancel, NoCancelReason),
		RouteID:         orDefault(route, hasRoute, NoRoute),
		Lat:             lat,
		Lon:             lon,
		StoreLat:        storeLat,
		StoreLon:        storeLon,
		Located:         located,
		StoreLocated:    storeLocated,
		PriceOfGoods:    priceOfGoods(claim.Items),
	}, SkipNone
}

func intervalStart(claim claims.Claim) (string, bool) {
	if claim.SameDayData == nil || claim.SameDayData.DeliveryInterval == nil {
		return "", false
	}
	return optionalString(claim.SameDayData.DeliveryInterval.From)
}

func courier(claim claims.Claim) (name, park string, ok bool) {
	if claim.PerformerInfo == nil {
		return "", "", false
	}
	return claim.PerformerInfo.CourierName, claim.PerformerInfo.LegalName, true
}

func returnReasons(point claims.RoutePoint) (string, bool) {
	reasons := make([]string, 0, len(point.ReturnReasons))
	for _, reason := range point.ReturnReasons {
		if trimmed := strings.TrimSpace(reason); trimmed != "" {
			reasons = append(reasons, trimmed)
		}
	}
	if len(reasons) == 0 {
		return "", false
	}
	return strings.Join(reasons, ", "), true
}

func returnComment(point claims.RoutePoint) (string, bool) {
	return optionalString(point.ReturnComment)
}

// optionalString treats nil and blank values as absent.
func optionalString(value *string) (string, bool) {
	if value == nil {
		return "", false
	}
	trimmed := strings.TrimSpace(*value)
	return trimmed, trimmed != ""
}

func orDefault(value string, ok bool, fallback string) string {
	if !ok {
		return fallback
	}
	return value
}

// priceOfGoods sums item cost values; unparsable costs count as zero.
func priceOfGoods(items []claims.Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		cost, err := decimal.NewFromString(strings.TrimSpace(item.CostValue.String()))
		if err != nil {
			continue
		}
		total = total.Add(cost)
	}
	return total
}
