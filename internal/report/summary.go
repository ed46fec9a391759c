package report

import (
	"fmt"
	"math"
	"sort"

	"github.com/angelmondragon/routes-report/pkg/enums"
)

const rateUndefined = "--"

// DefaultUntakenExcluded are the statuses ignored when counting untaken routes.
var DefaultUntakenExcluded = []enums.ClaimStatus{
	enums.ClaimStatusCancelled,
	enums.ClaimStatusPerformerNotFound,
	enums.ClaimStatusFailed,
}

// SummaryPolicy tunes the aggregation.
type SummaryPolicy struct {
	UntakenExcluded []enums.ClaimStatus
}

// NewSummaryPolicy parses configured status names; an empty list keeps the defaults.
func NewSummaryPolicy(statuses []string) (SummaryPolicy, error) {
	if len(statuses) == 0 {
		return SummaryPolicy{UntakenExcluded: DefaultUntakenExcluded}, nil
	}
	parsed := make([]enums.ClaimStatus, 0, len(statuses))
	for _, raw := range statuses {
		status, err := enums.ParseClaimStatus(raw)
		if err != nil {
			return SummaryPolicy{}, err
		}
		parsed = append(parsed, status)
	}
	return SummaryPolicy{UntakenExcluded: parsed}, nil
}

func (p SummaryPolicy) excluded() map[enums.ClaimStatus]struct{} {
	statuses := p.UntakenExcluded
	if statuses == nil {
		statuses = DefaultUntakenExcluded
	}
	set := make(map[enums.ClaimStatus]struct{}, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return set
}

// UntakenRoute is a route with no courier assigned, with the number of
// distinct pickup addresses it covers.
type UntakenRoute struct {
	RouteID   string `json:"route_id"`
	StoreName string `json:"store_name"`
	Pickups   int    `json:"pickups"`
}

type Summary struct {
	TotalRows        int            `json:"total_rows"`
	RoutesNotTaken   int            `json:"routes_not_taken"`
	PODProvisionRate string         `json:"pod_provision_rate"`
	DeliveredCount   int            `json:"delivered_count"`
	UntakenRoutes    []UntakenRoute `json:"untaken_routes"`
}

type routeGroup struct {
	courier string
	route   string
	store   string
}

// Aggregate derives the headline metrics of a row set.
func Aggregate(rows []Row, policy SummaryPolicy) Summary {
	excluded := policy.excluded()

	pickups := make(map[routeGroup]map[string]struct{})
	delivered, provided := 0, 0
	for _, row := range rows {
		if row.Delivered() {
			delivered++
		}
		if row.Proof == ProofProvided {
			provided++
		}
		if _, skip := excluded[row.Status]; skip {
			continue
		}
		key := routeGroup{courier: row.CourierName, route: row.RouteID, store: row.StoreName}
		if pickups[key] == nil {
			pickups[key] = make(map[string]struct{})
		}
		pickups[key][row.PickupAddress] = struct{}{}
	}

	untaken := make([]UntakenRoute, 0)
	for key, addrs := range pickups {
		if key.courier != NoCourier || key.route == NoRoute {
			continue
		}
		untaken = append(untaken, UntakenRoute{RouteID: key.route, StoreName: key.store, Pickups: len(addrs)})
	}
	sort.Slice(untaken, func(i, j int) bool {
		if untaken[i].StoreName != untaken[j].StoreName {
			return untaken[i].StoreName < untaken[j].StoreName
		}
		return untaken[i].RouteID < untaken[j].RouteID
	})

	return Summary{
		TotalRows:        len(rows),
		RoutesNotTaken:   len(untaken),
		PODProvisionRate: provisionRate(provided, delivered),
		DeliveredCount:   delivered,
		UntakenRoutes:    untaken,
	}
}

func provisionRate(provided, delivered int) string {
	if delivered == 0 {
		return rateUndefined
	}
	pct := math.Round(float64(provided) / float64(delivered) * 100)
	return fmt.Sprintf("%d%%", int(pct))
}
