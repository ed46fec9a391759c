package report

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/routes-report/pkg/enums"
)

// Placeholders substituted for optional claim attributes.
const (
	NoCourier       = "No courier yet"
	NoReturnReason  = "No return reasons"
	NoReturnComment = "No return comments"
	NoCancelReason  = "No cancel reasons"
	NoRoute         = "No route"
)

// Proof and cash annotation values.
const (
	NotApplicable   = "-"
	ProofProvided   = "Proof provided"
	ProofMissing    = "No proof"
	Prepaid         = "Prepaid"
	DepositVerified = "Deposit verified"
	DepositMissing  = "Not verified"
	NoLink          = "No link"
)

// Row is the flat projection of one claim. Rows are values: annotators return
// a new Row instead of mutating the input.
type Row struct {
	Date            string            `json:"date"`
	Cutoff          string            `json:"cutoff"`
	ClientID        string            `json:"client_id"`
	ClaimID         string            `json:"claim_id"`
	PointID         string            `json:"point_id"`
	PickupAddress   string            `json:"pickup_address"`
	ReceiverAddress string            `json:"receiver_address"`
	ReceiverPhone   string            `json:"receiver_phone"`
	ReceiverName    string            `json:"receiver_name"`
	Status          enums.ClaimStatus `json:"status"`
	StatusTime      string            `json:"status_time"`
	StoreName       string            `json:"store_name"`
	CourierName     string            `json:"courier_name"`
	CourierPark     string            `json:"courier_park"`
	ReturnReason    string            `json:"return_reason"`
	ReturnComment   string            `json:"return_comment"`
	CancelReason    string            `json:"autocancel_reason"`
	RouteID         string            `json:"route_id"`
	Lat             float64           `json:"lat"`
	Lon             float64           `json:"lon"`
	StoreLat        float64           `json:"store_lat"`
	StoreLon        float64           `json:"store_lon"`
	Located         bool              `json:"located"`
	StoreLocated    bool              `json:"store_located"`
	PriceOfGoods    decimal.Decimal   `json:"price_of_goods"`
	Proof           string            `json:"proof"`
	CashCollected   string            `json:"cash_collected,omitempty"`
	ProofLink       string            `json:"prooflink,omitempty"`
	DistanceKM      *float64          `json:"distance_km"`
}

// Distance returns the drop-off to pickup distance when both points are located.
func (r Row) Distance() (float64, bool) {
	if r.DistanceKM == nil {
		return 0, false
	}
	return *r.DistanceKM, true
}

// Delivered reports whether the row is in a delivered state.
func (r Row) Delivered() bool {
	return r.Status.IsDelivered()
}
