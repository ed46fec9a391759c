package claims

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Claim is one delivery order as returned by the claims search endpoint.
// Pointer and slice fields are optional in the upstream payload.
type Claim struct {
	ID               string         `json:"id"`
	Status           string         `json:"status"`
	CreatedTS        string         `json:"created_ts"`
	UpdatedTS        string         `json:"updated_ts"`
	RoutePoints      []RoutePoint   `json:"route_points"`
	PerformerInfo    *PerformerInfo `json:"performer_info,omitempty"`
	SameDayData      *SameDayData   `json:"same_day_data,omitempty"`
	RouteID          *string        `json:"route_id,omitempty"`
	AutocancelReason *string        `json:"autocancel_reason,omitempty"`
	Items            []Item         `json:"items,omitempty"`
}

// RoutePoint is one stop of the itinerary. Index 0 is the pickup, index 1 the drop-off.
type RoutePoint struct {
	ID              FlexString `json:"id"`
	Type            string     `json:"type,omitempty"`
	ExternalOrderID FlexString `json:"external_order_id"`
	Address         Address    `json:"address"`
	Contact         Contact    `json:"contact"`
	ReturnReasons   []string   `json:"return_reasons,omitempty"`
	ReturnComment   *string    `json:"return_comment,omitempty"`
}

type Address struct {
	Fullname string `json:"fullname"`
	// Coordinates are [longitude, latitude].
	Coordinates []float64 `json:"coordinates"`
}

// LatLon splits the upstream [lon, lat] pair.
func (a Address) LatLon() (lat, lon float64, ok bool) {
	if len(a.Coordinates) < 2 {
		return 0, 0, false
	}
	return a.Coordinates[1], a.Coordinates[0], true
}

type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type PerformerInfo struct {
	CourierName string `json:"courier_name"`
	LegalName   string `json:"legal_name"`
}

type SameDayData struct {
	DeliveryInterval *DeliveryInterval `json:"delivery_interval,omitempty"`
}

type DeliveryInterval struct {
	From *string `json:"from,omitempty"`
	To   *string `json:"to,omitempty"`
}

// Item is one line of the order. Only the cost is read; other upstream
// fields are ignored so their shape cannot reject the claim.
type Item struct {
	Title     string    `json:"title,omitempty"`
	CostValue LaxString `json:"cost_value"`
}

// FlexString accepts JSON strings and numbers; null decodes to the empty value.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("flex string: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Empty reports whether the upstream omitted the value.
func (f FlexString) Empty() bool {
	return f == ""
}

// LaxString decodes like FlexString but never fails: objects, arrays and
// booleans decode to the empty value.
type LaxString string

func (l *LaxString) UnmarshalJSON(data []byte) error {
	var f FlexString
	if err := f.UnmarshalJSON(data); err != nil {
		*l = ""
		return nil
	}
	*l = LaxString(f)
	return nil
}

func (l LaxString) String() string {
	return string(l)
}
