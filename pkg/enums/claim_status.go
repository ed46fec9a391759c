package enums

import (
	"fmt"
	"strings"
)

// ClaimStatus is the lifecycle state reported by the claims API.
type ClaimStatus string

const (
	ClaimStatusNew                        ClaimStatus = "new"
	ClaimStatusEstimating                 ClaimStatus = "estimating"
	ClaimStatusEstimatingFailed           ClaimStatus = "estimating_failed"
	ClaimStatusReadyForApproval           ClaimStatus = "ready_for_approval"
	ClaimStatusAccepted                   ClaimStatus = "accepted"
	ClaimStatusPerformerLookup            ClaimStatus = "performer_lookup"
	ClaimStatusPerformerDraft             ClaimStatus = "performer_draft"
	ClaimStatusPerformerFound             ClaimStatus = "performer_found"
	ClaimStatusPerformerNotFound          ClaimStatus = "performer_not_found"
	ClaimStatusPickupArrived              ClaimStatus = "pickup_arrived"
	ClaimStatusReadyForPickupConfirmation ClaimStatus = "ready_for_pickup_confirmation"
	ClaimStatusPickuped                   ClaimStatus = "pickuped"
	ClaimStatusDeliveryArrived            ClaimStatus = "delivery_arrived"
	ClaimStatusReadyForDeliveryConfirm    ClaimStatus = "ready_for_delivery_confirmation"
	ClaimStatusDelivered                  ClaimStatus = "delivered"
	ClaimStatusDeliveredFinish            ClaimStatus = "delivered_finish"
	ClaimStatusReturning                  ClaimStatus = "returning"
	ClaimStatusReturnArrived              ClaimStatus = "return_arrived"
	ClaimStatusReadyForReturnConfirm      ClaimStatus = "ready_for_return_confirmation"
	ClaimStatusReturned                   ClaimStatus = "returned"
	ClaimStatusReturnedFinish             ClaimStatus = "returned_finish"
	ClaimStatusCancelled                  ClaimStatus = "cancelled"
	ClaimStatusCancelledWithPayment       ClaimStatus = "cancelled_with_payment"
	ClaimStatusCancelledByTaxi            ClaimStatus = "cancelled_by_taxi"
	ClaimStatusCancelledWithItemsOnHands  ClaimStatus = "cancelled_with_items_on_hands"
	ClaimStatusFailed                     ClaimStatus = "failed"
)

var validClaimStatuses = []ClaimStatus{
	ClaimStatusNew,
	ClaimStatusEstimating,
	ClaimStatusEstimatingFailed,
	ClaimStatusReadyForApproval,
	ClaimStatusAccepted,
	ClaimStatusPerformerLookup,
	ClaimStatusPerformerDraft,
	ClaimStatusPerformerFound,
	ClaimStatusPerformerNotFound,
	ClaimStatusPickupArrived,
	ClaimStatusReadyForPickupConfirmation,
	ClaimStatusPickuped,
	ClaimStatusDeliveryArrived,
	ClaimStatusReadyForDeliveryConfirm,
	ClaimStatusDelivered,
	ClaimStatusDeliveredFinish,
	ClaimStatusReturning,
	ClaimStatusReturnArrived,
	ClaimStatusReadyForReturnConfirm,
	ClaimStatusReturned,
	ClaimStatusReturnedFinish,
	ClaimStatusCancelled,
	ClaimStatusCancelledWithPayment,
	ClaimStatusCancelledByTaxi,
	ClaimStatusCancelledWithItemsOnHands,
	ClaimStatusFailed,
}

// String implements fmt.Stringer.
func (s ClaimStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ClaimStatus.
func (s ClaimStatus) IsValid() bool {
	for _, candidate := range validClaimStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsDelivered reports whether the claim reached the drop-off and was handed over.
func (s ClaimStatus) IsDelivered() bool {
	return s == ClaimStatusDelivered || s == ClaimStatusDeliveredFinish
}

// IsCancelled covers every cancelled_* variant.
func (s ClaimStatus) IsCancelled() bool {
	return strings.HasPrefix(string(s), string(ClaimStatusCancelled))
}

// ClaimStatuses returns the known statuses in lifecycle order.
func ClaimStatuses() []ClaimStatus {
	out := make([]ClaimStatus, len(validClaimStatuses))
	copy(out, validClaimStatuses)
	return out
}

// ParseClaimStatus converts raw input into a ClaimStatus.
func ParseClaimStatus(value string) (ClaimStatus, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validClaimStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid claim status %q", value)
}
