package report

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var prepaidThreshold = decimal.NewFromInt(1)

// PODSet holds the order ids with proof-of-delivery evidence.
type PODSet map[string]struct{}

// NewPODSet builds the set from raw spreadsheet values.
func NewPODSet(ids []string) PODSet {
	set := make(PODSet, len(ids))
	for _, id := range ids {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return set
}

func (s PODSet) Has(orderID string) bool {
	_, ok := s[strings.TrimSpace(orderID)]
	return ok
}

// CODLinks maps a cleaned order id to the deposit proof link.
type CODLinks map[string]string

// NewCODLinks builds the map from (order id, link) pairs. Later rows win.
func NewCODLinks(pairs [][2]string) CODLinks {
	links := make(CODLinks, len(pairs))
	for _, pair := range pairs {
		id := CleanOrderID(pair[0])
		if id == "" {
			continue
		}
		links[id] = strings.TrimSpace(pair[1])
	}
	return links
}

func (c CODLinks) Link(orderID string) (string, bool) {
	link, ok := c[CleanOrderID(orderID)]
	return link, ok
}

// CleanOrderID normalizes ids typed by hand into the deposit sheet:
// surrounding and inner whitespace and a leading '#' are dropped.
func CleanOrderID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(id, "#")
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, id)
}

// AnnotateProof sets the proof column from POD membership of delivered rows.
func AnnotateProof(row Row, pod PODSet) Row {
	switch {
	case !row.Delivered():
		row.Proof = NotApplicable
	case pod.Has(row.ClientID):
		row.Proof = ProofProvided
	default:
		row.Proof = ProofMissing
	}
	return row
}

// AnnotateCash sets the cash collection columns for clients tracking COD.
func AnnotateCash(row Row, cod CODLinks) Row {
	if row.PriceOfGoods.LessThan(prepaidThreshold) {
		row.CashCollected, row.ProofLink = Prepaid, Prepaid
		return row
	}
	if !row.Delivered() {
		row.CashCollected, row.ProofLink = NotApplicable, NotApplicable
		return row
	}
	if link, ok := cod.Link(row.ClientID); ok {
		row.CashCollected, row.ProofLink = DepositVerified, link
		return row
	}
	row.CashCollected, row.ProofLink = DepositMissing, NoLink
	return row
}
