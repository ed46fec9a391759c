package report

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/routes-report/pkg/enums"
)

func TestAnnotateProof(t *testing.T) {
	pod := NewPODSet([]string{" ORD-1 ", "ORD-2", ""})

	cases := []struct {
		name   string
		status enums.ClaimStatus
		order  string
		want   string
	}{
		{"delivered with proof", enums.ClaimStatusDelivered, "ORD-1", ProofProvided},
		{"delivered finish with proof", enums.ClaimStatusDeliveredFinish, "ORD-2", ProofProvided},
		{"delivered without proof", enums.ClaimStatusDelivered, "ORD-3", ProofMissing},
		{"not delivered with proof", enums.ClaimStatusPickuped, "ORD-1", NotApplicable},
		{"cancelled", enums.ClaimStatusCancelled, "ORD-9", NotApplicable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := Row{Status: tc.status, ClientID: tc.order}
			got := AnnotateProof(row, pod)
			if got.Proof != tc.want {
				t.Fatalf("expected %q got %q", tc.want, got.Proof)
			}
			if row.Proof != "" {
				t.Fatalf("input row must not change")
			}
			if again := AnnotateProof(got, pod); again != got {
				t.Fatalf("annotation should be idempotent")
			}
		})
	}
}

func TestAnnotateCash(t *testing.T) {
	cod := NewCODLinks([][2]string{
		{"#ORD 1", " https://drive/1 "},
		{"", "https://drive/ignored"},
	})

	cases := []struct {
		name     string
		status   enums.ClaimStatus
		order    string
		price    string
		wantCash string
		wantLink string
	}{
		{"prepaid wins over status", enums.ClaimStatusPickuped, "ORD1", "0.99", Prepaid, Prepaid},
		{"not delivered", enums.ClaimStatusReturning, "ORD1", "100", NotApplicable, NotApplicable},
		{"deposit verified", enums.ClaimStatusDelivered, " #ORD1", "100", DepositVerified, "https://drive/1"},
		{"deposit missing", enums.ClaimStatusDeliveredFinish, "ORD2", "1", DepositMissing, NoLink},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := Row{Status: tc.status, ClientID: tc.order, PriceOfGoods: decimal.RequireFromString(tc.price)}
			got := AnnotateCash(row, cod)
			if got.CashCollected != tc.wantCash || got.ProofLink != tc.wantLink {
				t.Fatalf("expected %q/%q got %q/%q", tc.wantCash, tc.wantLink, got.CashCollected, got.ProofLink)
			}
			again := AnnotateCash(got, cod)
			if again.CashCollected != got.CashCollected || again.ProofLink != got.ProofLink {
				t.Fatalf("annotation should be idempotent")
			}
		})
	}
}

func TestCleanOrderID(t *testing.T) {
	cases := map[string]string{
		"ORD-1":     "ORD-1",
		"  #ORD-1 ": "ORD-1",
		"#ORD 1":    "ORD1",
		"12 34\t56": "123456",
		"":          "",
		"##double":  "#double",
	}
	for in, want := range cases {
		if got := CleanOrderID(in); got != want {
			t.Fatalf("CleanOrderID(%q) = %q, want %q", in, got, want)
		}
	}
}
