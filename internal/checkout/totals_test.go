package checkout

import (
	"testing"

	"atelier_back_end/internal/models"
)

func TestComputeTotalsExampleScenario(t *testing.T) {
	// Panier [{p1, 35€ × 2}], port forfaitaire 10€, réduction 5€.
	items := []models.CartItem{{ProductID: "p1", Price: 35, Quantity: 2}}

	totals := ComputeTotals(items, 10, 5)

	if totals.Subtotal != 70 {
		t.Errorf("subtotal = %.2f, attendu 70", totals.Subtotal)
	}
	if totals.ShippingCost != 10 {
		t.Errorf("shipping_cost = %.2f, attendu 10", totals.ShippingCost)
	}
	if totals.Discount != 5 {
		t.Errorf("discount = %.2f, attendu 5", totals.Discount)
	}
	if totals.Total != 75 {
		t.Errorf("total = %.2f, attendu 75", totals.Total)
	}
	if !CheckTotals(totals) {
		t.Error("l'invariant total = subtotal + shipping - discount doit tenir")
	}
}

func TestComputeTotalsClampsDiscount(t *testing.T) {
	items := []models.CartItem{{ProductID: "p1", Price: 5, Quantity: 1}}

	totals := ComputeTotals(items, 10, 50)

	if totals.Discount != 5 {
		t.Errorf("la réduction doit être ramenée au sous-total, obtenu %.2f", totals.Discount)
	}
	if totals.Total != 10 {
		t.Errorf("le total ne descend jamais sous les frais de port, obtenu %.2f", totals.Total)
	}
	if !CheckTotals(totals) {
		t.Error("invariant monétaire violé après écrêtage")
	}
}

func TestCheckTotalsRejectsViolations(t *testing.T) {
	bad := []Totals{
		{Subtotal: 70, ShippingCost: 10, Discount: 5, Total: 80},  // total faux
		{Subtotal: -1, ShippingCost: 0, Discount: 0, Total: -1},   // négatif
		{Subtotal: 10, ShippingCost: 0, Discount: 20, Total: -10}, // total négatif
	}
	for _, tt := range bad {
		if CheckTotals(tt) {
			t.Errorf("montants incohérents acceptés: %+v", tt)
		}
	}
}
