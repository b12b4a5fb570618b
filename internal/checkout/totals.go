package checkout

import "atelier_back_end/internal/models"

// Totals est le détail monétaire d'une commande.
// Invariant : Total = Subtotal + ShippingCost - Discount, tous >= 0.
type Totals struct {
	Subtotal     float64
	Discount     float64
	ShippingCost float64
	Total        float64
}

// ComputeTotals dérive les montants d'une commande depuis les lignes du
// panier (déjà re-tarifées depuis le catalogue). Une réduction supérieure
// au sous-total est ramenée au sous-total : le total ne descend jamais
// sous les frais de port.
func ComputeTotals(items []models.CartItem, shippingCost, discount float64) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}

	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}
	if shippingCost < 0 {
		shippingCost = 0
	}

	return Totals{
		Subtotal:     subtotal,
		Discount:     discount,
		ShippingCost: shippingCost,
		Total:        subtotal + shippingCost - discount,
	}
}

// CheckTotals vérifie l'invariant monétaire avant persistance.
func CheckTotals(t Totals) bool {
	if t.Subtotal < 0 || t.Discount < 0 || t.ShippingCost < 0 || t.Total < 0 {
		return false
	}
	const epsilon = 1e-9
	diff := t.Total - (t.Subtotal + t.ShippingCost - t.Discount)
	return diff < epsilon && diff > -epsilon
}
