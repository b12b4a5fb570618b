package cart

import "atelier_back_end/internal/models"

// Merge réconcilie les deux répliques du panier : union par ID produit,
// les entrées distantes sont prioritaires, les lignes locales absentes du
// distant sont ajoutées à la suite. Merge est pure et idempotente :
// Merge(m, m) == m, pas de doublon, pas de changement de quantité.
func Merge(remote, local []models.CartItem) []models.CartItem {
	merged := make([]models.CartItem, 0, len(remote)+len(local))
	seen := make(map[string]bool, len(remote))

	for _, item := range remote {
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		if seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true
		merged = append(merged, item)
	}

	for _, item := range local {
		if seen[item.ProductID] {
			continue // la réplique distante a priorité
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		seen[item.ProductID] = true
		merged = append(merged, item)
	}

	return merged
}
