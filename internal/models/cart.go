package models

// CartItem est une ligne du panier. L'identité est l'ID produit :
// ajouter deux fois le même produit cumule les quantités.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url"`
	Slug      string  `json:"slug"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"` // toujours >= 1
}

type Cart struct {
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"items"`
}

// TotalItems retourne la somme des quantités de toutes les lignes.
func (c Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Subtotal retourne la somme prix × quantité de toutes les lignes.
func (c Cart) Subtotal() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
