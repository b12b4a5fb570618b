package cart

import (
	"reflect"
	"testing"

	"atelier_back_end/internal/models"
)

func item(id string, qty int) models.CartItem {
	return models.CartItem{ProductID: id, Name: "produit " + id, Price: 10, Quantity: qty}
}

func TestMergeRemotePrecedence(t *testing.T) {
	remote := []models.CartItem{item("p1", 3), item("p2", 1)}
	local := []models.CartItem{item("p1", 5), item("p3", 2)}

	merged := Merge(remote, local)

	if len(merged) != 3 {
		t.Fatalf("attendu 3 lignes, obtenu %d", len(merged))
	}
	if merged[0].ProductID != "p1" || merged[0].Quantity != 3 {
		t.Errorf("p1 doit garder la quantité distante 3, obtenu %d", merged[0].Quantity)
	}
	if merged[1].ProductID != "p2" {
		t.Errorf("ordre distant non préservé: %v", merged)
	}
	if merged[2].ProductID != "p3" || merged[2].Quantity != 2 {
		t.Errorf("la ligne locale seule doit être ajoutée à la suite: %v", merged)
	}
}

func TestMergeIdempotent(t *testing.T) {
	cart := []models.CartItem{item("p1", 2), item("p2", 4)}

	once := Merge(cart, nil)
	twice := Merge(once, once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("re-merger un panier déjà réconcilié ne doit rien changer: %v vs %v", once, twice)
	}
	if len(twice) != 2 {
		t.Errorf("pas de doublon attendu, obtenu %d lignes", len(twice))
	}
}

func TestMergeEmptySides(t *testing.T) {
	local := []models.CartItem{item("p1", 1)}

	if got := Merge(nil, local); len(got) != 1 || got[0].ProductID != "p1" {
		t.Errorf("distant vide: le local doit survivre, obtenu %v", got)
	}
	if got := Merge(local, nil); len(got) != 1 {
		t.Errorf("local vide: le distant doit survivre, obtenu %v", got)
	}
	if got := Merge(nil, nil); len(got) != 0 {
		t.Errorf("deux répliques vides doivent donner un panier vide, obtenu %v", got)
	}
}

func TestMergeClampsQuantity(t *testing.T) {
	remote := []models.CartItem{item("p1", 0)}
	local := []models.CartItem{item("p2", -3)}

	merged := Merge(remote, local)
	for _, it := range merged {
		if it.Quantity < 1 {
			t.Errorf("aucune ligne ne doit avoir une quantité < 1: %+v", it)
		}
	}
}
