package checkout

import (
	"strings"
	"testing"
)

// La vue "mes commandes" lit ces colonnes dans orders_by_user : chacune
// doit être écrite au passage de commande, sinon elle ressort à zéro.
func TestOrderByUserRowCarriesListViewColumns(t *testing.T) {
	required := []string{
		"user_id", "order_id", "status", "subtotal", "discount",
		"shipping_cost", "total", "payment_method", "coupon_code", "created_at",
	}

	for _, col := range required {
		if !strings.Contains(insertOrderByUserCQL, col) {
			t.Errorf("colonne %q absente de l'insertion orders_by_user", col)
		}
	}
}

func TestOrderByUserInsertPlaceholdersMatchColumns(t *testing.T) {
	open := strings.Index(insertOrderByUserCQL, "(")
	closing := strings.Index(insertOrderByUserCQL, ")")
	if open < 0 || closing < open {
		t.Fatal("requête d'insertion malformée")
	}
	columns := len(strings.Split(insertOrderByUserCQL[open+1:closing], ","))
	placeholders := strings.Count(insertOrderByUserCQL, "?")

	if columns != placeholders {
		t.Errorf("%d colonnes pour %d paramètres", columns, placeholders)
	}
}
