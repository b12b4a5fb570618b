package product

import (
	"testing"

	"atelier_back_end/internal/models"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Tasse Émail 250ml", "tasse-email-250ml"},
		{"Théière en fonte", "theiere-en-fonte"},
		{"  Plateau -- bois  ", "plateau-bois"},
		{"Déjà un slug", "deja-un-slug"},
		{"100% Coton", "100-coton"},
	}

	for _, tc := range cases {
		if got := slugify(tc.name); got != tc.want {
			t.Errorf("slugify(%q) = %q, attendu %q", tc.name, got, tc.want)
		}
	}
}

func TestProductMatches(t *testing.T) {
	p := models.Product{
		Name:        "Bol en grès",
		Description: "Tourné à la main, émail bleu nuit",
		Tags:        []string{"céramique", "cuisine"},
	}

	if !productMatches(p, "grès") {
		t.Error("le nom doit matcher")
	}
	if !productMatches(p, "émail") {
		t.Error("la description doit matcher")
	}
	if !productMatches(p, "céramique") {
		t.Error("les tags doivent matcher")
	}
	if productMatches(p, "verre") {
		t.Error("faux positif sur un terme absent")
	}
}
