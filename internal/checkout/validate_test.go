package checkout

import "testing"

func validInput() Input {
	return Input{
		Name:            "Jean Dupont",
		Email:           "jean@exemple.fr",
		Phone:           "+33 6 12 34 56 78",
		ShippingAddress: "12 rue des Lilas, 75011 Paris",
		PaymentMethod:   "COD",
	}
}

func TestValidateInputOK(t *testing.T) {
	if fields := ValidateInput(validInput()); fields != nil {
		t.Errorf("saisie valide rejetée: %v", fields)
	}
}

func TestValidateInputPerFieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
		field  string
	}{
		{"nom trop court", func(in *Input) { in.Name = "J" }, "name"},
		{"email sans arobase", func(in *Input) { in.Email = "jean.exemple.fr" }, "email"},
		{"email sans domaine", func(in *Input) { in.Email = "jean@exemple" }, "email"},
		{"téléphone trop court", func(in *Input) { in.Phone = "123" }, "phone"},
		{"téléphone alphabétique", func(in *Input) { in.Phone = "zéro six" }, "phone"},
		{"adresse trop courte", func(in *Input) { in.ShippingAddress = "Paris" }, "shipping_address"},
		{"moyen de paiement inconnu", func(in *Input) { in.PaymentMethod = "CHEQUE" }, "payment_method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			fields := ValidateInput(in)
			if fields == nil {
				t.Fatal("saisie invalide acceptée")
			}
			if _, ok := fields[tt.field]; !ok {
				t.Errorf("erreur attendue sur %q, obtenu %v", tt.field, fields)
			}
			if len(fields) != 1 {
				t.Errorf("une seule erreur attendue, obtenu %v", fields)
			}
		})
	}
}

func TestValidateInputCollectsAllErrors(t *testing.T) {
	fields := ValidateInput(Input{})
	for _, f := range []string{"name", "email", "phone", "shipping_address", "payment_method"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("erreur manquante pour %q: %v", f, fields)
		}
	}
}
