package checkout

import (
	"regexp"
	"strings"

	"atelier_back_end/internal/models"
)

// Input est la saisie du formulaire de checkout.
type Input struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	ShippingAddress string `json:"shipping_address"`
	BillingAddress  string `json:"billing_address"` // vide = adresse de livraison
	PaymentMethod   string `json:"payment_method"`
	CouponCode      string `json:"coupon_code"`
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
var phoneRe = regexp.MustCompile(`^\+?[0-9 .-]{6,20}$`)

// ValidateInput vérifie les champs du checkout et retourne une map
// champ → message. Map vide = saisie valide. Aucune écriture partielle
// n'a lieu tant que cette map n'est pas vide.
func ValidateInput(in Input) map[string]string {
	fields := make(map[string]string)

	if len(strings.TrimSpace(in.Name)) < 2 {
		fields["name"] = "Nom requis (2 caractères minimum)"
	}
	if !emailRe.MatchString(strings.TrimSpace(in.Email)) {
		fields["email"] = "Adresse e-mail invalide"
	}
	if !phoneRe.MatchString(strings.TrimSpace(in.Phone)) {
		fields["phone"] = "Numéro de téléphone invalide"
	}
	if len(strings.TrimSpace(in.ShippingAddress)) < 10 {
		fields["shipping_address"] = "Adresse de livraison requise (10 caractères minimum)"
	}
	if !models.ValidPaymentMethod(in.PaymentMethod) {
		fields["payment_method"] = "Moyen de paiement invalide"
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}
