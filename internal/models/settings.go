package models

import "time"

// PaymentSettings est la configuration unique des paiements et de la
// livraison forfaitaire, éditée depuis le dashboard admin.
type PaymentSettings struct {
	CODEnabled        bool      `json:"cod_enabled"`
	StripeEnabled     bool      `json:"stripe_enabled"`
	BankEnabled       bool      `json:"bank_enabled"`
	FlatShippingRate  float64   `json:"flat_shipping_rate"`
	FreeShippingAbove float64   `json:"free_shipping_above"` // 0 = jamais gratuit
	BankBeneficiary   string    `json:"bank_beneficiary,omitempty"`
	BankIBAN          string    `json:"bank_iban,omitempty"`
	BankBIC           string    `json:"bank_bic,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DefaultPaymentSettings retourne la configuration par défaut quand la
// ligne de réglages n'existe pas encore.
func DefaultPaymentSettings() PaymentSettings {
	return PaymentSettings{
		CODEnabled:       true,
		StripeEnabled:    true,
		BankEnabled:      false,
		FlatShippingRate: 10,
	}
}

// MethodEnabled indique si un moyen de paiement est activé.
func (s PaymentSettings) MethodEnabled(method string) bool {
	switch method {
	case PaymentMethodCOD:
		return s.CODEnabled
	case PaymentMethodStripe:
		return s.StripeEnabled
	case PaymentMethodBank:
		return s.BankEnabled
	}
	return false
}
