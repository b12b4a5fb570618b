package checkout

// Codes d'erreur retournés à la frontière de l'action. Aucune erreur ne
// fait tomber la requête : tout revient au client sous forme d'objet tagué.
const (
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeEmptyCart          = "EMPTY_CART"
	CodeOutOfStock         = "OUT_OF_STOCK"
	CodeOrderCreation      = "ORDER_CREATION_FAILED"
	CodeOrderItemsCreation = "ORDER_ITEMS_CREATION_FAILED"
	CodeCouponInvalid      = "COUPON_INVALID"
	CodeCouponExpired      = "COUPON_EXPIRED"
	CodeCouponLimitReached = "COUPON_LIMIT_REACHED"
)

// Error est une erreur codée, avec un détail par champ pour les échecs de
// validation.
type Error struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

func errUnauthorized() *Error {
	return &Error{Code: CodeUnauthorized, Message: "Utilisateur non authentifié"}
}

func errEmptyCart() *Error {
	return &Error{Code: CodeEmptyCart, Message: "Panier vide"}
}

func errValidation(fields map[string]string) *Error {
	return &Error{Code: CodeValidationFailed, Message: "Données invalides", Fields: fields}
}

func errOrderCreation(detail string) *Error {
	return &Error{Code: CodeOrderCreation, Message: "Erreur création commande: " + detail}
}

func errOrderItemsCreation(detail string) *Error {
	return &Error{Code: CodeOrderItemsCreation, Message: "Erreur création lignes de commande: " + detail}
}
