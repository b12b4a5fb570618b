package checkout

import (
	"fmt"
	"time"

	"atelier_back_end/internal/models"
)

// ValidateCoupon applique les règles d'un coupon à un sous-total de panier.
// Les codes sont comparés en majuscules ; la réduction est dérivée ici,
// jamais reprise de la saisie client.
func ValidateCoupon(coupon models.Coupon, cartSubtotal float64, now time.Time) models.CouponValidation {
	if !coupon.IsActive {
		return models.CouponValidation{
			IsValid:      false,
			ErrorCode:    CodeCouponInvalid,
			ErrorMessage: "Ce coupon n'est plus actif",
		}
	}

	if now.After(coupon.ExpiryDate) {
		return models.CouponValidation{
			IsValid:      false,
			ErrorCode:    CodeCouponExpired,
			ErrorMessage: "Ce coupon a expiré",
		}
	}

	if coupon.UsageLimit > 0 && coupon.UsageCount >= coupon.UsageLimit {
		return models.CouponValidation{
			IsValid:      false,
			ErrorCode:    CodeCouponLimitReached,
			ErrorMessage: "Ce coupon a atteint sa limite d'utilisation",
		}
	}

	if cartSubtotal < coupon.MinSpend {
		return models.CouponValidation{
			IsValid:      false,
			ErrorCode:    CodeCouponInvalid,
			ErrorMessage: fmt.Sprintf("Montant minimum requis: %.2f€", coupon.MinSpend),
		}
	}

	if coupon.MaxSpend != nil && cartSubtotal > *coupon.MaxSpend {
		return models.CouponValidation{
			IsValid:      false,
			ErrorCode:    CodeCouponInvalid,
			ErrorMessage: fmt.Sprintf("Montant maximum autorisé: %.2f€", *coupon.MaxSpend),
		}
	}

	var discount float64
	switch coupon.Type {
	case models.CouponTypePercentage:
		discount = cartSubtotal * (coupon.Amount / 100)
	case models.CouponTypeFixed:
		discount = coupon.Amount
		if discount > cartSubtotal {
			discount = cartSubtotal
		}
	default:
		return models.CouponValidation{
			IsValid:      false,
			ErrorCode:    CodeCouponInvalid,
			ErrorMessage: "Type de coupon invalide",
		}
	}

	return models.CouponValidation{
		IsValid:  true,
		Discount: discount,
		Type:     coupon.Type,
		Code:     coupon.Code,
	}
}
