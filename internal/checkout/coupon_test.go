package checkout

import (
	"testing"
	"time"

	"atelier_back_end/internal/models"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func activeCoupon() models.Coupon {
	return models.Coupon{
		Code:       "SAVE10",
		Type:       models.CouponTypeFixed,
		Amount:     10,
		ExpiryDate: testNow.Add(24 * time.Hour),
		IsActive:   true,
	}
}

func TestValidateCouponFixed(t *testing.T) {
	v := ValidateCoupon(activeCoupon(), 50, testNow)
	if !v.IsValid || v.Discount != 10 {
		t.Errorf("coupon fixe de 10€ sur 50€: attendu réduction 10, obtenu %+v", v)
	}
}

func TestValidateCouponFixedCappedAtSubtotal(t *testing.T) {
	v := ValidateCoupon(activeCoupon(), 4, testNow)
	if !v.IsValid || v.Discount != 4 {
		t.Errorf("la réduction fixe est plafonnée au sous-total, obtenu %+v", v)
	}
}

func TestValidateCouponPercentage(t *testing.T) {
	c := activeCoupon()
	c.Type = models.CouponTypePercentage
	c.Amount = 20

	v := ValidateCoupon(c, 80, testNow)
	if !v.IsValid || v.Discount != 16 {
		t.Errorf("20%% de 80€ = 16€, obtenu %+v", v)
	}
}

func TestValidateCouponExpired(t *testing.T) {
	c := activeCoupon()
	c.ExpiryDate = testNow.Add(-time.Hour)

	v := ValidateCoupon(c, 50, testNow)
	if v.IsValid || v.ErrorCode != CodeCouponExpired {
		t.Errorf("coupon expiré accepté: %+v", v)
	}
}

func TestValidateCouponLimitReached(t *testing.T) {
	c := activeCoupon()
	c.UsageLimit = 100
	c.UsageCount = 100

	v := ValidateCoupon(c, 50, testNow)
	if v.IsValid || v.ErrorCode != CodeCouponLimitReached {
		t.Errorf("usage_count == usage_limit doit refuser le coupon: %+v", v)
	}
}

func TestValidateCouponInactive(t *testing.T) {
	c := activeCoupon()
	c.IsActive = false

	v := ValidateCoupon(c, 50, testNow)
	if v.IsValid || v.ErrorCode != CodeCouponInvalid {
		t.Errorf("coupon inactif accepté: %+v", v)
	}
}

func TestValidateCouponSpendBounds(t *testing.T) {
	c := activeCoupon()
	c.MinSpend = 30

	if v := ValidateCoupon(c, 20, testNow); v.IsValid {
		t.Errorf("sous-total sous le minimum accepté: %+v", v)
	}
	if v := ValidateCoupon(c, 30, testNow); !v.IsValid {
		t.Errorf("sous-total au minimum refusé: %+v", v)
	}

	max := 100.0
	c.MaxSpend = &max
	if v := ValidateCoupon(c, 150, testNow); v.IsValid {
		t.Errorf("sous-total au-dessus du maximum accepté: %+v", v)
	}
}
