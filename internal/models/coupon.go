package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Types de coupon
const (
	CouponTypePercentage = "percentage"
	CouponTypeFixed      = "fixed"
)

// Coupon est un code de réduction. Le code est stocké en majuscules,
// la validation est insensible à la casse.
// Invariant : UsageCount <= UsageLimit quand une limite est définie.
type Coupon struct {
	ID         gocql.UUID `json:"id"`
	Code       string     `json:"code"`
	Type       string     `json:"type"` // "percentage" ou "fixed"
	Amount     float64    `json:"amount"`
	MinSpend   float64    `json:"min_spend"`
	MaxSpend   *float64   `json:"max_spend,omitempty"` // plafond de réduction
	ExpiryDate time.Time  `json:"expiry_date"`
	UsageLimit int        `json:"usage_limit"` // 0 = illimité
	UsageCount int        `json:"usage_count"`
	IsActive   bool       `json:"is_active"`
	CreatedBy  string     `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CouponValidation est le résultat d'une validation de coupon.
type CouponValidation struct {
	IsValid      bool    `json:"is_valid"`
	ErrorCode    string  `json:"error_code,omitempty"`
	ErrorMessage string  `json:"error_message,omitempty"`
	Discount     float64 `json:"discount"`
	Type         string  `json:"type,omitempty"`
	Code         string  `json:"code,omitempty"`
}
