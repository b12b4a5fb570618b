package models

import (
	"time"

	"github.com/gocql/gocql"
)

// ShippingZone est une zone de livraison configurable par l'admin.
// Note : le checkout applique le tarif forfaitaire des réglages,
// les zones servent à l'affichage des options côté boutique.
type ShippingZone struct {
	ID        gocql.UUID `json:"id"`
	Name      string     `json:"name"`
	Countries []string   `json:"countries"`
	Rate      float64    `json:"rate"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type ShippingOption struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	EstimatedDays int     `json:"estimated_days"`
}

type ShippingCalculation struct {
	Options       []ShippingOption `json:"options"`
	FreeThreshold float64          `json:"free_threshold"`
	CartTotal     float64          `json:"cart_total"`
	IsFree        bool             `json:"is_free"`
}
