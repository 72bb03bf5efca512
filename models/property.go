package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeLand        = "Land"
	TypeResidential = "Residential"
	TypeCommercial  = "Commercial"
)

const (
	StatusDraft    = "draft"
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusSold     = "sold"
	StatusRejected = "rejected"
)

const (
	MaxUserImages    = 5
	MaxAdminImages   = 6
	MaxUserFeatures  = 8
	MaxAdminFeatures = 10
)

var PropertyTypes = []string{TypeLand, TypeResidential, TypeCommercial}

var PropertyStatuses = []string{StatusDraft, StatusPending, StatusActive, StatusSold, StatusRejected}

var AreaUnits = []string{"sqft", "sqm", "bigha", "katha", "acres", "hectares"}

var Districts = []string{
	"Kolkata", "Howrah", "Hooghly", "North 24 Parganas", "South 24 Parganas",
	"Nadia", "Murshidabad", "Bardhaman", "Birbhum", "Bankura",
	"Purulia", "West Midnapore", "East Midnapore", "Jalpaiguri",
	"Darjeeling", "Cooch Behar", "Alipurduar", "Siliguri",
	"Malda", "Dinajpur", "Raiganj", "Durgapur", "Asansol",
}

type Property struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `json:"title"`
	Type         string    `json:"type"`
	Status       string    `gorm:"index" json:"status"`
	Location     string    `json:"location"`
	District     string    `gorm:"index" json:"district"`
	Price        int64     `json:"price"`
	Area         string    `json:"area"`
	AreaUnit     string    `json:"area_unit"`
	Description  string    `json:"description"`
	Images       []string  `gorm:"serializer:json" json:"images"`
	Features     []string  `gorm:"serializer:json" json:"features"`
	SellerName   string    `json:"seller_name"`
	SellerPhone  string    `json:"seller_phone"`
	SellerEmail  string    `json:"seller_email"`
	RejectReason string    `json:"reject_reason,omitempty"`
	CreatedBy    *string   `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func IsValidPropertyType(t string) bool {
	return contains(PropertyTypes, t)
}

func IsValidPropertyStatus(s string) bool {
	return contains(PropertyStatuses, s)
}

func IsValidAreaUnit(u string) bool {
	return contains(AreaUnits, u)
}

func IsValidDistrict(d string) bool {
	return contains(Districts, d)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
