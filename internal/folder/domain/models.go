package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// PropertyType distinguishes the subsidy base-value table to use.
type PropertyType string

const (
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeApartment PropertyType = "apartment"
)

// ClimateZone is the French regulatory climate zone of the property.
type ClimateZone string

const (
	ClimateZoneH1 ClimateZone = "H1"
	ClimateZoneH2 ClimateZone = "H2"
	ClimateZoneH3 ClimateZone = "H3"
)

// IncomeTier is the household income bracket driving subsidy valuation.
type IncomeTier string

const (
	IncomeTierVeryModest IncomeTier = "very_modest"
	IncomeTierModest     IncomeTier = "modest"
	IncomeTierStandard   IncomeTier = "standard"
)

// EmitterRegime is the water temperature regime of the heating emitters.
type EmitterRegime string

const (
	EmitterRegimeLow    EmitterRegime = "low_temperature"
	EmitterRegimeMedium EmitterRegime = "medium_temperature"
	EmitterRegimeHigh   EmitterRegime = "high_temperature"
)

// Folder is a customer renovation file with its property attributes.
type Folder struct {
	ID            snowflake.ID  `json:"id" gorm:"primaryKey"`
	OrgID         snowflake.ID  `json:"organization_id" gorm:"column:org_id;not null;index"`
	CustomerName  string        `json:"customer_name" gorm:"type:text;not null"`
	SurfaceM2     float64       `json:"surface_m2" gorm:"not null"`
	PropertyType  PropertyType  `json:"property_type" gorm:"type:text;not null"`
	ClimateZone   ClimateZone   `json:"climate_zone" gorm:"type:text;not null"`
	IncomeTier    IncomeTier    `json:"income_tier" gorm:"type:text;not null"`
	EmitterRegime EmitterRegime `json:"emitter_regime" gorm:"type:text;not null;default:'high_temperature'"`
	CreatedAt     time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time     `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Folder) TableName() string { return "folders" }
