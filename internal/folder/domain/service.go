package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateFolderRequest struct {
	CustomerName  string        `json:"customer_name"`
	SurfaceM2     float64       `json:"surface_m2"`
	PropertyType  PropertyType  `json:"property_type"`
	ClimateZone   ClimateZone   `json:"climate_zone"`
	IncomeTier    IncomeTier    `json:"income_tier"`
	EmitterRegime EmitterRegime `json:"emitter_regime"`
}

type Service interface {
	Get(ctx context.Context, orgID snowflake.ID, id string) (Folder, error)
	Create(ctx context.Context, orgID snowflake.ID, req CreateFolderRequest) (Folder, error)
}

var (
	ErrInvalidFolderID     = errors.New("invalid_folder_id")
	ErrFolderNotFound      = errors.New("folder_not_found")
	ErrInvalidSurface      = errors.New("invalid_surface")
	ErrInvalidPropertyType = errors.New("invalid_property_type")
	ErrInvalidIncomeTier   = errors.New("invalid_income_tier")
)
