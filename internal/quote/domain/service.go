package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"

	pricingdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/pricing/domain"
)

// SimulateRequest is the boundary input of one quote simulation.
type SimulateRequest struct {
	OperationCode string           `json:"operation_code"`
	FolderID      string           `json:"folder_id"`
	ProductIDs    []string         `json:"product_ids"`
	TargetRAC     *decimal.Decimal `json:"target_rac,omitempty"`
}

type Service interface {
	Simulate(ctx context.Context, orgID snowflake.ID, req SimulateRequest) (pricingdomain.QuotePreview, error)
}

var (
	ErrInvalidOperationCode    = errors.New("invalid_operation_code")
	ErrInvalidProductSelection = errors.New("invalid_product_selection")
	ErrInvalidTargetRAC        = errors.New("invalid_target_rac")
)
