package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type UpsertValuationRequest struct {
	OperationCode string          `json:"operation_code"`
	IncomeTier    string          `json:"income_tier"`
	BuybackPrice  decimal.Decimal `json:"buyback_price"`
}

type Service interface {
	// BuybackPrice resolves the €/MWh buy-back price for an operation and
	// income tier, falling back to the tenant's standard row. A tenant with
	// no valuation row at all is a configuration error, not a zero price.
	BuybackPrice(ctx context.Context, orgID snowflake.ID, operationCode, incomeTier string) (decimal.Decimal, error)
	Upsert(ctx context.Context, orgID snowflake.ID, req UpsertValuationRequest) (OperationValuation, error)
	List(ctx context.Context, orgID snowflake.ID, operationCode string) ([]OperationValuation, error)
}

var (
	ErrValuationNotConfigured = errors.New("valuation_not_configured")
	ErrInvalidBuybackPrice    = errors.New("invalid_buyback_price")
	ErrInvalidOperationCode   = errors.New("invalid_operation_code")
)
