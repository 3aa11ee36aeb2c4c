package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Category     ProductCategory  `json:"category"`
	Brand        string           `json:"brand"`
	Reference    string           `json:"reference"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	SalePrice    decimal.Decimal  `json:"sale_price"`
	PurchaseCost *decimal.Decimal `json:"purchase_cost,omitempty"`
	TaxRate      *decimal.Decimal `json:"tax_rate,omitempty"`
	HeatPump     *HeatPumpDetail  `json:"heat_pump,omitempty"`
}

type ListProductRequest struct {
	Category string `form:"category"`
}

type Service interface {
	GetByIDs(ctx context.Context, orgID snowflake.ID, ids []snowflake.ID) ([]Product, error)
	GetByID(ctx context.Context, orgID, id snowflake.ID) (Product, error)
	GetByReferences(ctx context.Context, orgID snowflake.ID, refs []string) ([]Product, error)
	Create(ctx context.Context, orgID snowflake.ID, req CreateProductRequest) (Product, error)
	List(ctx context.Context, orgID snowflake.ID, req ListProductRequest) ([]Product, error)
}

var (
	ErrInvalidProductID = errors.New("invalid_product_id")
	ErrProductNotFound  = errors.New("product_not_found")
	ErrInvalidCategory  = errors.New("invalid_category")
	ErrInvalidSalePrice = errors.New("invalid_sale_price")
	ErrInvalidTaxRate   = errors.New("invalid_tax_rate")
	ErrInvalidReference = errors.New("invalid_reference")
)
